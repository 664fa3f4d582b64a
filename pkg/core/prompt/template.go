package prompt

import (
	"bytes"
	"fmt"
	"text/template"
)

// Render executes a prompt template against vars. Rendering refuses to
// produce output when the template references a variable that is not bound,
// which surfaces silent prompt bugs instead of shipping a literal
// placeholder to the model.
func Render(name string, tmpl string, vars map[string]interface{}) (string, error) {
	t, err := template.New(name).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse prompt template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("failed to render prompt template %s: %w", name, err)
	}
	return buf.String(), nil
}

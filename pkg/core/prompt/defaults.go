package prompt

import (
	"embed"
	"fmt"
)

//go:embed defaults/*.txt
var defaultsFS embed.FS

// defaultFor returns the compiled-in default template for a known key.
// Panics on unknown keys; callers go through Registry.Get which checks first.
func defaultFor(key string) string {
	data, err := defaultsFS.ReadFile(fmt.Sprintf("defaults/%s.txt", key))
	if err != nil {
		panic(fmt.Sprintf("no compiled-in default for prompt key %q: %v", key, err))
	}
	return string(data)
}

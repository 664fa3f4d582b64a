package utils

import (
	"strings"
	"testing"
)

func TestCleanMarkdownStripsAcknowledgement(t *testing.T) {
	in := "Here is the section you asked for:\n## Revenue\nRevenue grew 12%."
	got := CleanMarkdown(in)
	if strings.HasPrefix(got, "Here is") {
		t.Errorf("acknowledgement not stripped: %q", got)
	}
	if !strings.Contains(got, "## Revenue") {
		t.Errorf("content lost: %q", got)
	}
}

func TestCleanMarkdownFencedFragment(t *testing.T) {
	in := "```markdown\n## Revenue\n```"
	if got := CleanMarkdown(in); got != "## Revenue" {
		t.Errorf("got %q", got)
	}
}

func TestRenderHTML(t *testing.T) {
	html, err := RenderHTML("## Revenue\n\nGrew 12%.")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html, "<h2") {
		t.Errorf("markdown heading not rendered: %q", html)
	}

	passthrough, err := RenderHTML("<p>already html</p>")
	if err != nil {
		t.Fatal(err)
	}
	if passthrough != "<p>already html</p>" {
		t.Errorf("html input should pass through: %q", passthrough)
	}
}

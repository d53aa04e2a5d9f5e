package questionnaire

import (
	"embed"
	"fmt"

	"github.com/pocketbase/pocketbase/tools/template"
)

//go:embed templates/*.html
var templatesFS embed.FS

// HTMLData is the template input of the questionnaire page.
type HTMLData struct {
	Lang   string
	Title  string
	Action string
	Page   Page
}

// The registry caches parsed templates by file list.
var registry = template.NewRegistry()

// RenderHTML renders the page with the embedded questionnaire template.
func RenderHTML(data HTMLData) (string, error) {
	html, err := registry.LoadFS(templatesFS, "templates/questionnaire.html").Render(data)
	if err != nil {
		return "", fmt.Errorf("render questionnaire: %w", err)
	}
	return html, nil
}

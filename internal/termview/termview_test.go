package termview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"driver_checklist_app/internal/checklist"
	"driver_checklist_app/internal/questionnaire"
)

type keys struct{}

func (keys) Translate(key string) string { return key[strings.LastIndex(key, ".")+1:] }

func sample() *checklist.Checklist {
	return &checklist.Checklist{
		ID:        "abc123",
		CarNumber: "ABC123",
		Questions: []checklist.Question{
			{ID: "1", Type: checklist.QuestionVehicle, LocalizationLt: "Brakes", QuestionValue: "OK"},
			{ID: "2", Type: checklist.QuestionFreeText, QuestionValue: "Wipers"},
			{ID: "3", Type: checklist.QuestionRationMVP, LocalizationLt: "Ration"},
		},
	}
}

func TestRenderColumns(t *testing.T) {
	page := questionnaire.RenderPage(keys{}, questionnaire.Props{ChecklistID: "abc123"}, sample())
	out := Render(page, 150)

	for _, want := range []string{"abc123", "carNumber", "ABC123", "Brakes", "(•) OK", "( ) NOT_OK", "malfunctions *", "Wipers", "Ration", "[ save ]"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "(locked)")
}

func TestRenderReadOnly(t *testing.T) {
	page := questionnaire.RenderPage(keys{}, questionnaire.Props{ChecklistID: "abc123", ReadOnly: true}, sample())
	out := Render(page, 150)

	assert.Equal(t, len(page.Fields()), strings.Count(out, "(locked)"))
	assert.NotContains(t, out, "[ save ]")
	assert.Contains(t, out, "readOnly")
}

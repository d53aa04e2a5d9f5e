package questionnaire

import (
	"strings"

	"driver_checklist_app/internal/checklist"
	"driver_checklist_app/internal/i18n"
)

// Widget names the input element a field is rendered with.
type Widget string

const (
	WidgetDateTime    Widget = "datetime"
	WidgetText        Widget = "text"
	WidgetNumber      Widget = "number"
	WidgetRadioGroup  Widget = "radio"
	WidgetTextArea    Widget = "textarea"
	WidgetCrewType    Widget = "crewType"
	WidgetBodyDefects Widget = "bodyDefects"
)

const (
	freeTextRows    = 5
	freeTextMaxRows = 25
)

// Field is one rendered input of the questionnaire.
type Field struct {
	Widget      Widget   `json:"widget"`
	Name        string   `json:"name"`
	DOMID       string   `json:"domId"`
	Label       string   `json:"label"`
	Placeholder string   `json:"placeholder,omitempty"`
	Format      string   `json:"format,omitempty"`
	Value       string   `json:"value"`
	Required    bool     `json:"required"`
	Disabled    bool     `json:"disabled"`
	Options     []Option `json:"options,omitempty"`
	Rows        int      `json:"rows,omitempty"`
	MaxRows     int      `json:"maxRows,omitempty"`
	QuestionID  string   `json:"questionId,omitempty"`
	Error       string   `json:"error,omitempty"`
}

type fieldRenderer func(r *Renderer, q Indexed) (Field, bool)

// renderers is the dispatch table over the closed question type set. A type that
// is missing from the table goes through renderNothing.
var renderers = map[checklist.QuestionType]fieldRenderer{
	checklist.QuestionVehicle:   radioRenderer(vehicleOptions),
	checklist.QuestionRationMVP: radioRenderer(rationOptions),
	checklist.QuestionFreeText:  renderFreeText,
}

// Renderer turns questions into fields for one translator and access mode.
type Renderer struct {
	tr       i18n.Translator
	readOnly bool
}

func NewRenderer(tr i18n.Translator, readOnly bool) *Renderer {
	return &Renderer{tr: tr, readOnly: readOnly}
}

// Render produces the input for q. ok is false when the question's type has no
// input element.
func (r *Renderer) Render(q Indexed) (Field, bool) {
	render, found := renderers[q.Type]
	if !found {
		render = renderNothing
	}
	f, ok := render(r, q)
	if !ok {
		return Field{}, false
	}
	f.Value = q.QuestionValue
	markSelected(f.Options, f.Value)
	return f, true
}

// RenderAll renders a group, skipping questions without an input element.
func (r *Renderer) RenderAll(group []Indexed) []Field {
	out := make([]Field, 0, len(group))
	for _, q := range group {
		if f, ok := r.Render(q); ok {
			out = append(out, f)
		}
	}
	return out
}

func radioRenderer(options []Option) fieldRenderer {
	return func(r *Renderer, q Indexed) (Field, bool) {
		name := checklist.QuestionFieldName(q.Index)
		return Field{
			Widget:     WidgetRadioGroup,
			Name:       name,
			DOMID:      domID(name),
			Label:      q.LocalizationLt,
			Required:   q.Required,
			Disabled:   r.readOnly,
			Options:    r.translateOptions(options),
			QuestionID: string(q.ID),
		}, true
	}
}

// Free-text answers are always required, whatever the question says.
func renderFreeText(r *Renderer, q Indexed) (Field, bool) {
	name := checklist.QuestionFieldName(q.Index)
	return Field{
		Widget:     WidgetTextArea,
		Name:       name,
		DOMID:      domID(name),
		Label:      r.tr.Translate(keyMalfunctions),
		Required:   true,
		Disabled:   r.readOnly,
		Rows:       freeTextRows,
		MaxRows:    freeTextMaxRows,
		QuestionID: string(q.ID),
	}, true
}

func renderNothing(*Renderer, Indexed) (Field, bool) {
	return Field{}, false
}

func (r *Renderer) translateOptions(options []Option) []Option {
	out := make([]Option, len(options))
	for i, o := range options {
		out[i] = Option{Value: o.Value, Label: r.tr.Translate(o.Label)}
	}
	return out
}

// header builds one of the fixed, non-question fields.
func (r *Renderer) header(widget Widget, name, labelKey, value string) Field {
	return Field{
		Widget:   widget,
		Name:     name,
		DOMID:    domID(name),
		Label:    r.tr.Translate(labelKey),
		Value:    value,
		Disabled: r.readOnly,
	}
}

func markSelected(options []Option, value string) {
	for i := range options {
		options[i].Selected = value != "" && options[i].Value == value
	}
}

var domIDReplacer = strings.NewReplacer("[", "-", "]", "", ".", "-")

func domID(name string) string {
	return "f-" + domIDReplacer.Replace(name)
}

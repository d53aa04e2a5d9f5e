package questionnaire

import (
	"sync"

	"driver_checklist_app/internal/checklist"
	"driver_checklist_app/internal/i18n"
	"driver_checklist_app/internal/utils"
)

// ViewState is Loading until the checklist is present in shared state.
type ViewState string

const (
	StateLoading ViewState = "loading"
	StateLoaded  ViewState = "loaded"
)

// Props are the route and session inputs of one render, derived once at the
// request boundary.
type Props struct {
	ChecklistID string
	Preview     bool
	ReadOnly    bool
}

// Notice is a banner shown above the form.
type Notice struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// Action is the form's submit button.
type Action struct {
	Label  string `json:"label"`
	Hidden bool   `json:"hidden"`
}

// Page is everything needed to draw the questionnaire, independent of the output
// format.
type Page struct {
	ChecklistID string    `json:"checklistId"`
	State       ViewState `json:"state"`
	ReadOnly    bool      `json:"readOnly"`
	Preview     bool      `json:"preview"`
	Notices     []Notice  `json:"notices"`
	Header      []Field   `json:"header"`
	Left        []Field   `json:"left"`
	Right       []Field   `json:"right"`
	Footer      []Field   `json:"footer"`
	Submit      Action    `json:"submit"`
	Columns     Columns   `json:"columns"`
}

// Requester issues a background load; checklist.Loader implements it.
type Requester interface {
	Request(id string)
}

// View is the questionnaire component. It remembers the mounted identifier so a
// load is requested only when the identifier changes.
type View struct {
	loader Requester
	tr     i18n.Translator

	mu      sync.Mutex
	mounted string
}

func NewView(loader Requester, tr i18n.Translator) *View {
	return &View{loader: loader, tr: tr}
}

// Mount requests the checklist for id unless id is already mounted. It reports
// whether a request was issued.
func (v *View) Mount(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if id == "" || id == v.mounted {
		return false
	}
	v.mounted = id
	v.loader.Request(id)
	return true
}

func (v *View) Mounted() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mounted
}

// Render draws the page for props. A nil checklist renders the Loading state:
// header fields are present and the question groups are empty.
func (v *View) Render(props Props, cl *checklist.Checklist) Page {
	return RenderPage(v.tr, props, cl)
}

// RenderPage is the stateless part of View.Render.
func RenderPage(tr i18n.Translator, props Props, cl *checklist.Checklist) Page {
	r := NewRenderer(tr, props.ReadOnly)
	values := checklist.ValuesOf(cl)

	page := Page{
		ChecklistID: props.ChecklistID,
		State:       StateLoading,
		ReadOnly:    props.ReadOnly,
		Preview:     props.Preview,
		Notices:     []Notice{},
		Submit:      Action{Label: tr.Translate(keySave), Hidden: props.ReadOnly},
	}

	var questions []checklist.Question
	if cl != nil {
		page.State = StateLoaded
		questions = cl.Questions
	} else {
		page.Notices = append(page.Notices, Notice{Kind: "info", Text: tr.Translate(keyLoading)})
	}
	if props.ReadOnly {
		page.Notices = append(page.Notices, Notice{Kind: "warning", Text: tr.Translate(keyReadOnly)})
	}
	if props.Preview {
		page.Notices = append(page.Notices, Notice{Kind: "info", Text: tr.Translate(keyPreview)})
	}

	date := r.header(WidgetDateTime, checklist.FieldDate, keyDate, utils.FormatDateTime(values.Date))
	date.Placeholder = tr.Translate(keyChoose)
	date.Format = utils.DateTimeFormat

	crewType := r.header(WidgetCrewType, checklist.FieldCrewType, keyCrewType, string(values.CrewType))
	crewType.Options = r.translateOptions(crewTypeOptions())
	markSelected(crewType.Options, crewType.Value)

	page.Header = []Field{
		date,
		r.header(WidgetText, checklist.FieldCarNumber, keyCarNumber, values.CarNumber),
		r.header(WidgetNumber, checklist.FieldCrewNumber, keyCrewNumber, utils.FormatOptionalInt(values.CrewNumber)),
		r.header(WidgetNumber, checklist.FieldItemNumber, keyItemNumber, utils.FormatOptionalInt(values.ItemNumber)),
		crewType,
	}

	page.Columns = Classify(questions)
	page.Left = append(r.RenderAll(page.Columns.Vehicle), r.RenderAll(page.Columns.Text)...)
	page.Right = r.RenderAll(page.Columns.Ration)

	defects := r.header(WidgetBodyDefects, checklist.FieldBodyDefects, keyBodyDefects, encodeDefects(values.BodyDefects))
	page.Right = append(page.Right, defects)
	page.Footer = []Field{r.header(WidgetText, checklist.FieldName, keyName, values.Name)}
	return page
}

// Fields returns every field of the page in document order.
func (p Page) Fields() []Field {
	out := make([]Field, 0, len(p.Header)+len(p.Left)+len(p.Right)+len(p.Footer))
	out = append(out, p.Header...)
	out = append(out, p.Left...)
	out = append(out, p.Right...)
	out = append(out, p.Footer...)
	return out
}

// WithValues overwrites field values with what the user submitted, so a form that
// failed validation is shown again with the user's input.
func (p Page) WithValues(values map[string]string) Page {
	return p.mapFields(func(f *Field) {
		if v, ok := values[f.Name]; ok {
			f.Value = v
			markSelected(f.Options, v)
		}
	})
}

// WithErrors attaches translated validation messages to the matching fields.
func (p Page) WithErrors(tr i18n.Translator, verr *ValidationError) Page {
	if verr == nil {
		return p
	}
	return p.mapFields(func(f *Field) {
		if key, ok := verr.Fields[f.Name]; ok {
			f.Error = tr.Translate(key)
		}
	})
}

// mapFields applies fn to copies of every field, leaving p untouched.
func (p Page) mapFields(fn func(*Field)) Page {
	apply := func(fields []Field) []Field {
		if fields == nil {
			return nil
		}
		out := make([]Field, len(fields))
		for i, f := range fields {
			f.Options = append([]Option(nil), f.Options...)
			fn(&f)
			out[i] = f
		}
		return out
	}
	p.Header = apply(p.Header)
	p.Left = apply(p.Left)
	p.Right = apply(p.Right)
	p.Footer = apply(p.Footer)
	return p
}

// WithNotice appends a banner.
func (p Page) WithNotice(kind, text string) Page {
	p.Notices = append(append([]Notice(nil), p.Notices...), Notice{Kind: kind, Text: text})
	return p
}

// RoleGate supplies the roles of the current user.
type RoleGate interface {
	CurrentRoles() []checklist.Role
}

// ReadOnlyFor reports whether the user behind gate holds the restricted role.
func ReadOnlyFor(gate RoleGate, restricted checklist.Role) bool {
	if gate == nil {
		return false
	}
	return checklist.HasRole(gate.CurrentRoles(), restricted)
}

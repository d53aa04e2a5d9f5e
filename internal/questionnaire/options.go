package questionnaire

import "driver_checklist_app/internal/checklist"

// Option is one choice of a radio group or select. Label holds a translation key
// until the field is rendered.
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected,omitempty"`
}

var vehicleOptions = []Option{
	{Value: "OK", Label: "questionnaires.options.vehicle.OK"},
	{Value: "NOT_OK", Label: "questionnaires.options.vehicle.NOT_OK"},
}

var rationOptions = []Option{
	{Value: "RECEIVED", Label: "questionnaires.options.ration.RECEIVED"},
	{Value: "NOT_RECEIVED", Label: "questionnaires.options.ration.NOT_RECEIVED"},
}

func crewTypeOptions() []Option {
	out := make([]Option, 0, len(checklist.CrewTypes))
	for _, c := range checklist.CrewTypes {
		out = append(out, Option{Value: string(c), Label: "questionnaires.crewTypes." + string(c)})
	}
	return out
}

// OptionValues lists the accepted answers for a radio question type.
func OptionValues(t checklist.QuestionType) []string {
	var opts []Option
	switch t {
	case checklist.QuestionVehicle:
		opts = vehicleOptions
	case checklist.QuestionRationMVP:
		opts = rationOptions
	default:
		return nil
	}
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Value
	}
	return out
}

// Translation keys of the form labels.
const (
	keyDate         = "questionnaires.form.date"
	keyCarNumber    = "questionnaires.form.carNumber"
	keyCrewNumber   = "questionnaires.form.crewNumber"
	keyItemNumber   = "questionnaires.form.itemNumber"
	keyCrewType     = "questionnaires.form.crewType"
	keyName         = "questionnaires.form.name"
	keyMalfunctions = "questionnaires.form.malfunctions"
	keyBodyDefects  = "questionnaires.form.bodyDefects"
	keySave         = "questionnaires.form.save"
	keyLoading      = "questionnaires.form.loading"
	keyReadOnly     = "questionnaires.form.readOnly"
	keyPreview      = "questionnaires.form.preview"
	keySaved        = "questionnaires.form.saved"
	keyChoose       = "placeholders.choose"

	keyRequired    = "validation.required"
	keyNumber      = "validation.number"
	keyDateInvalid = "validation.date"
	keyCrewInvalid = "validation.crewType"
	keyDefects     = "validation.bodyDefects"
	keyOption      = "validation.option"
	keyForbidden   = "validation.readOnly"
)

package questionnaire

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"driver_checklist_app/internal/checklist"
	"driver_checklist_app/internal/utils"
)

// ErrUnknownQuestion is returned when a posted answer addresses an index outside
// the checklist's question sequence.
var ErrUnknownQuestion = errors.New("answer for unknown question")

var questionKey = regexp.MustCompile(`^questions\[(\d+)\]\.questionValue$`)

// DecodeForm turns posted form keys into typed values. Malformed header values
// are reported together as a *ValidationError; the returned values still carry
// everything that could be parsed.
func DecodeForm(form url.Values, questionCount int) (checklist.FormValues, error) {
	values := checklist.FormValues{Answers: map[int]string{}}
	verr := &ValidationError{Fields: map[string]string{}}

	for key := range form {
		m := questionKey.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		index, err := strconv.Atoi(m[1])
		if err != nil || index >= questionCount {
			return values, fmt.Errorf("%w: %s", ErrUnknownQuestion, key)
		}
		if v := strings.TrimSpace(form.Get(key)); v != "" {
			values.Answers[index] = v
		}
	}

	if raw := strings.TrimSpace(form.Get(checklist.FieldDate)); raw != "" {
		date, err := utils.ParseDateTime(raw)
		if err != nil {
			verr.Fields[checklist.FieldDate] = keyDateInvalid
		}
		values.Date = date
	}

	values.CarNumber = strings.TrimSpace(form.Get(checklist.FieldCarNumber))
	values.Name = strings.TrimSpace(form.Get(checklist.FieldName))

	var err error
	if values.CrewNumber, err = utils.ParseOptionalInt(form.Get(checklist.FieldCrewNumber)); err != nil {
		verr.Fields[checklist.FieldCrewNumber] = keyNumber
	}
	if values.ItemNumber, err = utils.ParseOptionalInt(form.Get(checklist.FieldItemNumber)); err != nil {
		verr.Fields[checklist.FieldItemNumber] = keyNumber
	}

	if raw := strings.TrimSpace(form.Get(checklist.FieldCrewType)); raw != "" {
		crew := checklist.CrewType(utils.NormalizeKey(raw))
		if !crew.IsValid() {
			verr.Fields[checklist.FieldCrewType] = keyCrewInvalid
		}
		values.CrewType = crew
	}

	defects, err := utils.DecodeJSONList[checklist.BodyDefect](form.Get(checklist.FieldBodyDefects))
	if err != nil {
		verr.Fields[checklist.FieldBodyDefects] = keyDefects
		defects = nil
	}
	values.BodyDefects = defects

	if len(verr.Fields) > 0 {
		return values, verr
	}
	return values, nil
}

// DecodeMap decodes the flat key map accepted by the JSON API.
func DecodeMap(m map[string]string, questionCount int) (checklist.FormValues, error) {
	form := make(url.Values, len(m))
	for k, v := range m {
		form.Set(k, v)
	}
	return DecodeForm(form, questionCount)
}

func encodeDefects(defects []checklist.BodyDefect) string {
	if defects == nil {
		defects = []checklist.BodyDefect{}
	}
	b, err := json.Marshal(defects)
	if err != nil {
		return "[]"
	}
	return string(b)
}

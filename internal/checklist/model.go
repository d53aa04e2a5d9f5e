// Package checklist holds the driver checklist domain model, the shared state the
// questionnaire reads from, and the loaders that populate it.
package checklist

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"driver_checklist_app/internal/utils"
)

// QuestionType is the closed set of question kinds the questionnaire knows how to
// render. Values outside the set are kept as-is and render nothing.
type QuestionType string

const (
	QuestionVehicle   QuestionType = "VEHICLE"
	QuestionRationMVP QuestionType = "RATION_MVP"
	QuestionFreeText  QuestionType = "FREE_TEXT"
)

func (t QuestionType) IsKnown() bool {
	switch t {
	case QuestionVehicle, QuestionRationMVP, QuestionFreeText:
		return true
	}
	return false
}

type CrewType string

const (
	CrewPatrol  CrewType = "PATROL"
	CrewEscort  CrewType = "ESCORT"
	CrewReserve CrewType = "RESERVE"
)

var CrewTypes = []CrewType{CrewPatrol, CrewEscort, CrewReserve}

func (c CrewType) IsValid() bool {
	for _, v := range CrewTypes {
		if c == v {
			return true
		}
	}
	return false
}

type Role string

const (
	RoleDriver     Role = "DRIVER"
	RoleMechanic   Role = "MECHANIC"
	RoleDispatcher Role = "DISPATCHER"
	RoleAdmin      Role = "ADMIN"
)

var Roles = []Role{RoleDriver, RoleMechanic, RoleDispatcher, RoleAdmin}

// QuestionID accepts both numeric and string identifiers from upstream payloads.
type QuestionID string

func (id *QuestionID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = QuestionID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = QuestionID(n.String())
	return nil
}

func (id QuestionID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

type Question struct {
	ID             QuestionID   `json:"id"`
	Type           QuestionType `json:"type"`
	LocalizationLt string       `json:"localizationLt"`
	Required       bool         `json:"required"`
	QuestionValue  string       `json:"questionValue,omitempty"`
}

type BodyDefect struct {
	Zone        string `json:"zone"`
	Description string `json:"description"`
}

// Checklist is a driver's inspection record. ID is the external identifier used
// in routes, not the storage record id.
type Checklist struct {
	ID          string       `json:"id"`
	Date        time.Time    `json:"date"`
	CarNumber   string       `json:"carNumber"`
	CrewNumber  *int         `json:"crewNumber,omitempty"`
	ItemNumber  *int         `json:"itemNumber,omitempty"`
	CrewType    CrewType     `json:"crewType,omitempty"`
	Name        string       `json:"name"`
	BodyDefects []BodyDefect `json:"bodyDefects"`
	Questions   []Question   `json:"questions"`
	Modified    time.Time    `json:"modified"`
}

// Clone returns a deep copy so state snapshots never alias caller data.
func (c *Checklist) Clone() *Checklist {
	if c == nil {
		return nil
	}
	cp := *c
	cp.CrewNumber = cloneInt(c.CrewNumber)
	cp.ItemNumber = cloneInt(c.ItemNumber)
	cp.BodyDefects = append([]BodyDefect(nil), c.BodyDefects...)
	cp.Questions = append([]Question(nil), c.Questions...)
	return &cp
}

func cloneInt(n *int) *int {
	if n == nil {
		return nil
	}
	v := *n
	return &v
}

// Form field names. They are part of the save payload contract and must not change.
const (
	FieldDate        = "date"
	FieldCarNumber   = "carNumber"
	FieldCrewNumber  = "crewNumber"
	FieldItemNumber  = "itemNumber"
	FieldCrewType    = "crewType"
	FieldName        = "name"
	FieldBodyDefects = "bodyDefects"
)

// QuestionFieldName addresses a question answer by its position in the original
// question sequence.
func QuestionFieldName(index int) string {
	return "questions[" + strconv.Itoa(index) + "].questionValue"
}

// FormValues are the edited values of one questionnaire submission.
type FormValues struct {
	Date        time.Time
	CarNumber   string
	CrewNumber  *int
	ItemNumber  *int
	CrewType    CrewType
	Name        string
	BodyDefects []BodyDefect
	// Answers maps the original question index to the entered value.
	Answers map[int]string
}

// ValuesOf extracts the current form values stored on a checklist.
func ValuesOf(c *Checklist) FormValues {
	v := FormValues{Answers: map[int]string{}}
	if c == nil {
		return v
	}
	v.Date = c.Date
	v.CarNumber = c.CarNumber
	v.CrewNumber = cloneInt(c.CrewNumber)
	v.ItemNumber = cloneInt(c.ItemNumber)
	v.CrewType = c.CrewType
	v.Name = c.Name
	v.BodyDefects = append([]BodyDefect(nil), c.BodyDefects...)
	for i, q := range c.Questions {
		if q.QuestionValue != "" {
			v.Answers[i] = q.QuestionValue
		}
	}
	return v
}

// Encode flattens the values into the field-name keyed payload sent upstream.
// Every question index of the checklist appears, answered or not.
func (v FormValues) Encode(questionCount int) map[string]string {
	out := map[string]string{
		FieldDate:       utils.FormatDateTime(v.Date),
		FieldCarNumber:  v.CarNumber,
		FieldCrewNumber: utils.FormatOptionalInt(v.CrewNumber),
		FieldItemNumber: utils.FormatOptionalInt(v.ItemNumber),
		FieldCrewType:   string(v.CrewType),
		FieldName:       v.Name,
	}
	defects := v.BodyDefects
	if defects == nil {
		defects = []BodyDefect{}
	}
	if b, err := json.Marshal(defects); err == nil {
		out[FieldBodyDefects] = string(b)
	}
	for i := 0; i < questionCount; i++ {
		out[QuestionFieldName(i)] = v.Answers[i]
	}
	return out
}

// Apply writes the values onto a copy of the checklist.
func (v FormValues) Apply(c *Checklist) *Checklist {
	out := c.Clone()
	out.Date = v.Date
	out.CarNumber = v.CarNumber
	out.CrewNumber = cloneInt(v.CrewNumber)
	out.ItemNumber = cloneInt(v.ItemNumber)
	out.CrewType = v.CrewType
	out.Name = v.Name
	out.BodyDefects = append([]BodyDefect(nil), v.BodyDefects...)
	for i := range out.Questions {
		out.Questions[i].QuestionValue = v.Answers[i]
	}
	return out
}

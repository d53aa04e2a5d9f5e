// Package questionnaire builds the driver checklist form: it classifies the
// checklist's questions into display groups, turns them into input fields and
// handles submission of the edited values.
package questionnaire

import "driver_checklist_app/internal/checklist"

// Indexed is a question together with its position in the checklist's original
// question sequence. Field names are addressed by Index, never by the position
// inside a group.
type Indexed struct {
	checklist.Question
	Index int `json:"index"`
}

// Columns are the three display groups of a questionnaire.
type Columns struct {
	Vehicle []Indexed `json:"vehicle"`
	Ration  []Indexed `json:"ration"`
	// Text holds free-text questions and every question of an unrecognised type.
	Text []Indexed `json:"text"`
}

// Classify partitions questions in one stable pass. It never fails: a nil or
// empty slice gives three empty groups.
func Classify(questions []checklist.Question) Columns {
	cols := Columns{
		Vehicle: []Indexed{},
		Ration:  []Indexed{},
		Text:    []Indexed{},
	}
	for i, q := range questions {
		item := Indexed{Question: q, Index: i}
		switch q.Type {
		case checklist.QuestionRationMVP:
			cols.Ration = append(cols.Ration, item)
		case checklist.QuestionVehicle:
			cols.Vehicle = append(cols.Vehicle, item)
		default:
			cols.Text = append(cols.Text, item)
		}
	}
	return cols
}

// Len is the number of classified questions across all groups.
func (c Columns) Len() int {
	return len(c.Vehicle) + len(c.Ration) + len(c.Text)
}

package fleet

import (
	"fmt"

	"driver_checklist_app/internal/checklist"
	"driver_checklist_app/internal/utils"
)

// Response общая структура ответа fleet API
type Response[T any] struct {
	Result T   `json:"result"`
	Total  int `json:"total"`
	Next   int `json:"next"`
	Time   struct {
		Start    float64 `json:"start"`
		Finish   float64 `json:"finish"`
		Duration float64 `json:"duration"`
	} `json:"time"`
}

// RemoteChecklist is a checklist as the fleet backend serves it. Dates arrive as
// strings in any of the layouts utils.ParseDateTime accepts.
type RemoteChecklist struct {
	ID          checklist.QuestionID   `json:"id"`
	Date        string                 `json:"date"`
	CarNumber   string                 `json:"carNumber"`
	CrewNumber  *int                   `json:"crewNumber"`
	ItemNumber  *int                   `json:"itemNumber"`
	CrewType    string                 `json:"crewType"`
	Name        string                 `json:"name"`
	BodyDefects []checklist.BodyDefect `json:"bodyDefects"`
	Questions   []checklist.Question   `json:"questions"`
	Modified    string                 `json:"modified"`
}

// ToChecklist converts the wire form into the domain model.
func (r RemoteChecklist) ToChecklist() (*checklist.Checklist, error) {
	c := &checklist.Checklist{
		ID:          string(r.ID),
		CarNumber:   r.CarNumber,
		CrewNumber:  r.CrewNumber,
		ItemNumber:  r.ItemNumber,
		CrewType:    checklist.CrewType(utils.NormalizeKey(r.CrewType)),
		Name:        r.Name,
		BodyDefects: r.BodyDefects,
		Questions:   r.Questions,
	}
	if c.CrewType != "" && !c.CrewType.IsValid() {
		c.CrewType = ""
	}
	if r.Date != "" {
		t, err := utils.ParseDateTime(r.Date)
		if err != nil {
			return nil, fmt.Errorf("checklist %s date: %w", c.ID, err)
		}
		c.Date = t
	}
	if r.Modified != "" {
		t, err := utils.ParseDateTime(r.Modified)
		if err != nil {
			return nil, fmt.Errorf("checklist %s modified: %w", c.ID, err)
		}
		c.Modified = t
	}
	return c, nil
}

// Push is the payload of checklist.save.
type Push struct {
	ChecklistID  string            `json:"id"`
	SubmissionID string            `json:"submissionId"`
	Values       map[string]string `json:"values"`
}

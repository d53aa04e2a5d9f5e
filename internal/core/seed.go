package core

import (
	"fmt"
	"sort"

	"github.com/pocketbase/pocketbase/core"

	"driver_checklist_app/internal/checklist"
	"driver_checklist_app/internal/config"
	"driver_checklist_app/internal/fleet"
)

// SeedQuestionTemplates fills question_templates from config when it is empty.
func SeedQuestionTemplates(app core.App, templates []config.QuestionTemplate) (int, error) {
	col, err := app.FindCollectionByNameOrId(checklist.CollectionTemplates)
	if err != nil {
		return 0, err
	}
	existing, err := app.CountRecords(checklist.CollectionTemplates)
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		return 0, nil
	}
	for i, t := range templates {
		rec := core.NewRecord(col)
		rec.Set("key", t.Key)
		rec.Set("title", t.Title)
		rec.Set("type", t.Type)
		rec.Set("required", t.Required)
		rec.Set("order", i)
		if err := app.Save(rec); err != nil {
			return i, fmt.Errorf("template %s: %w", t.Key, err)
		}
	}
	return len(templates), nil
}

// SyncWebhookSetting stores the configured fleet webhook in settings.
func SyncWebhookSetting(app core.App, webhook string) error {
	if webhook == "" {
		return nil
	}
	settings, err := app.FindCollectionByNameOrId(CollectionSettings)
	if err != nil {
		return err
	}
	record, _ := app.FindFirstRecordByData(CollectionSettings, "key", fleet.SettingsKey)
	if record == nil {
		record = core.NewRecord(settings)
		record.Set("key", fleet.SettingsKey)
	}
	record.Set("value", webhook)
	return app.Save(record)
}

// NewChecklistFromTemplates builds an empty checklist whose questions follow
// the stored templates.
func NewChecklistFromTemplates(app core.App, externalID string) (*checklist.Checklist, error) {
	records, err := app.FindAllRecords(checklist.CollectionTemplates)
	if err != nil {
		return nil, err
	}
	return &checklist.Checklist{
		ID:          externalID,
		Questions:   QuestionsFromTemplates(records),
		BodyDefects: []checklist.BodyDefect{},
	}, nil
}

// QuestionsFromTemplates orders template records and turns them into questions.
func QuestionsFromTemplates(records []*core.Record) []checklist.Question {
	sorted := append([]*core.Record(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].GetInt("order") < sorted[j].GetInt("order")
	})
	out := make([]checklist.Question, len(sorted))
	for i, rec := range sorted {
		out[i] = checklist.Question{
			ID:             checklist.QuestionID(rec.GetString("key")),
			Type:           checklist.QuestionType(rec.GetString("type")),
			LocalizationLt: rec.GetString("title"),
			Required:       rec.GetBool("required"),
		}
	}
	return out
}

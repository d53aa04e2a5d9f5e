package core

import (
	"fmt"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"

	"driver_checklist_app/internal/checklist"
)

const (
	CollectionSettings = "settings"
	CollectionUpdates  = "checklist_updates"
)

func EnsureSettingsCollection(app core.App) error {
	settingsCol, err := app.FindCollectionByNameOrId(CollectionSettings)
	if err != nil {
		settingsCol = core.NewBaseCollection(CollectionSettings)
		settingsCol.Fields.Add(&core.TextField{Name: "key", Required: true})
		settingsCol.Fields.Add(&core.TextField{Name: "value", Required: true})
		settingsCol.AddIndex("idx_settings_key", true, "key", "")
	}
	settingsCol.ListRule = types.Pointer(RuleAdminOnly)
	settingsCol.ViewRule = types.Pointer(RuleAdminOnly)
	return app.Save(settingsCol)
}

// EnsureUserRoles adds the multi-select roles field to the users collection.
func EnsureUserRoles(app core.App) error {
	users, err := app.FindCollectionByNameOrId("users")
	if err != nil {
		return err
	}
	values := make([]string, len(checklist.Roles))
	for i, r := range checklist.Roles {
		values[i] = string(r)
	}
	if f, ok := users.Fields.GetByName(checklist.ColRoles).(*core.SelectField); ok {
		f.Values = values
		f.MaxSelect = len(values)
	} else {
		users.Fields.Add(&core.SelectField{Name: checklist.ColRoles, MaxSelect: len(values), Values: values})
	}
	users.ListRule = types.Pointer(RuleAuthOnly)
	users.ViewRule = types.Pointer(RuleAuthOnly)
	return app.Save(users)
}

// EnsureChecklistCollections creates the checklist collections and refreshes
// their API rules for the configured restricted role.
func EnsureChecklistCollections(app core.App, restricted checklist.Role) error {
	users, err := app.FindCollectionByNameOrId("users")
	if err != nil {
		return err
	}

	crewTypes := make([]string, len(checklist.CrewTypes))
	for i, c := range checklist.CrewTypes {
		crewTypes[i] = string(c)
	}

	checklists, err := app.FindCollectionByNameOrId(checklist.CollectionChecklists)
	if err != nil {
		checklists = core.NewBaseCollection(checklist.CollectionChecklists)
		checklists.Fields.Add(&core.TextField{Name: checklist.ColExternalID, Required: true, Presentable: true})
		checklists.Fields.Add(&core.DateField{Name: checklist.ColDate})
		checklists.Fields.Add(&core.TextField{Name: checklist.ColCarNumber})
		checklists.Fields.Add(&core.NumberField{Name: checklist.ColCrewNumber, OnlyInt: true})
		checklists.Fields.Add(&core.NumberField{Name: checklist.ColItemNumber, OnlyInt: true})
		checklists.Fields.Add(&core.SelectField{Name: checklist.ColCrewType, MaxSelect: 1, Values: crewTypes})
		checklists.Fields.Add(&core.TextField{Name: checklist.ColName})
		checklists.Fields.Add(&core.JSONField{Name: checklist.ColBodyDefects, MaxSize: 200000})
		checklists.Fields.Add(&core.JSONField{Name: checklist.ColQuestions, MaxSize: 2000000})
		checklists.Fields.Add(&core.RelationField{Name: checklist.ColDriver, CollectionId: users.Id, MaxSelect: 1})
		checklists.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		checklists.Fields.Add(&core.AutodateField{Name: checklist.ColModified, OnCreate: true, OnUpdate: true})
	}
	checklists.ListRule = types.Pointer(RuleAuthOnly)
	checklists.ViewRule = types.Pointer(RuleAuthOnly)
	checklists.CreateRule = types.Pointer(RuleOfficeOnly)
	checklists.UpdateRule = types.Pointer(RuleChecklistWrite(restricted))
	checklists.DeleteRule = types.Pointer(RuleAdminOnly)
	ensureIndex(checklists, "idx_checklists_external_id", true, checklist.ColExternalID)
	ensureIndex(checklists, "idx_checklists_modified", false, checklist.ColModified)
	if err := app.Save(checklists); err != nil {
		return fmt.Errorf("checklists: %w", err)
	}

	templates, err := app.FindCollectionByNameOrId(checklist.CollectionTemplates)
	if err != nil {
		templates = core.NewBaseCollection(checklist.CollectionTemplates)
		templates.Fields.Add(&core.TextField{Name: "key", Required: true})
		templates.Fields.Add(&core.TextField{Name: "title", Required: true, Presentable: true})
		templates.Fields.Add(&core.SelectField{Name: "type", Required: true, MaxSelect: 1, Values: []string{
			string(checklist.QuestionVehicle), string(checklist.QuestionRationMVP), string(checklist.QuestionFreeText),
		}})
		templates.Fields.Add(&core.BoolField{Name: "required"})
		templates.Fields.Add(&core.NumberField{Name: "order"})
		templates.AddIndex("idx_question_templates_key", true, "key", "")
	}
	templates.ListRule = types.Pointer(RuleAuthOnly)
	templates.ViewRule = types.Pointer(RuleAuthOnly)
	templates.CreateRule = types.Pointer(RuleAdminOnly)
	templates.UpdateRule = types.Pointer(RuleAdminOnly)
	templates.DeleteRule = types.Pointer(RuleAdminOnly)
	if err := app.Save(templates); err != nil {
		return fmt.Errorf("question templates: %w", err)
	}

	subs, err := app.FindCollectionByNameOrId(checklist.CollectionSubmissions)
	if err != nil {
		subs = core.NewBaseCollection(checklist.CollectionSubmissions)
		subs.Fields.Add(&core.RelationField{Name: checklist.ColSubmissionChecklist, CollectionId: checklists.Id, MaxSelect: 1, Required: true, CascadeDelete: true})
		subs.Fields.Add(&core.TextField{Name: checklist.ColSubmissionID, Required: true})
		subs.Fields.Add(&core.RelationField{Name: checklist.ColSubmittedBy, CollectionId: users.Id, MaxSelect: 1})
		subs.Fields.Add(&core.BoolField{Name: checklist.ColSubmissionPreview})
		subs.Fields.Add(&core.JSONField{Name: checklist.ColSubmissionValues, MaxSize: 2000000})
		subs.Fields.Add(&core.BoolField{Name: checklist.ColPushed})
		subs.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		subs.AddIndex("idx_submissions_submission_id", true, checklist.ColSubmissionID, "")
		subs.AddIndex("idx_submissions_pushed", false, checklist.ColPushed, "")
	}
	subs.ListRule = types.Pointer(RuleSubmissionView)
	subs.ViewRule = types.Pointer(RuleSubmissionView)
	subs.CreateRule = nil
	subs.UpdateRule = nil
	subs.DeleteRule = types.Pointer(RuleAdminOnly)
	if err := app.Save(subs); err != nil {
		return fmt.Errorf("submissions: %w", err)
	}

	updates, _ := app.FindCollectionByNameOrId(CollectionUpdates)
	if updates == nil {
		updates = core.NewBaseCollection(CollectionUpdates)
		updates.Fields.Add(&core.TextField{Name: "checklist"})
		updates.Fields.Add(&core.DateField{Name: "updated"})
	}
	updates.ListRule = types.Pointer(RuleAuthOnly)
	updates.ViewRule = types.Pointer(RuleAuthOnly)
	if err := app.Save(updates); err != nil {
		return fmt.Errorf("checklist updates: %w", err)
	}
	return nil
}

func ensureIndex(col *core.Collection, name string, unique bool, columns string) {
	for _, existing := range col.Indexes {
		if strings.Contains(existing, name) {
			return
		}
	}
	col.AddIndex(name, unique, columns, "")
}

// Bootstrap ensures every collection the service needs.
func Bootstrap(app core.App, restricted checklist.Role) error {
	if err := EnsureUserRoles(app); err != nil {
		return fmt.Errorf("users: %w", err)
	}
	if err := EnsureSettingsCollection(app); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	return EnsureChecklistCollections(app, restricted)
}

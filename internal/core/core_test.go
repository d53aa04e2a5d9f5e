package core

import (
	"testing"

	"github.com/pocketbase/pocketbase/core"
	"github.com/stretchr/testify/assert"

	"driver_checklist_app/internal/checklist"
)

func TestRuleChecklistWrite(t *testing.T) {
	tests := []struct {
		name       string
		restricted checklist.Role
		want       string
	}{
		{
			name:       "mechanic",
			restricted: checklist.RoleMechanic,
			want:       "@request.auth.id != '' && (@request.auth.roles ?= 'DRIVER' || @request.auth.roles ?= 'DISPATCHER' || @request.auth.roles ?= 'ADMIN')",
		},
		{
			name:       "driver",
			restricted: checklist.RoleDriver,
			want:       "@request.auth.id != '' && (@request.auth.roles ?= 'MECHANIC' || @request.auth.roles ?= 'DISPATCHER' || @request.auth.roles ?= 'ADMIN')",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RuleChecklistWrite(tt.restricted))
		})
	}
}

func TestRuleAnyRoleEmpty(t *testing.T) {
	assert.Equal(t, RuleAdminOnly, RuleAnyRole())
}

func TestQuestionsFromTemplates(t *testing.T) {
	col := core.NewBaseCollection(checklist.CollectionTemplates)
	col.Fields.Add(&core.TextField{Name: "key"})
	col.Fields.Add(&core.TextField{Name: "title"})
	col.Fields.Add(&core.TextField{Name: "type"})
	col.Fields.Add(&core.BoolField{Name: "required"})
	col.Fields.Add(&core.NumberField{Name: "order"})

	newTemplate := func(key, title, typ string, required bool, order int) *core.Record {
		rec := core.NewRecord(col)
		rec.Set("key", key)
		rec.Set("title", title)
		rec.Set("type", typ)
		rec.Set("required", required)
		rec.Set("order", order)
		return rec
	}

	got := QuestionsFromTemplates([]*core.Record{
		newTemplate("notes", "Pastabos", "FREE_TEXT", false, 2),
		newTemplate("brakes", "Stabdžiai", "VEHICLE", true, 0),
		newTemplate("ration", "Davinys", "RATION_MVP", false, 1),
	})

	assert.Equal(t, []checklist.Question{
		{ID: "brakes", Type: checklist.QuestionVehicle, LocalizationLt: "Stabdžiai", Required: true},
		{ID: "ration", Type: checklist.QuestionRationMVP, LocalizationLt: "Davinys"},
		{ID: "notes", Type: checklist.QuestionFreeText, LocalizationLt: "Pastabos"},
	}, got)
	assert.Empty(t, QuestionsFromTemplates(nil))
}

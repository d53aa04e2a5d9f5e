package checklist

import (
	"testing"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChecklistsCollection() *core.Collection {
	col := core.NewBaseCollection(CollectionChecklists)
	col.Fields.Add(&core.TextField{Name: ColExternalID})
	col.Fields.Add(&core.DateField{Name: ColDate})
	col.Fields.Add(&core.TextField{Name: ColCarNumber})
	col.Fields.Add(&core.NumberField{Name: ColCrewNumber, OnlyInt: true})
	col.Fields.Add(&core.NumberField{Name: ColItemNumber, OnlyInt: true})
	col.Fields.Add(&core.SelectField{Name: ColCrewType, MaxSelect: 1, Values: []string{"PATROL", "ESCORT", "RESERVE"}})
	col.Fields.Add(&core.TextField{Name: ColName})
	col.Fields.Add(&core.JSONField{Name: ColBodyDefects})
	col.Fields.Add(&core.JSONField{Name: ColQuestions})
	col.Fields.Add(&core.AutodateField{Name: ColModified, OnCreate: true, OnUpdate: true})
	return col
}

func TestRecordRoundTrip(t *testing.T) {
	crew := 12
	in := &Checklist{
		ID:          "abc123",
		Date:        time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC),
		CarNumber:   "KLT-001",
		CrewNumber:  &crew,
		CrewType:    CrewEscort,
		Name:        "Ona",
		BodyDefects: []BodyDefect{{Zone: "rear", Description: "dent"}},
		Questions: []Question{
			{ID: "1", Type: QuestionVehicle, LocalizationLt: "Padangos", Required: true, QuestionValue: "OK"},
			{ID: "2", Type: QuestionFreeText},
		},
	}

	rec := core.NewRecord(newChecklistsCollection())
	rec.Set(ColExternalID, in.ID)
	ApplyToRecord(rec, in)

	out, err := FromRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, in.ID, out.ID)
	assert.True(t, in.Date.Equal(out.Date))
	assert.Equal(t, in.CarNumber, out.CarNumber)
	require.NotNil(t, out.CrewNumber)
	assert.Equal(t, 12, *out.CrewNumber)
	assert.Nil(t, out.ItemNumber, "zero number reads back as unset")
	assert.Equal(t, in.CrewType, out.CrewType)
	assert.Equal(t, in.BodyDefects, out.BodyDefects)
	assert.Equal(t, in.Questions, out.Questions)
}

func TestFromRecordEmptyJSON(t *testing.T) {
	rec := core.NewRecord(newChecklistsCollection())
	rec.Set(ColExternalID, "empty")

	out, err := FromRecord(rec)
	require.NoError(t, err)
	assert.NotNil(t, out.Questions)
	assert.Empty(t, out.Questions)
	assert.Empty(t, out.BodyDefects)
	assert.True(t, out.Date.IsZero())
}

package checklist

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionIDAcceptsNumbersAndStrings(t *testing.T) {
	var qs []Question
	err := json.Unmarshal([]byte(`[{"id":1,"type":"VEHICLE"},{"id":"q-2","type":"FREE_TEXT"},{"id":null}]`), &qs)
	require.NoError(t, err)
	require.Len(t, qs, 3)
	assert.Equal(t, QuestionID("1"), qs[0].ID)
	assert.Equal(t, QuestionID("q-2"), qs[1].ID)
	assert.Equal(t, QuestionID(""), qs[2].ID)

	out, err := json.Marshal(qs[:2])
	require.NoError(t, err)
	assert.Contains(t, string(out), `"id":1`)
	assert.Contains(t, string(out), `"id":"q-2"`)
}

func TestQuestionTypeIsKnown(t *testing.T) {
	assert.True(t, QuestionVehicle.IsKnown())
	assert.True(t, QuestionRationMVP.IsKnown())
	assert.True(t, QuestionFreeText.IsKnown())
	assert.False(t, QuestionType("UNKNOWN").IsKnown())
	assert.False(t, QuestionType("").IsKnown())
}

func TestQuestionFieldName(t *testing.T) {
	assert.Equal(t, "questions[0].questionValue", QuestionFieldName(0))
	assert.Equal(t, "questions[12].questionValue", QuestionFieldName(12))
}

func TestFormValuesEncodeUsesOriginalIndexes(t *testing.T) {
	crew := 7
	v := FormValues{
		Date:       time.Date(2025, 5, 1, 8, 15, 0, 0, time.UTC),
		CarNumber:  "ABC123",
		CrewNumber: &crew,
		CrewType:   CrewPatrol,
		Name:       "Jonas",
		Answers:    map[int]string{0: "OK", 2: "YES"},
	}

	got := v.Encode(3)
	assert.Equal(t, map[string]string{
		"date":                       "2025-05-01 08:15",
		"carNumber":                  "ABC123",
		"crewNumber":                 "7",
		"itemNumber":                 "",
		"crewType":                   "PATROL",
		"name":                       "Jonas",
		"bodyDefects":                "[]",
		"questions[0].questionValue": "OK",
		"questions[1].questionValue": "",
		"questions[2].questionValue": "YES",
	}, got)
}

func TestApplyDoesNotMutateSource(t *testing.T) {
	src := &Checklist{
		ID: "abc123",
		Questions: []Question{
			{ID: "1", Type: QuestionVehicle},
			{ID: "2", Type: QuestionFreeText, QuestionValue: "old"},
		},
	}
	out := FormValues{CarNumber: "XYZ", Answers: map[int]string{0: "OK"}}.Apply(src)

	assert.Equal(t, "XYZ", out.CarNumber)
	assert.Equal(t, "OK", out.Questions[0].QuestionValue)
	assert.Equal(t, "", out.Questions[1].QuestionValue)
	assert.Equal(t, "old", src.Questions[1].QuestionValue)
	assert.Equal(t, "", src.CarNumber)
}

func TestValuesOfRoundTripsAnswers(t *testing.T) {
	item := 3
	c := &Checklist{
		ItemNumber: &item,
		Questions: []Question{
			{ID: "1", Type: QuestionVehicle, QuestionValue: "NOT_OK"},
			{ID: "2", Type: QuestionFreeText},
		},
	}
	v := ValuesOf(c)
	assert.Equal(t, map[int]string{0: "NOT_OK"}, v.Answers)
	require.NotNil(t, v.ItemNumber)
	*v.ItemNumber = 9
	assert.Equal(t, 3, *c.ItemNumber)

	assert.Empty(t, ValuesOf(nil).Answers)
}

func TestCrewTypeIsValid(t *testing.T) {
	for _, c := range CrewTypes {
		assert.True(t, c.IsValid(), c)
	}
	assert.False(t, CrewType("TAXI").IsValid())
}

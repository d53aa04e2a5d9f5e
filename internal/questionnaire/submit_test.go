package questionnaire

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driver_checklist_app/internal/checklist"
)

type fakeSaver struct {
	mu    sync.Mutex
	saved map[string]checklist.FormValues
	err   error
}

func (f *fakeSaver) Save(_ context.Context, id string, values checklist.FormValues) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.saved == nil {
		f.saved = map[string]checklist.FormValues{}
	}
	f.saved[id] = values
	return nil
}

type submitResults struct {
	results []string
}

func (s *submitResults) ObserveSubmit(result string, _ time.Duration) {
	s.results = append(s.results, result)
}

func TestValidate(t *testing.T) {
	cl := abc123()
	cl.Questions[0].Required = true

	tests := []struct {
		name    string
		answers map[int]string
		want    map[string]string
	}{
		{"all answered", map[int]string{0: "OK", 1: "None", 2: "RECEIVED"}, nil},
		{"optional ration may be empty", map[int]string{0: "NOT_OK", 1: "Brakes"}, nil},
		{"required vehicle and free text missing", map[int]string{2: "RECEIVED"}, map[string]string{
			"questions[0].questionValue": keyRequired,
			"questions[1].questionValue": keyRequired,
		}},
		{"blank free text", map[int]string{0: "OK", 1: "   "}, map[string]string{
			"questions[1].questionValue": keyRequired,
		}},
		{"answer outside options", map[int]string{0: "MAYBE", 1: "x", 2: "OK"}, map[string]string{
			"questions[0].questionValue": keyOption,
			"questions[2].questionValue": keyOption,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(cl, checklist.FormValues{Answers: tt.answers})
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.want, verr.Fields)
		})
	}
}

func TestValidateIgnoresUnknownTypes(t *testing.T) {
	cl := &checklist.Checklist{Questions: []checklist.Question{{Type: "UNKNOWN", Required: true}}}
	assert.NoError(t, Validate(cl, checklist.FormValues{}))
}

func TestSubmitPreviewSkipsValidation(t *testing.T) {
	saver := &fakeSaver{}
	obs := &submitResults{}
	s := NewSubmitter(saver, nil, obs)
	empty := checklist.FormValues{Answers: map[int]string{}}

	err := s.Submit(context.Background(), Submission{Checklist: abc123(), Values: empty})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "questions[1].questionValue")
	assert.Empty(t, saver.saved)

	err = s.Submit(context.Background(), Submission{Checklist: abc123(), Values: empty, Preview: true})
	require.NoError(t, err)
	assert.Contains(t, saver.saved, "abc123")

	assert.Equal(t, []string{"invalid", "ok"}, obs.results)
}

func TestSubmitReadOnly(t *testing.T) {
	saver := &fakeSaver{}
	obs := &submitResults{}
	s := NewSubmitter(saver, nil, obs)

	err := s.Submit(context.Background(), Submission{Checklist: abc123(), ReadOnly: true, Preview: true})
	assert.ErrorIs(t, err, ErrReadOnly)
	assert.Empty(t, saver.saved)
	assert.Equal(t, []string{"forbidden"}, obs.results)
}

func TestSubmitErrors(t *testing.T) {
	boom := errors.New("upstream down")
	s := NewSubmitter(&fakeSaver{err: boom}, nil, nil)

	err := s.Submit(context.Background(), Submission{Checklist: abc123(), Preview: true})
	assert.ErrorIs(t, err, boom)

	err = s.Submit(context.Background(), Submission{})
	assert.ErrorIs(t, err, checklist.ErrNotFound)
}

package checklist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatePutStoresSnapshot(t *testing.T) {
	s := NewState()
	c := &Checklist{ID: "abc123", CarNumber: "A1", Questions: []Question{{ID: "1", Type: QuestionVehicle}}}
	s.Put(c)

	c.CarNumber = "changed"
	c.Questions[0].Type = QuestionFreeText

	got, ok := s.Get("abc123")
	require.True(t, ok)
	assert.Equal(t, "A1", got.CarNumber)
	assert.Equal(t, QuestionVehicle, got.Questions[0].Type)
	assert.Equal(t, 1, s.Len())

	s.Put(nil)
	assert.Equal(t, 1, s.Len())
}

func TestStateKeepsSupersededLoadsInTheirOwnSlot(t *testing.T) {
	s := NewState()
	s.Put(&Checklist{ID: "new", CarNumber: "NEW"})
	// a slow load for the old identifier finishing later
	s.Put(&Checklist{ID: "old", CarNumber: "OLD"})

	got, ok := s.Get("new")
	require.True(t, ok)
	assert.Equal(t, "NEW", got.CarNumber)
}

func TestStateEvict(t *testing.T) {
	s := NewState()
	s.Put(&Checklist{ID: "abc123"})
	s.Evict("abc123")
	s.Evict("missing")
	_, ok := s.Get("abc123")
	assert.False(t, ok)
}

func TestStateWait(t *testing.T) {
	s := NewState()
	done := make(chan *Checklist, 1)
	go func() {
		c, err := s.Wait(context.Background(), "abc123")
		if err == nil {
			done <- c
		}
		close(done)
	}()

	s.Put(&Checklist{ID: "other"})
	s.Put(&Checklist{ID: "abc123", Name: "loaded"})

	select {
	case c := <-done:
		require.NotNil(t, c)
		assert.Equal(t, "loaded", c.Name)
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after Put")
	}
}

func TestStateWaitHonoursContext(t *testing.T) {
	s := NewState()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := s.Wait(ctx, "never")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

package main

import (
	"bytes"
	"testing"

	"github.com/pocketbase/pocketbase/tests"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driver_checklist_app/internal/app"
	"driver_checklist_app/internal/checklist"
	"driver_checklist_app/internal/config"
)

func newTestContext(t *testing.T) (*tests.TestApp, *app.AppContext) {
	t.Helper()
	testApp, err := tests.NewTestApp()
	require.NoError(t, err)
	t.Cleanup(testApp.Cleanup)

	cfg := config.Default()
	cfg.QuestionTemplates = []config.QuestionTemplate{
		{Key: "brakes", Title: "Stabdžiai", Type: "VEHICLE", Required: true},
		{Key: "malfunctions", Title: "Gedimai", Type: "FREE_TEXT"},
		{Key: "dry_ration", Title: "Sausas davinys", Type: "RATION_MVP"},
	}
	appContext, err := app.New(testApp, cfg, nil)
	require.NoError(t, err)
	return testApp, appContext
}

// renders sums the render counter for one output format.
func renders(t *testing.T, appContext *app.AppContext, format string) float64 {
	t.Helper()
	families, err := appContext.Metrics.Registry().Gather()
	require.NoError(t, err)
	total := 0.0
	for _, mf := range families {
		if mf.GetName() != "checklist_renders_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "format" && l.GetValue() == format {
					total += m.GetCounter().GetValue()
				}
			}
		}
	}
	return total
}

func run(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestSeedThenPrint(t *testing.T) {
	testApp, appContext := newTestContext(t)

	out := run(t, newSeedCommand(testApp, appContext), "abc123")
	assert.Contains(t, out, "Checklist abc123 created with 3 questions")

	stored, err := appContext.Store.Fetch(t.Context(), "abc123")
	require.NoError(t, err)
	require.Len(t, stored.Questions, 3)
	assert.Equal(t, checklist.QuestionRationMVP, stored.Questions[2].Type)

	out = run(t, newPrintCommand(testApp, appContext), "abc123", "--readonly", "--lang", "en")
	assert.Contains(t, out, "Stabdžiai")
	assert.Contains(t, out, "(locked)")
	assert.NotContains(t, out, "[ Save ]")
	assert.Equal(t, 1.0, renders(t, appContext, "terminal"))
}

func TestSeedWithoutTemplates(t *testing.T) {
	testApp, appContext := newTestContext(t)
	appContext.Config.QuestionTemplates = nil

	cmd := newSeedCommand(testApp, appContext)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"abc123"})
	assert.Error(t, cmd.Execute())
}

func TestPrintUnknownChecklist(t *testing.T) {
	testApp, appContext := newTestContext(t)

	cmd := newPrintCommand(testApp, appContext)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"nope"})
	assert.ErrorIs(t, cmd.Execute(), checklist.ErrNotFound)
	assert.Zero(t, renders(t, appContext, "terminal"))
}

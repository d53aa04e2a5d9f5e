package main

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"driver_checklist_app/internal/app"
	appCore "driver_checklist_app/internal/core"
	"driver_checklist_app/internal/questionnaire"
	"driver_checklist_app/internal/termview"
)

// newSeedCommand creates an empty checklist from the stored question templates.
func newSeedCommand(pbApp core.App, context *app.AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <external-id>",
		Short: "Create an empty checklist from the question templates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bootstrap(pbApp, context); err != nil {
				return fmt.Errorf("bootstrap: %w", err)
			}
			cl, err := appCore.NewChecklistFromTemplates(pbApp, args[0])
			if err != nil {
				return err
			}
			if len(cl.Questions) == 0 {
				return fmt.Errorf("no question templates found")
			}
			if err := context.Store.Upsert(cl); err != nil {
				return err
			}
			context.Logger.Info("checklist created", zap.String("id", cl.ID), zap.Int("questions", len(cl.Questions)))
			cmd.Printf("Checklist %s created with %d questions\n", cl.ID, len(cl.Questions))
			return nil
		},
	}
}

// newPrintCommand draws a checklist in the terminal the way a user would see it.
func newPrintCommand(pbApp core.App, context *app.AppContext) *cobra.Command {
	var (
		readOnly bool
		preview  bool
		lang     string
		width    int
	)
	cmd := &cobra.Command{
		Use:   "print <external-id>",
		Short: "Print a checklist questionnaire to the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bootstrap(pbApp, context); err != nil {
				return fmt.Errorf("bootstrap: %w", err)
			}
			cl, err := context.Loader.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			props := questionnaire.Props{ChecklistID: args[0], Preview: preview, ReadOnly: readOnly}
			page := questionnaire.RenderPage(context.Catalog.For(lang), props, cl)
			context.Metrics.ObserveRender(string(page.State), "terminal")
			cmd.Println(termview.Render(page, width))
			return nil
		},
	}
	cmd.Flags().BoolVar(&readOnly, "readonly", false, "render as a user holding the restricted role")
	cmd.Flags().BoolVar(&preview, "preview", false, "render in preview mode")
	cmd.Flags().StringVar(&lang, "lang", "", "language, defaults to the configured locale")
	cmd.Flags().IntVar(&width, "width", 120, "terminal width")
	return cmd
}

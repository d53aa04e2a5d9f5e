package main

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"driver_checklist_app/internal/app"
	"driver_checklist_app/internal/config"
	appCore "driver_checklist_app/internal/core"
	"driver_checklist_app/internal/fleet"
	"driver_checklist_app/internal/handlers"
)

func main() {
	cfg, path, err := config.LoadDefault()
	if err != nil {
		log.Fatalf("[FATAL] Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("[FATAL] Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if path == "" {
		logger.Warn("config file not found, using defaults")
	} else {
		logger.Info("using config file", zap.String("path", path))
	}

	pbApp := pocketbase.New()
	appContext, err := app.New(pbApp, cfg, logger)
	if err != nil {
		logger.Fatal("failed to build services", zap.Error(err))
	}

	fleet.Register(pbApp, fleet.Options{
		Manager:  appContext.Fleet,
		Webhook:  cfg.Fleet.Webhook,
		Interval: cfg.Fleet.SyncInterval,
		Importer: appContext.Store,
		Observer: appContext.Metrics,
		Logger:   logger,
	})
	appCore.RegisterChecklistHooks(pbApp, appContext.State.Evict, logger)

	pbApp.RootCmd.AddCommand(newSeedCommand(pbApp, appContext))
	pbApp.RootCmd.AddCommand(newPrintCommand(pbApp, appContext))

	pbApp.OnServe().BindFunc(func(e *core.ServeEvent) error {
		logger.Info("server is starting, registering routes")

		if err := bootstrap(e.App, appContext); err != nil {
			logger.Error("bootstrap collections failed", zap.Error(err))
		}
		handlers.Routes(e, appContext)

		logger.Info("server is ready to serve requests")
		return e.Next()
	})

	if err := pbApp.Start(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	if cfg.Development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// bootstrap creates the collections and seeds templates and the webhook setting.
func bootstrap(pbApp core.App, context *app.AppContext) error {
	if err := appCore.Bootstrap(pbApp, context.Config.RestrictedRole()); err != nil {
		return err
	}
	seeded, err := appCore.SeedQuestionTemplates(pbApp, context.Config.QuestionTemplates)
	if err != nil {
		return err
	}
	if seeded > 0 {
		context.Logger.Info("question templates seeded", zap.Int("count", seeded))
	}
	if context.Config.Fleet.Webhook != "" {
		if err := appCore.SyncWebhookSetting(pbApp, context.Config.Fleet.Webhook); err != nil {
			return err
		}
		context.Logger.Info("fleet webhook synced")
	}
	return nil
}

package app

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"driver_checklist_app/internal/checklist"
	"driver_checklist_app/internal/config"
	"driver_checklist_app/internal/fleet"
	"driver_checklist_app/internal/i18n"
	"driver_checklist_app/internal/metrics"
	"driver_checklist_app/internal/questionnaire"
)

// AppContext holds the long-lived services shared by handlers, hooks and
// commands.
type AppContext struct {
	Config    config.AppConfig
	Logger    *zap.Logger
	Catalog   *i18n.Catalog
	Metrics   *metrics.Recorder
	Fleet     *fleet.SyncManager
	Store     *checklist.RecordStore
	State     *checklist.State
	Loader    *checklist.Loader
	Submitter *questionnaire.Submitter
}

// New builds the services on top of a PocketBase app. Nothing touches the
// database until the services are used.
func New(pb core.App, cfg config.AppConfig, logger *zap.Logger) (*AppContext, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	catalog, err := i18n.Default(cfg.Questionnaire.DefaultLocale)
	if err != nil {
		return nil, fmt.Errorf("translations: %w", err)
	}
	recorder, err := metrics.NewRecorder()
	if err != nil {
		return nil, err
	}

	remote := fleet.NewAppSyncManager(pb, cfg.Fleet.Webhook, logger)
	store := checklist.NewRecordStore(pb, remote, logger)
	state := checklist.NewState()

	return &AppContext{
		Config:    cfg,
		Logger:    logger,
		Catalog:   catalog,
		Metrics:   recorder,
		Fleet:     remote,
		Store:     store,
		State:     state,
		Loader:    checklist.NewLoader(store, state, logger, recorder),
		Submitter: questionnaire.NewSubmitter(store, logger, recorder),
	}, nil
}

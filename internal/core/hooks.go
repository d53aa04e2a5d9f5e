package core

import (
	"time"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"driver_checklist_app/internal/checklist"
)

// triggerSignal отправляет сигнал обновления подписчикам realtime
func triggerSignal(app core.App, externalID string) error {
	col, err := app.FindCollectionByNameOrId(CollectionUpdates)
	if err != nil {
		return err
	}
	rec, _ := app.FindFirstRecordByData(CollectionUpdates, "checklist", externalID)
	if rec == nil {
		rec = core.NewRecord(col)
		rec.Set("checklist", externalID)
	}
	rec.Set("updated", time.Now().UTC())
	return app.Save(rec)
}

// RegisterChecklistHooks drops cached checklists when their records change and
// signals realtime subscribers. evict receives the external identifier.
func RegisterChecklistHooks(app core.App, evict func(externalID string), logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("hooks")

	changed := func(e *core.RecordEvent) error {
		id := e.Record.GetString(checklist.ColExternalID)
		evict(id)
		if err := triggerSignal(e.App, id); err != nil {
			logger.Warn("update signal failed", zap.String("checklist", id), zap.Error(err))
		}
		return e.Next()
	}
	app.OnRecordAfterUpdateSuccess(checklist.CollectionChecklists).BindFunc(changed)
	app.OnRecordAfterDeleteSuccess(checklist.CollectionChecklists).BindFunc(changed)
}

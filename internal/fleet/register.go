package fleet

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"driver_checklist_app/internal/checklist"
)

// SyncObserver receives the result of every import run.
type SyncObserver interface {
	ObserveSync(imported int, err error)
}

type Options struct {
	// Manager is created from Webhook when nil.
	Manager *SyncManager
	// Webhook is used when the settings collection holds no fleet_webhook.
	Webhook  string
	Interval time.Duration
	Importer Importer
	Observer SyncObserver
	Logger   *zap.Logger
}

// Register wires the fleet module: the manual sync route, the periodic import,
// and the hook pushing new submissions upstream.
func Register(app core.App, opts Options) *SyncManager {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Interval <= 0 {
		opts.Interval = 5 * time.Minute
	}
	logger := opts.Logger.Named("fleet")
	manager := opts.Manager
	if manager == nil {
		manager = NewAppSyncManager(app, opts.Webhook, opts.Logger)
	}
	w := &worker{app: app, manager: manager, opts: opts, logger: logger}

	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		e.Router.POST("/api/fleet/sync", w.handleSync).Bind(apis.RequireAuth())
		return e.Next()
	})

	ctx, cancel := context.WithCancel(context.Background())
	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		go w.loop(ctx)
		return e.Next()
	})
	app.OnTerminate().BindFunc(func(e *core.TerminateEvent) error {
		cancel()
		return e.Next()
	})

	app.OnRecordAfterCreateSuccess(checklist.CollectionSubmissions).BindFunc(func(e *core.RecordEvent) error {
		sub := e.Record
		go func() {
			pushCtx, done := context.WithTimeout(ctx, time.Minute)
			defer done()
			if err := w.push(pushCtx, sub); err != nil && !errors.Is(err, ErrNotConfigured) {
				logger.Warn("push failed, will retry on next sync", zap.String("submission", sub.Id), zap.Error(err))
			}
		}()
		return e.Next()
	})

	return manager
}

type worker struct {
	app     core.App
	manager *SyncManager
	opts    Options
	logger  *zap.Logger
}

func (w *worker) handleSync(e *core.RequestEvent) error {
	if !e.HasSuperuserAuth() && !checklist.HasRole(checklist.RolesOf(e.Auth), checklist.RoleAdmin, checklist.RoleDispatcher) {
		return e.ForbiddenError("Only dispatchers can trigger a fleet sync", nil)
	}
	w.logger.Info("manual sync requested", zap.String("user", e.Auth.Id))
	imported, err := w.run(e.Request.Context())
	if errors.Is(err, ErrNotConfigured) {
		return e.BadRequestError("Fleet webhook is not configured", err)
	}
	if err != nil {
		return e.InternalServerError("Sync failed", err)
	}
	return e.JSON(http.StatusOK, map[string]any{"imported": imported})
}

func (w *worker) loop(ctx context.Context) {
	select {
	case <-time.After(10 * time.Second): // даем серверу прогреться
	case <-ctx.Done():
		return
	}

	ticker := time.NewTicker(w.opts.Interval)
	defer ticker.Stop()
	for {
		if _, err := w.run(ctx); err != nil && !errors.Is(err, ErrNotConfigured) && ctx.Err() == nil {
			w.logger.Error("scheduled sync failed", zap.Error(err))
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

// run imports updates and retries submissions that were not pushed yet.
func (w *worker) run(ctx context.Context) (int, error) {
	if w.opts.Importer == nil {
		return 0, nil
	}
	imported, err := w.manager.SyncUpdates(ctx, w.opts.Importer)
	if w.opts.Observer != nil {
		w.opts.Observer.ObserveSync(imported, err)
	}
	if err != nil {
		return imported, err
	}
	w.pushPending(ctx)
	return imported, nil
}

func (w *worker) pushPending(ctx context.Context) {
	pending, err := w.app.FindRecordsByFilter(checklist.CollectionSubmissions, "pushed = false", "created", 100, 0)
	if err != nil {
		w.logger.Warn("list pending submissions", zap.Error(err))
		return
	}
	for _, sub := range pending {
		if err := w.push(ctx, sub); err != nil {
			w.logger.Warn("push failed", zap.String("submission", sub.Id), zap.Error(err))
			return
		}
	}
}

func (w *worker) push(ctx context.Context, sub *core.Record) error {
	rec, err := w.app.FindRecordById(checklist.CollectionChecklists, sub.GetString(checklist.ColSubmissionChecklist))
	if err != nil {
		return err
	}
	var values map[string]string
	if err := sub.UnmarshalJSONField(checklist.ColSubmissionValues, &values); err != nil {
		return err
	}
	err = w.manager.PushSubmission(ctx, Push{
		ChecklistID:  rec.GetString(checklist.ColExternalID),
		SubmissionID: sub.GetString(checklist.ColSubmissionID),
		Values:       values,
	})
	if err != nil {
		return err
	}
	sub.Set(checklist.ColPushed, true)
	return w.app.Save(sub)
}

package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"driver_checklist_app/internal/app"
	"driver_checklist_app/internal/checklist"
	"driver_checklist_app/internal/i18n"
	"driver_checklist_app/internal/questionnaire"
)

// loadWait bounds how long the JSON API waits for a background load before
// answering with the Loading state.
const loadWait = 2 * time.Second

// Routes registers the questionnaire routes and /metrics.
func Routes(se *core.ServeEvent, context *app.AppContext) {
	page := se.Router.Group("/checklists/{id}/questionnaire")
	page.Bind(loadCookieAuth(), apis.RequireAuth())
	page.GET("", func(e *core.RequestEvent) error { return HandlePage(context, e) })
	page.POST("", func(e *core.RequestEvent) error { return HandlePageSubmit(context, e) })

	api := se.Router.Group("/api/checklists/{id}/questionnaire")
	api.Bind(loadCookieAuth(), apis.RequireAuth())
	api.GET("", func(e *core.RequestEvent) error { return HandleAPIGet(context, e) })
	api.POST("", func(e *core.RequestEvent) error { return HandleAPISubmit(context, e) })

	se.Router.GET("/metrics", apis.WrapStdHandler(context.Metrics.Handler()))
}

// recordGate exposes the roles of the authenticated record.
type recordGate struct {
	auth *core.Record
}

func (g recordGate) CurrentRoles() []checklist.Role {
	return checklist.RolesOf(g.auth)
}

// parsePreview converts the route's preview flag into a bool once. Only the
// literal "true" enables preview.
func parsePreview(q url.Values) bool {
	return q.Get("preview") == "true"
}

func propsFor(context *app.AppContext, e *core.RequestEvent) questionnaire.Props {
	return questionnaire.Props{
		ChecklistID: e.Request.PathValue("id"),
		Preview:     parsePreview(e.Request.URL.Query()),
		ReadOnly:    questionnaire.ReadOnlyFor(recordGate{auth: e.Auth}, context.Config.RestrictedRole()),
	}
}

func translatorFor(context *app.AppContext, e *core.RequestEvent) i18n.Translator {
	return context.Catalog.For(e.Request.Header.Get("Accept-Language"))
}

// HandlePage renders the questionnaire form.
func HandlePage(context *app.AppContext, e *core.RequestEvent) error {
	props := propsFor(context, e)
	tr := translatorFor(context, e)

	cl, err := context.Loader.Load(e.Request.Context(), props.ChecklistID)
	if err != nil {
		return loadError(context, e, props.ChecklistID, err)
	}

	page := questionnaire.RenderPage(tr, props, cl)
	if e.Request.URL.Query().Get("saved") == "1" {
		page = page.WithNotice("success", tr.Translate("questionnaires.form.saved"))
	}
	return renderHTML(context, e, http.StatusOK, tr, page)
}

// HandlePageSubmit handles the HTML form post. On success it redirects back to
// the form, on validation failure the form is shown again with errors.
func HandlePageSubmit(context *app.AppContext, e *core.RequestEvent) error {
	props := propsFor(context, e)
	tr := translatorFor(context, e)
	logger := context.Logger.Named("handlers")

	if props.ReadOnly {
		logger.Warn("read-only user tried to save", zap.String("checklist", props.ChecklistID), zap.String("user", e.Auth.Id))
		return e.ForbiddenError(tr.Translate("validation.readOnly"), nil)
	}

	cl, err := context.Loader.Load(e.Request.Context(), props.ChecklistID)
	if err != nil {
		return loadError(context, e, props.ChecklistID, err)
	}
	if err := e.Request.ParseForm(); err != nil {
		return e.BadRequestError("Invalid form body", err)
	}

	values, err := questionnaire.DecodeForm(e.Request.PostForm, len(cl.Questions))
	if err == nil {
		err = context.Submitter.Submit(actorContext(e), questionnaire.Submission{
			Checklist: cl,
			Values:    values,
			Preview:   props.Preview,
			ReadOnly:  props.ReadOnly,
		})
	}

	var verr *questionnaire.ValidationError
	switch {
	case err == nil:
		return e.Redirect(http.StatusSeeOther, savedLocation(e.Request.URL))
	case errors.As(err, &verr):
		posted := make(map[string]string, len(e.Request.PostForm))
		for k := range e.Request.PostForm {
			posted[k] = e.Request.PostForm.Get(k)
		}
		page := questionnaire.RenderPage(tr, props, cl).WithValues(posted).WithErrors(tr, verr)
		return renderHTML(context, e, http.StatusUnprocessableEntity, tr, page)
	default:
		return submitError(context, e, props.ChecklistID, err)
	}
}

// HandleAPIGet returns the page model. When the checklist is not loaded yet the
// view mounts, waits briefly, and answers with the Loading state if the load is
// still running.
func HandleAPIGet(context *app.AppContext, e *core.RequestEvent) error {
	props := propsFor(context, e)
	tr := translatorFor(context, e)

	cl, ok := context.State.Get(props.ChecklistID)
	if !ok {
		var err error
		if cl, err = awaitLoad(context, e, tr, props.ChecklistID); err != nil {
			return loadError(context, e, props.ChecklistID, err)
		}
	}

	page := questionnaire.RenderPage(tr, props, cl)
	context.Metrics.ObserveRender(string(page.State), "json")
	return e.JSON(http.StatusOK, page)
}

type submitBody struct {
	Values map[string]string `json:"values"`
}

// HandleAPISubmit accepts {"values": {...}} keyed by form field name.
func HandleAPISubmit(context *app.AppContext, e *core.RequestEvent) error {
	props := propsFor(context, e)
	tr := translatorFor(context, e)

	if props.ReadOnly {
		return e.ForbiddenError(tr.Translate("validation.readOnly"), nil)
	}

	var body submitBody
	if err := e.BindBody(&body); err != nil {
		return e.BadRequestError("Invalid request body", err)
	}

	cl, err := context.Loader.Load(e.Request.Context(), props.ChecklistID)
	if err != nil {
		return loadError(context, e, props.ChecklistID, err)
	}

	values, err := questionnaire.DecodeMap(body.Values, len(cl.Questions))
	if err == nil {
		err = context.Submitter.Submit(actorContext(e), questionnaire.Submission{
			Checklist: cl,
			Values:    values,
			Preview:   props.Preview,
			ReadOnly:  props.ReadOnly,
		})
	}

	var verr *questionnaire.ValidationError
	switch {
	case err == nil:
		return e.JSON(http.StatusOK, map[string]any{"saved": true, "preview": props.Preview})
	case errors.As(err, &verr):
		return e.JSON(http.StatusUnprocessableEntity, map[string]any{
			"message": "Validation failed",
			"fields":  translateFields(tr, verr),
		})
	default:
		return submitError(context, e, props.ChecklistID, err)
	}
}

func renderHTML(context *app.AppContext, e *core.RequestEvent, status int, tr i18n.Translator, page questionnaire.Page) error {
	lang := "en"
	if p, ok := tr.(*i18n.Printer); ok {
		lang = p.Language()
	}
	html, err := questionnaire.RenderHTML(questionnaire.HTMLData{
		Lang:   lang,
		Title:  page.ChecklistID,
		Action: e.Request.URL.RequestURI(),
		Page:   page,
	})
	if err != nil {
		context.Logger.Error("render failed", zap.String("checklist", page.ChecklistID), zap.Error(err))
		return e.InternalServerError("Failed to render questionnaire", err)
	}
	context.Metrics.ObserveRender(string(page.State), "html")
	return e.HTML(status, html)
}

func loadError(context *app.AppContext, e *core.RequestEvent, id string, err error) error {
	if errors.Is(err, checklist.ErrNotFound) {
		context.Logger.Warn("checklist not found", zap.String("checklist", id))
		return e.NotFoundError("Checklist not found", err)
	}
	context.Logger.Error("checklist load failed", zap.String("checklist", id), zap.Error(err))
	return e.InternalServerError("Failed to load checklist", err)
}

func submitError(context *app.AppContext, e *core.RequestEvent, id string, err error) error {
	switch statusFor(err) {
	case http.StatusBadRequest:
		context.Logger.Warn("bad submission", zap.String("checklist", id), zap.Error(err))
		return e.BadRequestError("Invalid submission", err)
	case http.StatusForbidden:
		return e.ForbiddenError("Checklist is read-only", err)
	case http.StatusNotFound:
		return e.NotFoundError("Checklist not found", err)
	}
	context.Logger.Error("submission failed", zap.String("checklist", id), zap.Error(err))
	return e.InternalServerError("Failed to save checklist", err)
}

// statusFor maps submission errors to HTTP status codes.
func statusFor(err error) int {
	var verr *questionnaire.ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, questionnaire.ErrUnknownQuestion):
		return http.StatusBadRequest
	case errors.Is(err, questionnaire.ErrReadOnly):
		return http.StatusForbidden
	case errors.Is(err, checklist.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func translateFields(tr i18n.Translator, verr *questionnaire.ValidationError) map[string]string {
	out := make(map[string]string, len(verr.Fields))
	for name, key := range verr.Fields {
		out[name] = tr.Translate(key)
	}
	return out
}

// savedLocation is the form URL with the saved marker, keeping the preview flag.
func savedLocation(u *url.URL) string {
	q := url.Values{}
	if parsePreview(u.Query()) {
		q.Set("preview", "true")
	}
	q.Set("saved", "1")
	return u.Path + "?" + q.Encode()
}

func actorContext(e *core.RequestEvent) context.Context {
	ctx := e.Request.Context()
	if e.Auth != nil && !e.HasSuperuserAuth() {
		ctx = checklist.WithActor(ctx, e.Auth.Id)
	}
	return ctx
}

// requestLoader is the view's Requester for one API request. It loads through
// the shared loader and reports the failure to the waiting handler.
type requestLoader struct {
	loader *checklist.Loader
	ctx    context.Context
	failed chan error
	cancel context.CancelFunc
}

func (r requestLoader) Request(id string) {
	go func() {
		if _, err := r.loader.Load(r.ctx, id); err != nil {
			r.failed <- err
			r.cancel()
		}
	}()
}

// awaitLoad mounts a view for id and waits up to loadWait for the checklist to
// reach the shared state. A nil checklist with a nil error means the load is
// still running.
func awaitLoad(appContext *app.AppContext, e *core.RequestEvent, tr i18n.Translator, id string) (*checklist.Checklist, error) {
	ctx, cancel := context.WithTimeout(e.Request.Context(), loadWait)
	defer cancel()

	req := requestLoader{
		loader: appContext.Loader,
		// the fetch outlives this request so that a polling client picks it up later
		ctx:    context.WithoutCancel(e.Request.Context()),
		failed: make(chan error, 1),
		cancel: cancel,
	}
	questionnaire.NewView(req, tr).Mount(id)

	cl, err := appContext.State.Wait(ctx, id)
	if err == nil {
		return cl, nil
	}
	select {
	case loadErr := <-req.failed:
		if errors.Is(loadErr, checklist.ErrNotFound) {
			return nil, loadErr
		}
	default:
	}
	return nil, nil
}

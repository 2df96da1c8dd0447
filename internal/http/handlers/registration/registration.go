// Package registration contains the HTTP handlers for the registration form.
//
// Handlers follow the closure / factory pattern: each exported function
// receives its dependencies once at startup and returns the
// http.HandlerFunc the router calls on every request.
//
// Handlers that change form state expect RequireSession to have put the
// caller's session in the request context. Page and GetState also run
// without one and then show an empty form.
package registration

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/registration-form/internal/form"
	"github.com/aanand-mishra/registration-form/internal/metrics"
	"github.com/aanand-mishra/registration-form/internal/render"
	"github.com/aanand-mishra/registration-form/internal/schema"
	"github.com/aanand-mishra/registration-form/internal/session"
	"github.com/aanand-mishra/registration-form/internal/types"
	"github.com/aanand-mishra/registration-form/internal/utils/response"
	"github.com/go-chi/chi/v5"
)

// ─────────────────────────────────────────────────────────────────────────────
// Page handles GET /
// Renders the form, or the confirmation panel once the session is Submitted.
// ─────────────────────────────────────────────────────────────────────────────
func Page(renderer *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writePage(w, renderer, http.StatusOK, snapshotOf(session.FromContext(r.Context())))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// SubmitForm handles POST /
// Applies every posted field to the controller, then submits.
//
// Request body: application/x-www-form-urlencoded with the field paths as
// names (firstName, ..., dateOfBirth.month). An empty select posts "".
//
// Responses (HTML):
//
//	200 OK                   — confirmation panel
//	409 Conflict             — already submitted; confirmation panel again
//	422 Unprocessable Entity — form re-rendered with inline errors
//
// ─────────────────────────────────────────────────────────────────────────────
func SubmitForm(renderer *render.Renderer, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		slog.Info("form submitted", slog.String("session", sess.ID))

		if err := r.ParseForm(); err != nil {
			http.Error(w, "malformed form body", http.StatusBadRequest)
			return
		}

		snap, errs, err := applyAndSubmit(sess, r.PostForm)
		switch {
		case errors.Is(err, form.ErrSubmitted):
			m.IncrementSubmissions(metrics.OutcomeDuplicate)
			writePage(w, renderer, http.StatusConflict, snap)
		case err != nil:
			slog.Error("form submission failed",
				slog.String("session", sess.ID),
				slog.String("error", err.Error()))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		case !errs.Valid():
			recordRejected(m, errs)
			writePage(w, renderer, http.StatusUnprocessableEntity, snap)
		default:
			m.IncrementSubmissions(metrics.OutcomeAccepted)
			slog.Info("registration accepted", slog.String("session", sess.ID))
			writePage(w, renderer, http.StatusOK, snap)
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetState handles GET /api/registration
//
// Success response (200 OK):
//
//	{ "state": "editing", "data": {...}, "errors": {...} }
//
// ─────────────────────────────────────────────────────────────────────────────
func GetState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, snapshotOf(session.FromContext(r.Context())))
	}
}

type setFieldRequest struct {
	Value *string `json:"value"`
}

// ─────────────────────────────────────────────────────────────────────────────
// SetField handles PUT /api/registration/fields/{path}
//
// Request body (JSON):
//
//	{ "value": "Ada" }
//
// Responses:
//
//	200 OK        — the updated snapshot
//	400           — empty or malformed body, or missing "value"
//	404 Not Found — unknown field path
//	409 Conflict  — the form has already been submitted
//
// ─────────────────────────────────────────────────────────────────────────────
func SetField() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		path := chi.URLParam(r, "path")
		slog.Info("setting field",
			slog.String("session", sess.ID),
			slog.String("field", path))

		var req setFieldRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		if req.Value == nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New(`field "value" is required`)))
			return
		}

		var snap form.Snapshot
		err = sess.Do(func(c *form.Controller) error {
			if err := c.SetField(path, *req.Value); err != nil {
				return err
			}
			snap = c.Snapshot()
			return nil
		})
		switch {
		case errors.Is(err, form.ErrUnknownField):
			response.WriteJSON(w, http.StatusNotFound, response.GeneralError(err))
		case errors.Is(err, form.ErrSubmitted):
			response.WriteJSON(w, http.StatusConflict, response.GeneralError(err))
		case err != nil:
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
		default:
			response.WriteJSON(w, http.StatusOK, snap)
		}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Submit handles POST /api/registration/submit
// Validates the values set so far.
//
// Responses:
//
//	200 OK                   — snapshot with state "submitted" and confirmation
//	409 Conflict             — already submitted
//	422 Unprocessable Entity — validation failed; per-field errors in "fields"
//
// ─────────────────────────────────────────────────────────────────────────────
func Submit(m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		slog.Info("api submit", slog.String("session", sess.ID))

		snap, errs, err := applyAndSubmit(sess, nil)
		switch {
		case errors.Is(err, form.ErrSubmitted):
			m.IncrementSubmissions(metrics.OutcomeDuplicate)
			response.WriteJSON(w, http.StatusConflict, response.GeneralError(err))
		case err != nil:
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
		case !errs.Valid():
			recordRejected(m, errs)
			response.WriteJSON(w, http.StatusUnprocessableEntity, response.ValidationError(errs))
		default:
			m.IncrementSubmissions(metrics.OutcomeAccepted)
			slog.Info("registration accepted", slog.String("session", sess.ID))
			response.WriteJSON(w, http.StatusOK, snap)
		}
	}
}

type optionsResponse struct {
	Months []string `json:"months"`
	Days   []string `json:"days"`
	Years  []string `json:"years"`
}

// Options handles GET /api/registration/options
// Returns the selectable date-of-birth values.
func Options() http.HandlerFunc {
	body := optionsResponse{
		Months: types.Months(),
		Days:   types.Days(),
		Years:  types.Years(),
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, body)
	}
}

// snapshotOf returns the session's snapshot, or that of a fresh form when the
// caller has no session yet.
func snapshotOf(sess *session.Session) form.Snapshot {
	if sess == nil {
		return form.Snapshot{State: form.Editing, Errors: schema.FieldErrors{}}
	}
	return sess.Snapshot()
}

// applyAndSubmit sets every known field present in values, then submits,
// all under the session lock. A nil values map submits as-is.
func applyAndSubmit(sess *session.Session, values map[string][]string) (form.Snapshot, schema.FieldErrors, error) {
	var (
		snap form.Snapshot
		errs schema.FieldErrors
	)
	err := sess.Do(func(c *form.Controller) error {
		defer func() { snap = c.Snapshot() }()

		if c.State() == form.Submitted {
			return form.ErrSubmitted
		}
		for _, path := range types.FieldPaths {
			if v, ok := values[path]; ok && len(v) > 0 {
				if err := c.SetField(path, v[0]); err != nil {
					return err
				}
			}
		}
		var err error
		errs, err = c.Submit()
		return err
	})
	return snap, errs, err
}

func recordRejected(m *metrics.Metrics, errs schema.FieldErrors) {
	m.IncrementSubmissions(metrics.OutcomeRejected)
	for path, fe := range errs {
		m.IncrementFieldError(path, string(fe.Kind))
	}
}

func writePage(w http.ResponseWriter, renderer *render.Renderer, status int, snap form.Snapshot) {
	var buf bytes.Buffer
	if err := renderer.Render(&buf, snap); err != nil {
		slog.Error("failed to render page", slog.String("error", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

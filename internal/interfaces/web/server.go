package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/example/meeting-intake/internal/application/intake"
	"github.com/example/meeting-intake/internal/domain/booking"
	"github.com/example/meeting-intake/internal/internaltypes"
	"github.com/example/meeting-intake/internal/metrics"
)

// Server is the JSON surface of the intake step. Rendering stays with the
// caller; this layer only moves form events in and state snapshots out.
type Server struct {
	addr     string
	sessions *SessionManager
	store    *intake.Store
	notifier *intake.Notifier
	booker   booking.Booker
	recorder intake.AttemptRecorder
	logger   *zap.Logger
}

func New(addr string, sessions *SessionManager, store *intake.Store, notifier *intake.Notifier, booker booking.Booker, recorder intake.AttemptRecorder, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		addr:     addr,
		sessions: sessions,
		store:    store,
		notifier: notifier,
		booker:   booker,
		recorder: recorder,
		logger:   logger,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/forms", s.handleCreateForm)
		r.Route("/forms/current", func(r chi.Router) {
			r.Get("/", s.handleFormState)
			r.Put("/fields/{name}", s.handleSetField)
			r.Post("/guests/input", s.handleGuestInput)
			r.Post("/guests/commit", s.handleGuestCommit)
			r.Post("/guests/toggle", s.handleGuestToggle)
			r.Post("/guests/remove", s.handleGuestRemove)
			r.Post("/submit", s.handleSubmit)
			r.Post("/back", s.handleBack)
		})
		r.Get("/notifications", s.handleNotifications)
		r.Post("/notifications/{id}/dismiss", s.handleDismiss)
	})
	return r
}

func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	s.logger.Info("listening", zap.String("addr", s.addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

// scheduling context arrives in the query string: the named keys are consumed,
// everything else is forwarded verbatim into the booking request.
var contextKeys = map[string]bool{
	"date": true, "start": true, "end": true, "timezone": true, "duration": true,
}

func (s *Server) handleCreateForm(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	for _, k := range []string{"date", "start", "end", "timezone", "duration"} {
		if q.Get(k) == "" {
			writeError(w, http.StatusBadRequest, k+" is required")
			return
		}
	}
	date, err := time.Parse("2006-01-02", q.Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	if _, err := time.LoadLocation(q.Get("timezone")); err != nil {
		writeError(w, http.StatusBadRequest, "unknown timezone")
		return
	}

	sctx := booking.SchedulingContext{
		Date:       date,
		SlotStart:  q.Get("start"),
		SlotEnd:    q.Get("end"),
		TimeZone:   q.Get("timezone"),
		DurationID: q.Get("duration"),
	}
	passThrough := map[string]string{}
	for k, vs := range q {
		if contextKeys[k] || len(vs) == 0 {
			continue
		}
		passThrough[k] = vs[0]
	}

	coord := intake.NewCoordinator(s.booker, s.notifier, s.recorder, s.logger)
	form := intake.NewForm(sctx, passThrough, coord)
	id := s.store.Create(form)
	if err := s.sessions.SetFormID(w, id); err != nil {
		s.store.Delete(id)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	metrics.FormsOpened.Inc()
	writeJSON(w, http.StatusCreated, map[string]any{"id": id, "fields": booking.Fields})
}

func (s *Server) currentForm(w http.ResponseWriter, r *http.Request) (string, *intake.Form, bool) {
	id, ok := s.sessions.GetFormID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "no form session")
		return "", nil, false
	}
	form, ok := s.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "no form session")
		return "", nil, false
	}
	return id, form, true
}

func (s *Server) handleFormState(w http.ResponseWriter, r *http.Request) {
	_, form, ok := s.currentForm(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, form.Snapshot())
}

type valueBody struct {
	Value string `json:"value"`
}

func decodeValue(w http.ResponseWriter, r *http.Request) (string, bool) {
	var b valueBody
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return "", false
	}
	return b.Value, true
}

func (s *Server) handleSetField(w http.ResponseWriter, r *http.Request) {
	_, form, ok := s.currentForm(w, r)
	if !ok {
		return
	}
	value, ok := decodeValue(w, r)
	if !ok {
		return
	}
	if err := form.SetField(chi.URLParam(r, "name"), value); err != nil {
		s.writeFormError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form.Snapshot())
}

func (s *Server) handleGuestInput(w http.ResponseWriter, r *http.Request) {
	_, form, ok := s.currentForm(w, r)
	if !ok {
		return
	}
	value, ok := decodeValue(w, r)
	if !ok {
		return
	}
	if err := form.SetGuestInput(value); err != nil {
		s.writeFormError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form.Snapshot())
}

func (s *Server) handleGuestCommit(w http.ResponseWriter, r *http.Request) {
	_, form, ok := s.currentForm(w, r)
	if !ok {
		return
	}
	if err := form.CommitGuestInput(); err != nil {
		s.writeFormError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form.Snapshot())
}

func (s *Server) handleGuestToggle(w http.ResponseWriter, r *http.Request) {
	_, form, ok := s.currentForm(w, r)
	if !ok {
		return
	}
	if err := form.ToggleGuests(); err != nil {
		s.writeFormError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form.Snapshot())
}

func (s *Server) handleGuestRemove(w http.ResponseWriter, r *http.Request) {
	_, form, ok := s.currentForm(w, r)
	if !ok {
		return
	}
	value, ok := decodeValue(w, r)
	if !ok {
		return
	}
	if err := form.RemoveGuest(value); err != nil {
		s.writeFormError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, form.Snapshot())
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	id, form, ok := s.currentForm(w, r)
	if !ok {
		return
	}
	raw, fieldErrs, err := form.Submit(r.Context())
	switch {
	case errors.Is(err, internaltypes.ErrSubmissionPending):
		writeError(w, http.StatusConflict, "a submission is already in flight")
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
	case len(fieldErrs) > 0:
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"field_errors": fieldErrs})
	case form.Status() == intake.StatusFailed:
		// the notifier already carries the one visible notice
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"status":  intake.StatusFailed,
			"message": form.FailureReason(),
		})
	default:
		s.store.Delete(id)
		s.sessions.Clear(w)
		writeJSON(w, http.StatusOK, map[string]any{
			"status":   intake.StatusSucceeded,
			"response": raw,
		})
	}
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	id, _, ok := s.currentForm(w, r)
	if !ok {
		return
	}
	s.store.Delete(id)
	s.sessions.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleNotifications(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"notifications": s.notifier.Active()})
}

func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	if !s.notifier.Dismiss(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "no such notification")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeFormError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, internaltypes.ErrSubmissionPending):
		writeError(w, http.StatusConflict, "a submission is already in flight")
	case errors.Is(err, internaltypes.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

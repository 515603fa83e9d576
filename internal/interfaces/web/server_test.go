package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/meeting-intake/internal/application/intake"
	"github.com/example/meeting-intake/internal/domain/booking"
)

type stubBooker struct {
	mu   sync.Mutex
	last booking.Request
	resp json.RawMessage
	err  error
}

func (s *stubBooker) Name() string               { return "stub" }
func (s *stubBooker) Ping(context.Context) error { return nil }
func (s *stubBooker) Book(_ context.Context, req booking.Request) (json.RawMessage, error) {
	s.mu.Lock()
	s.last = req
	s.mu.Unlock()
	return s.resp, s.err
}

type harness struct {
	srv    *Server
	ts     *httptest.Server
	client *http.Client
	booker *stubBooker
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	booker := &stubBooker{resp: json.RawMessage(`{"booking_id":"b1"}`)}
	sessions := NewSessionManager(securecookie.GenerateRandomKey(32), securecookie.GenerateRandomKey(32))
	srv := New(":0", sessions, intake.NewStore(), intake.NewNotifier(time.Minute), booker, nil, nil)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)

	jar := &cookieJar{}
	return &harness{srv: srv, ts: ts, client: &http.Client{Jar: jar}, booker: booker}
}

// cookieJar keeps every cookie for the one test host.
type cookieJar struct {
	mu      sync.Mutex
	cookies []*http.Cookie
}

func (j *cookieJar) SetCookies(_ *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cookies = cookies
}

func (j *cookieJar) Cookies(_ *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.cookies
}

func (h *harness) do(t *testing.T, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("")
	} else {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, h.ts.URL+path, rd)
	require.NoError(t, err)
	res, err := h.client.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(res.Body).Decode(&decoded)
	return res, decoded
}

const createQuery = "/api/forms?date=2024-03-15&start=09%3A00&end=09%3A30&timezone=Asia%2FHo_Chi_Minh&duration=d1&ref=x1"

func TestCreateFormRequiresContext(t *testing.T) {
	h := newHarness(t)
	res, body := h.do(t, http.MethodPost, "/api/forms?date=2024-03-15", "")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.NotEmpty(t, body["error"])

	res, _ = h.do(t, http.MethodPost, strings.Replace(createQuery, "Asia%2FHo_Chi_Minh", "Nowhere%2FNope", 1), "")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestNoSessionIs404(t *testing.T) {
	h := newHarness(t)
	res, _ := h.do(t, http.MethodGet, "/api/forms/current/", "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestFullSubmissionFlow(t *testing.T) {
	h := newHarness(t)

	res, body := h.do(t, http.MethodPost, createQuery, "")
	require.Equal(t, http.StatusCreated, res.StatusCode)
	require.NotEmpty(t, body["id"])

	for name, value := range map[string]string{
		"full_name": "Jane Doe",
		"email":     "jane@x.com",
		"demand":    "pricing",
		"field":     "Dịch vụ",
	} {
		res, _ = h.do(t, http.MethodPut, "/api/forms/current/fields/"+name, `{"value":"`+value+`"}`)
		require.Equal(t, http.StatusOK, res.StatusCode, name)
	}

	res, _ = h.do(t, http.MethodPost, "/api/forms/current/guests/input", `{"value":"bob@x.com"}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	res, snap := h.do(t, http.MethodPost, "/api/forms/current/guests/commit", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	values := snap["values"].(map[string]any)
	assert.Equal(t, []any{"bob@x.com"}, values["guests"])

	res, body = h.do(t, http.MethodPost, "/api/forms/current/submit", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "succeeded", body["status"])
	assert.Equal(t, map[string]any{"booking_id": "b1"}, body["response"])

	h.booker.mu.Lock()
	sent := h.booker.last
	h.booker.mu.Unlock()
	assert.Equal(t, "x1", sent["ref"])
	assert.Equal(t, "2024-03-15", sent["date"])
	assert.Equal(t, "420", sent["user_timezone_offset"])
	assert.Equal(t, "bob@x.com", sent["other_participants"])

	// session is gone after the success handoff
	res, _ = h.do(t, http.MethodGet, "/api/forms/current/", "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestSubmitInvalidFormIs422(t *testing.T) {
	h := newHarness(t)
	res, _ := h.do(t, http.MethodPost, createQuery, "")
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res, body := h.do(t, http.MethodPost, "/api/forms/current/submit", "")
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	fieldErrs := body["field_errors"].(map[string]any)
	assert.Equal(t, "Name must be at least 2 characters", fieldErrs["full_name"])

	h.booker.mu.Lock()
	defer h.booker.mu.Unlock()
	assert.Nil(t, h.booker.last, "validation failure must not reach the booker")
}

func TestSubmitRemoteFailure(t *testing.T) {
	h := newHarness(t)
	h.booker.err = &booking.ServiceError{Status: 409, Message: "Slot already taken"}

	res, _ := h.do(t, http.MethodPost, createQuery, "")
	require.Equal(t, http.StatusCreated, res.StatusCode)
	for name, value := range map[string]string{
		"full_name": "Jane Doe", "email": "jane@x.com", "demand": "pricing", "field": "Dịch vụ",
	} {
		res, _ = h.do(t, http.MethodPut, "/api/forms/current/fields/"+name, `{"value":"`+value+`"}`)
		require.Equal(t, http.StatusOK, res.StatusCode)
	}

	res, body := h.do(t, http.MethodPost, "/api/forms/current/submit", "")
	assert.Equal(t, http.StatusBadGateway, res.StatusCode)
	assert.Equal(t, "Slot already taken", body["message"])

	// the form survives for a retry
	res, snap := h.do(t, http.MethodGet, "/api/forms/current/", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "Jane Doe", snap["values"].(map[string]any)["full_name"])

	// exactly one dismissible notification
	res, body = h.do(t, http.MethodGet, "/api/notifications", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	notices := body["notifications"].([]any)
	require.Len(t, notices, 1)
	id := notices[0].(map[string]any)["id"].(string)

	res, _ = h.do(t, http.MethodPost, "/api/notifications/"+id+"/dismiss", "")
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	res, body = h.do(t, http.MethodGet, "/api/notifications", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Empty(t, body["notifications"])
}

func TestBackSignalDropsSession(t *testing.T) {
	h := newHarness(t)
	res, _ := h.do(t, http.MethodPost, createQuery, "")
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res, _ = h.do(t, http.MethodPost, "/api/forms/current/back", "")
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	res, _ = h.do(t, http.MethodGet, "/api/forms/current/", "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestHealthz(t *testing.T) {
	h := newHarness(t)
	res, body := h.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

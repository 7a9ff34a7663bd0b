package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"axis/internal/app"
	"axis/internal/domain"
)

type testServer struct {
	URL    string
	App    *app.App
	client *http.Client
	close  func()
}

func (s *testServer) Client() *http.Client { return s.client }
func (s *testServer) Close()               { s.close() }

func newTestServer(t *testing.T) (*testServer, func()) {
	t.Helper()
	workspace := t.TempDir()
	a, err := app.Open(context.Background(), workspace)
	if err != nil {
		t.Fatalf("open app: %v", err)
	}
	timeNow = func() time.Time { return time.Date(2026, 2, 20, 8, 0, 0, 0, time.UTC) }
	handler, err := New(Config{App: a})
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := &http.Server{Handler: handler}
	go srv.Serve(ln)
	testSrv := &testServer{
		URL:    "http://" + ln.Addr().String(),
		App:    a,
		client: &http.Client{},
		close: func() {
			srv.Shutdown(context.Background())
			ln.Close()
			a.Close()
		},
	}
	return testSrv, func() { testSrv.Close() }
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res, data
}

type errEnvelope struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func TestRowLifecycle(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	client := srv.Client()

	createRes, data := doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/gantt/rows", map[string]any{
		"projectKey": "career",
		"feature":    "Ship v1",
		"startWeek":  "2026-W01",
		"endWeek":    "2026-W03",
	})
	if createRes.StatusCode != http.StatusCreated {
		t.Fatalf("create row status %d: %s", createRes.StatusCode, string(data))
	}
	var created RowResponse
	if err := json.Unmarshal(data, &created); err != nil {
		t.Fatalf("unmarshal row: %v", err)
	}
	rowID := created.Row.ID
	if created.Row.Status != "planned" {
		t.Fatalf("expected planned, got %s", created.Row.Status)
	}
	if len(created.NextStatuses) != 2 {
		t.Fatalf("expected 2 next statuses for planned, got %v", created.NextStatuses)
	}

	activeRes, activeBody := doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/gantt/rows/"+rowID+"/status", map[string]any{
		"status": "active",
	})
	if activeRes.StatusCode != http.StatusOK {
		t.Fatalf("to active: %d %s", activeRes.StatusCode, string(activeBody))
	}

	// shipping without an artifact is blocked
	shipRes, shipBody := doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/gantt/rows/"+rowID+"/status", map[string]any{
		"status": "shipped",
	})
	if shipRes.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d %s", shipRes.StatusCode, string(shipBody))
	}
	var envelope errEnvelope
	if err := json.Unmarshal(shipBody, &envelope); err != nil {
		t.Fatalf("unmarshal error envelope: %v", err)
	}
	if envelope.Error.Code != "artifact_required" {
		t.Fatalf("expected artifact_required, got %s", envelope.Error.Code)
	}

	artRes, artBody := doJSON(t, client, http.MethodPut, srv.URL+"/api/v1/gantt/rows/"+rowID+"/artifact", map[string]any{
		"type": "PR",
		"url":  "https://example.com/pr/1",
	})
	if artRes.StatusCode != http.StatusOK {
		t.Fatalf("set artifact: %d %s", artRes.StatusCode, string(artBody))
	}

	shipRes2, shipBody2 := doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/gantt/rows/"+rowID+"/status", map[string]any{
		"status": "shipped",
	})
	if shipRes2.StatusCode != http.StatusOK {
		t.Fatalf("ship after artifact: %d %s", shipRes2.StatusCode, string(shipBody2))
	}
	var shipped RowResponse
	_ = json.Unmarshal(shipBody2, &shipped)
	if shipped.Row.Status != "shipped" {
		t.Fatalf("expected shipped, got %s", shipped.Row.Status)
	}
	if len(shipped.NextStatuses) != 0 {
		t.Fatalf("shipped is terminal, got next %v", shipped.NextStatuses)
	}

	auditRes, auditBody := doJSON(t, client, http.MethodGet, srv.URL+"/api/v1/gantt/rows/"+rowID+"/audit", nil)
	if auditRes.StatusCode != http.StatusOK {
		t.Fatalf("audit: %d %s", auditRes.StatusCode, string(auditBody))
	}
	var audit AuditResponse
	if err := json.Unmarshal(auditBody, &audit); err != nil {
		t.Fatalf("unmarshal audit: %v", err)
	}
	if len(audit.Entries) != 4 {
		t.Fatalf("expected 4 audit entries, got %d", len(audit.Entries))
	}
	if audit.Entries[0].Event != "status_change" || audit.Entries[0].To != "shipped" {
		t.Fatalf("expected newest entry first, got %+v", audit.Entries[0])
	}
	if audit.Entries[3].Event != "created" {
		t.Fatalf("expected created last, got %+v", audit.Entries[3])
	}

	delRes, delBody := doJSON(t, client, http.MethodDelete, srv.URL+"/api/v1/gantt/rows/"+rowID, nil)
	if delRes.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: %d %s", delRes.StatusCode, string(delBody))
	}
	getRes, getBody := doJSON(t, client, http.MethodGet, srv.URL+"/api/v1/gantt/rows/"+rowID, nil)
	if getRes.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d %s", getRes.StatusCode, string(getBody))
	}
}

func TestIllegalTransitionEnvelope(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	client := srv.Client()

	_, data := doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/gantt/rows", map[string]any{
		"projectKey": "career",
		"feature":    "Skip ahead",
		"startWeek":  "2026-W05",
		"endWeek":    "2026-W06",
	})
	var created RowResponse
	_ = json.Unmarshal(data, &created)

	res, body := doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/gantt/rows/"+created.Row.ID+"/status", map[string]any{
		"status": "shipped",
	})
	if res.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d %s", res.StatusCode, string(body))
	}
	var envelope errEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if envelope.Error.Code != "illegal_transition" {
		t.Fatalf("expected illegal_transition, got %s", envelope.Error.Code)
	}
	if envelope.Error.Details["from"] != "planned" || envelope.Error.Details["to"] != "shipped" {
		t.Fatalf("unexpected details: %v", envelope.Error.Details)
	}
}

func TestCreateRowRejectsBadWeek(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	client := srv.Client()

	res, body := doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/gantt/rows", map[string]any{
		"projectKey": "career",
		"feature":    "Bad week",
		"startWeek":  "2026-8",
		"endWeek":    "2026-W09",
	})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d %s", res.StatusCode, string(body))
	}
	var envelope errEnvelope
	_ = json.Unmarshal(body, &envelope)
	if envelope.Error.Code != "bad_request" {
		t.Fatalf("expected bad_request, got %s", envelope.Error.Code)
	}
}

func TestTimeline(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	client := srv.Client()

	_, _ = doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/gantt/rows", map[string]any{
		"projectKey": "career",
		"feature":    "On the window",
		"startWeek":  "2026-W09",
		"endWeek":    "2026-W10",
	})

	res, body := doJSON(t, client, http.MethodGet, srv.URL+"/api/v1/gantt/timeline?start=2026-W08&weeks=4", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("timeline: %d %s", res.StatusCode, string(body))
	}
	var timeline TimelineResponse
	if err := json.Unmarshal(body, &timeline); err != nil {
		t.Fatalf("unmarshal timeline: %v", err)
	}
	if len(timeline.Weeks) != 4 || timeline.Weeks[0].ID != "2026-W08" {
		t.Fatalf("unexpected window: %+v", timeline.Weeks)
	}
	if timeline.Weeks[1].Label != "W9" {
		t.Fatalf("unexpected label: %s", timeline.Weeks[1].Label)
	}
	if len(timeline.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(timeline.Rows))
	}
	tr := timeline.Rows[0]
	if tr.BarStart != 1 || tr.BarSpan != 2 {
		t.Fatalf("unexpected bar placement: start=%d span=%d", tr.BarStart, tr.BarSpan)
	}
	if !tr.NeedsOutcomeLink {
		t.Fatalf("expected outcome-link nudge for unlinked row")
	}
}

func TestProjectsActiveLimit(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	client := srv.Client()

	res, body := doJSON(t, client, http.MethodPut, srv.URL+"/api/v1/projects", map[string]any{
		"projects": []map[string]any{
			{"key": "a", "name": "A", "is_active": true},
			{"key": "b", "name": "B", "is_active": true},
			{"key": "c", "name": "C", "is_active": true},
			{"key": "d", "name": "D", "is_active": true},
		},
	})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d %s", res.StatusCode, string(body))
	}
	var envelope errEnvelope
	_ = json.Unmarshal(body, &envelope)
	if envelope.Error.Code != "too_many_active" {
		t.Fatalf("expected too_many_active, got %s", envelope.Error.Code)
	}
}

func TestDashboardViewEndpoint(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	client := srv.Client()

	res, body := doJSON(t, client, http.MethodGet, srv.URL+"/api/v1/views/dashboard", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("dashboard view: %d %s", res.StatusCode, string(body))
	}
	var view struct {
		Week struct {
			WeekID string `json:"week_id"`
		} `json:"week"`
		Today struct {
			Top3 []domain.TodayItem `json:"top3"`
		} `json:"today"`
	}
	if err := json.Unmarshal(body, &view); err != nil {
		t.Fatalf("unmarshal view: %v", err)
	}
	if view.Week.WeekID == "" {
		t.Fatalf("missing week id")
	}
	if len(view.Today.Top3) != 3 {
		t.Fatalf("expected 3 today items, got %d", len(view.Today.Top3))
	}
}

func TestTodayToggle(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	client := srv.Client()

	putRes, putBody := doJSON(t, client, http.MethodPut, srv.URL+"/api/v1/today/top3", map[string]any{
		"items": []string{"one", "two", "three"},
	})
	if putRes.StatusCode != http.StatusOK {
		t.Fatalf("put top3: %d %s", putRes.StatusCode, string(putBody))
	}

	res, body := doJSON(t, client, http.MethodPatch, srv.URL+"/api/v1/today/top3/t1", map[string]any{"done": true})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("toggle: %d %s", res.StatusCode, string(body))
	}
	var item domain.TodayItem
	_ = json.Unmarshal(body, &item)
	if !item.Done || item.Text != "one" {
		t.Fatalf("unexpected item: %+v", item)
	}

	missRes, missBody := doJSON(t, client, http.MethodPatch, srv.URL+"/api/v1/today/top3/nope", map[string]any{"done": true})
	if missRes.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d %s", missRes.StatusCode, string(missBody))
	}
}

func TestEventsLog(t *testing.T) {
	srv, cleanup := newTestServer(t)
	defer cleanup()
	client := srv.Client()

	_, _ = doJSON(t, client, http.MethodPost, srv.URL+"/api/v1/gantt/rows", map[string]any{
		"projectKey": "career",
		"feature":    "Make noise",
		"startWeek":  "2026-W08",
		"endWeek":    "2026-W09",
	})

	res, body := doJSON(t, client, http.MethodGet, srv.URL+"/api/v1/events?entity_kind=row", nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("events: %d %s", res.StatusCode, string(body))
	}
	var evts []domain.Event
	if err := json.Unmarshal(body, &evts); err != nil {
		t.Fatalf("unmarshal events: %v", err)
	}
	if len(evts) != 1 || evts[0].Type != "row.created" {
		t.Fatalf("unexpected events: %+v", evts)
	}
}

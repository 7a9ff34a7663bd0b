package dashboard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"axis/internal/config"
	"axis/internal/dashboard"
	"axis/internal/db"
	"axis/internal/domain"
	"axis/internal/events"
	"axis/internal/kv"
	"axis/internal/migrate"
)

func newTestService(t *testing.T) *dashboard.Service {
	t.Helper()
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc := dashboard.New(kv.Store{DB: conn}, events.Writer{DB: conn}, config.Default())
	svc.Now = func() time.Time { return time.Date(2026, 2, 20, 8, 0, 0, 0, time.UTC) }
	return svc
}

func TestNormalizeProjectsDropsDuplicatesAndBlanks(t *testing.T) {
	doc := dashboard.NormalizeProjects(domain.ProjectsDoc{Projects: []domain.Project{
		{Key: "career", Name: "Career", Links: []domain.ProjectLink{
			{Label: "Trello", URL: "https://trello.com/"},
			{Label: "broken", URL: "  "},
		}},
		{Key: "career", Name: "Duplicate"},
		{Key: "", Name: "No key"},
		{Key: "nameless", Name: "  "},
	}})
	if len(doc.Projects) != 1 {
		t.Fatalf("expected 1 project, got %d", len(doc.Projects))
	}
	if len(doc.Projects[0].Links) != 1 {
		t.Fatalf("incomplete link survived: %+v", doc.Projects[0].Links)
	}
}

func TestNormalizeWeekPadsToThree(t *testing.T) {
	now := time.Date(2026, 2, 20, 8, 0, 0, 0, time.UTC)
	doc := dashboard.NormalizeWeek(domain.WeekDoc{
		Outcomes: []domain.Outcome{{Text: "ship it"}},
	}, now)
	if doc.WeekID != "2026-W08" {
		t.Fatalf("expected current week id, got %s", doc.WeekID)
	}
	if doc.Mode != "OFF" {
		t.Fatalf("expected default mode OFF, got %s", doc.Mode)
	}
	if len(doc.Outcomes) != 3 || len(doc.Blockers) != 3 {
		t.Fatalf("expected 3 outcomes and 3 blockers, got %d/%d", len(doc.Outcomes), len(doc.Blockers))
	}
	if doc.Outcomes[0].ID != "w1" || doc.Outcomes[0].Text != "ship it" {
		t.Fatalf("first outcome mangled: %+v", doc.Outcomes[0])
	}
	if doc.Outcomes[2].Text != dashboard.Placeholder {
		t.Fatalf("expected placeholder padding, got %q", doc.Outcomes[2].Text)
	}
}

func TestNormalizeTodayResetsDoneOnRollover(t *testing.T) {
	now := time.Date(2026, 2, 20, 8, 0, 0, 0, time.UTC)
	doc := dashboard.NormalizeToday(domain.TodayDoc{
		Date: "2026-02-19",
		Top3: []domain.TodayItem{
			{ID: "t1", Text: "carry me over", Done: true},
			{ID: "t2", Text: "me too", Done: true},
			{ID: "t3", Text: "and me", Done: false},
		},
	}, now)
	if doc.Date != "2026-02-20" {
		t.Fatalf("expected rolled date, got %s", doc.Date)
	}
	for _, it := range doc.Top3 {
		if it.Done {
			t.Fatalf("done flag survived rollover: %+v", it)
		}
	}
	if doc.Top3[0].Text != "carry me over" {
		t.Fatalf("text lost on rollover: %+v", doc.Top3[0])
	}
}

func TestNormalizeTodayKeepsDoneSameDay(t *testing.T) {
	now := time.Date(2026, 2, 20, 8, 0, 0, 0, time.UTC)
	doc := dashboard.NormalizeToday(domain.TodayDoc{
		Date: "2026-02-20",
		Top3: []domain.TodayItem{{ID: "t1", Text: "done already", Done: true}},
	}, now)
	if !doc.Top3[0].Done {
		t.Fatalf("done flag cleared within the same day")
	}
	if len(doc.Top3) != 3 {
		t.Fatalf("expected padding to 3, got %d", len(doc.Top3))
	}
}

func TestPutProjectsEnforcesActiveLimit(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc := domain.ProjectsDoc{Projects: []domain.Project{
		{Key: "a", Name: "A", IsActive: true},
		{Key: "b", Name: "B", IsActive: true},
		{Key: "c", Name: "C", IsActive: true},
		{Key: "d", Name: "D", IsActive: true},
	}}
	_, err := svc.PutProjects(ctx, doc)
	var tma dashboard.TooManyActiveError
	if !errors.As(err, &tma) {
		t.Fatalf("expected TooManyActiveError, got %v", err)
	}
	if tma.Limit != 3 {
		t.Fatalf("expected limit 3, got %d", tma.Limit)
	}

	doc.Projects[3].IsActive = false
	saved, err := svc.PutProjects(ctx, doc)
	if err != nil {
		t.Fatalf("put within limit: %v", err)
	}
	if len(saved.Projects) != 4 {
		t.Fatalf("expected 4 projects, got %d", len(saved.Projects))
	}
}

func TestWeekOutcomesRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	saved, err := svc.SetWeekOutcomes(ctx, []string{"Income: offer signed", "", "AI: ship agent demo", "overflow"})
	if err != nil {
		t.Fatalf("set outcomes: %v", err)
	}
	if len(saved.Outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(saved.Outcomes))
	}
	if saved.Outcomes[1].Text != dashboard.Placeholder {
		t.Fatalf("blank text not replaced: %q", saved.Outcomes[1].Text)
	}

	got, err := svc.Week(ctx)
	if err != nil {
		t.Fatalf("week: %v", err)
	}
	if got.Outcomes[0].Text != "Income: offer signed" {
		t.Fatalf("outcome lost: %+v", got.Outcomes[0])
	}
}

func TestToggleToday(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.SetTodayTop3(ctx, []string{"one", "two", "three"}); err != nil {
		t.Fatalf("set top3: %v", err)
	}
	item, err := svc.ToggleToday(ctx, "t2", true)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !item.Done || item.Text != "two" {
		t.Fatalf("unexpected item: %+v", item)
	}
	if _, err := svc.ToggleToday(ctx, "missing", true); !errors.Is(err, dashboard.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestDashboardView(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.PutProjects(ctx, domain.ProjectsDoc{Projects: []domain.Project{
		{Key: "career", Name: "Career", IsActive: true, Focus: "interviews", Links: []domain.ProjectLink{
			{Label: "Trello", URL: "https://trello.com/"},
		}},
		{Key: "idle", Name: "Idle"},
	}})
	if err != nil {
		t.Fatalf("put projects: %v", err)
	}

	view, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if view.Week.WeekID != "2026-W08" {
		t.Fatalf("unexpected week id %s", view.Week.WeekID)
	}
	if len(view.Week.ActiveProjects) != 1 {
		t.Fatalf("expected 1 active project, got %d", len(view.Week.ActiveProjects))
	}
	ap := view.Week.ActiveProjects[0]
	if ap.ID != "ap_career" || ap.URL != "https://trello.com/" || ap.Focus != "interviews" {
		t.Fatalf("unexpected active project: %+v", ap)
	}
	if len(view.Today.Top3) != 3 {
		t.Fatalf("expected 3 today items, got %d", len(view.Today.Top3))
	}
	if view.Drift.TooManyProjects {
		t.Fatalf("drift flagged with one active project")
	}
	if len(view.Reality.Commitments) != 3 {
		t.Fatalf("expected default commitments, got %d", len(view.Reality.Commitments))
	}
}

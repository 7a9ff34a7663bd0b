package dashboard

import (
	"context"
	"errors"
	"time"

	"axis/internal/config"
	"axis/internal/domain"
	"axis/internal/events"
	"axis/internal/kv"
)

// Persisted document keys.
const (
	KeyProjects  = "axis_projects_v1"
	KeyResources = "axis_resources_v1"
	KeyWeek      = "axis_week_v1"
	KeyToday     = "axis_today_v1"
	KeyReality   = "axis_reality_v1"
)

var ErrItemNotFound = errors.New("item not found")

// Service owns the planning documents. Every document is normalized on
// read so a stale or hand-edited doc never reaches a caller raw.
type Service struct {
	KV     kv.Store
	Events events.Writer
	Cfg    *config.Config

	// Now is injectable for tests.
	Now func() time.Time
}

func New(store kv.Store, ev events.Writer, cfg *config.Config) *Service {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Service{KV: store, Events: ev, Cfg: cfg}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) Projects(ctx context.Context) (domain.ProjectsDoc, error) {
	var doc domain.ProjectsDoc
	err := s.KV.GetJSON(ctx, KeyProjects, &doc)
	if errors.Is(err, kv.ErrNotFound) {
		return NormalizeProjects(DefaultProjects()), nil
	}
	if err != nil {
		return domain.ProjectsDoc{}, err
	}
	return NormalizeProjects(doc), nil
}

// PutProjects replaces the project list, enforcing the active-project
// limit from config.
func (s *Service) PutProjects(ctx context.Context, doc domain.ProjectsDoc) (domain.ProjectsDoc, error) {
	normalized := NormalizeProjects(doc)
	active := 0
	for _, p := range normalized.Projects {
		if p.IsActive {
			active++
		}
	}
	if active > s.Cfg.Projects.MaxActive {
		return domain.ProjectsDoc{}, TooManyActiveError{Limit: s.Cfg.Projects.MaxActive}
	}
	if err := s.KV.PutJSON(ctx, KeyProjects, normalized); err != nil {
		return domain.ProjectsDoc{}, err
	}
	_ = s.Events.Append(ctx, "projects.updated", "projects", "", events.Payload{
		"count":  len(normalized.Projects),
		"active": active,
	})
	return normalized, nil
}

func (s *Service) Resources(ctx context.Context) (domain.ResourcesDoc, error) {
	var doc domain.ResourcesDoc
	err := s.KV.GetJSON(ctx, KeyResources, &doc)
	if errors.Is(err, kv.ErrNotFound) {
		return NormalizeResources(DefaultResources()), nil
	}
	if err != nil {
		return domain.ResourcesDoc{}, err
	}
	return NormalizeResources(doc), nil
}

func (s *Service) PutResources(ctx context.Context, doc domain.ResourcesDoc) (domain.ResourcesDoc, error) {
	normalized := NormalizeResources(doc)
	if err := s.KV.PutJSON(ctx, KeyResources, normalized); err != nil {
		return domain.ResourcesDoc{}, err
	}
	_ = s.Events.Append(ctx, "resources.updated", "resources", "", events.Payload{
		"sections": len(normalized.Sections),
	})
	return normalized, nil
}

func (s *Service) Week(ctx context.Context) (domain.WeekDoc, error) {
	var doc domain.WeekDoc
	err := s.KV.GetJSON(ctx, KeyWeek, &doc)
	if errors.Is(err, kv.ErrNotFound) {
		return NormalizeWeek(DefaultWeek(s.now()), s.now()), nil
	}
	if err != nil {
		return domain.WeekDoc{}, err
	}
	return NormalizeWeek(doc, s.now()), nil
}

func (s *Service) saveWeek(ctx context.Context, doc domain.WeekDoc) (domain.WeekDoc, error) {
	doc = NormalizeWeek(doc, s.now())
	if err := s.KV.PutJSON(ctx, KeyWeek, doc); err != nil {
		return domain.WeekDoc{}, err
	}
	return doc, nil
}

// SetWeekOutcomes replaces the week's three outcomes with fresh stable ids.
func (s *Service) SetWeekOutcomes(ctx context.Context, texts []string) (domain.WeekDoc, error) {
	doc, err := s.Week(ctx)
	if err != nil {
		return domain.WeekDoc{}, err
	}
	padded := ensure3Texts(texts)
	doc.Outcomes = []domain.Outcome{
		{ID: "w1", Text: padded[0]},
		{ID: "w2", Text: padded[1]},
		{ID: "w3", Text: padded[2]},
	}
	doc, err = s.saveWeek(ctx, doc)
	if err != nil {
		return domain.WeekDoc{}, err
	}
	_ = s.Events.Append(ctx, "week.outcomes_set", "week", doc.WeekID, nil)
	return doc, nil
}

func (s *Service) SetWeekBlockers(ctx context.Context, texts []string) (domain.WeekDoc, error) {
	doc, err := s.Week(ctx)
	if err != nil {
		return domain.WeekDoc{}, err
	}
	padded := ensure3Texts(texts)
	doc.Blockers = []domain.Blocker{
		{ID: "b1", Text: padded[0]},
		{ID: "b2", Text: padded[1]},
		{ID: "b3", Text: padded[2]},
	}
	doc, err = s.saveWeek(ctx, doc)
	if err != nil {
		return domain.WeekDoc{}, err
	}
	_ = s.Events.Append(ctx, "week.blockers_set", "week", doc.WeekID, nil)
	return doc, nil
}

// SetWeekMode flips the week between "LOCKED IN" and "OFF".
func (s *Service) SetWeekMode(ctx context.Context, mode string) (domain.WeekDoc, error) {
	doc, err := s.Week(ctx)
	if err != nil {
		return domain.WeekDoc{}, err
	}
	doc.Mode = mode
	doc, err = s.saveWeek(ctx, doc)
	if err != nil {
		return domain.WeekDoc{}, err
	}
	_ = s.Events.Append(ctx, "week.mode_set", "week", doc.WeekID, events.Payload{"mode": doc.Mode})
	return doc, nil
}

func (s *Service) Today(ctx context.Context) (domain.TodayDoc, error) {
	var doc domain.TodayDoc
	err := s.KV.GetJSON(ctx, KeyToday, &doc)
	if errors.Is(err, kv.ErrNotFound) {
		return NormalizeToday(DefaultToday(s.now()), s.now()), nil
	}
	if err != nil {
		return domain.TodayDoc{}, err
	}
	return NormalizeToday(doc, s.now()), nil
}

// SetTodayTop3 replaces today's list. Done flags start cleared.
func (s *Service) SetTodayTop3(ctx context.Context, texts []string) (domain.TodayDoc, error) {
	padded := ensure3Texts(texts)
	doc := domain.TodayDoc{
		Date: s.now().Format("2006-01-02"),
		Top3: []domain.TodayItem{
			{ID: "t1", Text: padded[0]},
			{ID: "t2", Text: padded[1]},
			{ID: "t3", Text: padded[2]},
		},
	}
	if err := s.KV.PutJSON(ctx, KeyToday, doc); err != nil {
		return domain.TodayDoc{}, err
	}
	_ = s.Events.Append(ctx, "today.top3_set", "today", doc.Date, nil)
	return doc, nil
}

// ToggleToday sets the done flag on one top3 item.
func (s *Service) ToggleToday(ctx context.Context, itemID string, done bool) (domain.TodayItem, error) {
	doc, err := s.Today(ctx)
	if err != nil {
		return domain.TodayItem{}, err
	}
	for i := range doc.Top3 {
		if doc.Top3[i].ID != itemID {
			continue
		}
		doc.Top3[i].Done = done
		if err := s.KV.PutJSON(ctx, KeyToday, doc); err != nil {
			return domain.TodayItem{}, err
		}
		_ = s.Events.Append(ctx, "today.item_toggled", "today", itemID, events.Payload{"done": done})
		return doc.Top3[i], nil
	}
	return domain.TodayItem{}, ErrItemNotFound
}

func (s *Service) Reality(ctx context.Context) (domain.RealityDoc, error) {
	var doc domain.RealityDoc
	err := s.KV.GetJSON(ctx, KeyReality, &doc)
	if errors.Is(err, kv.ErrNotFound) {
		return NormalizeReality(DefaultReality()), nil
	}
	if err != nil {
		return domain.RealityDoc{}, err
	}
	return NormalizeReality(doc), nil
}

// ActiveProject is one entry of the dashboard's active-projects strip.
type ActiveProject struct {
	ID    string `json:"id"`
	Key   string `json:"key"`
	Focus string `json:"focus"`
	URL   string `json:"url"`
}

// Drift flags surface overcommitment signals on the dashboard.
type Drift struct {
	TooManyOutcomes   bool `json:"too_many_outcomes"`
	TooManyProjects   bool `json:"too_many_projects"`
	ConsumingGtCreate bool `json:"consuming_gt_creating"`
	LowEnergy3Days    bool `json:"low_energy_3_days"`
	ToolTinkering     bool `json:"tool_tinkering"`
}

type WeekView struct {
	WeekID         string           `json:"week_id"`
	Mode           string           `json:"mode"`
	Outcomes       []domain.Outcome `json:"outcomes"`
	ActiveProjects []ActiveProject  `json:"active_projects"`
	Blockers       []domain.Blocker `json:"blockers"`
	Anchors        domain.Anchors   `json:"anchors"`
}

type TodayView struct {
	Date string             `json:"date"`
	Top3 []domain.TodayItem `json:"top3"`
}

// View is the single-screen dashboard payload.
type View struct {
	Week      WeekView                 `json:"week"`
	Today     TodayView                `json:"today"`
	Reality   domain.RealityDoc        `json:"reality"`
	Projects  []domain.Project         `json:"projects"`
	Resources []domain.ResourceSection `json:"resources"`
	Drift     Drift                    `json:"drift"`
}

// Dashboard assembles the one-screen view from all documents.
func (s *Service) Dashboard(ctx context.Context) (View, error) {
	weekDoc, err := s.Week(ctx)
	if err != nil {
		return View{}, err
	}
	todayDoc, err := s.Today(ctx)
	if err != nil {
		return View{}, err
	}
	projectsDoc, err := s.Projects(ctx)
	if err != nil {
		return View{}, err
	}
	resourcesDoc, err := s.Resources(ctx)
	if err != nil {
		return View{}, err
	}
	realityDoc, err := s.Reality(ctx)
	if err != nil {
		return View{}, err
	}

	activeCount := 0
	active := make([]ActiveProject, 0, s.Cfg.Projects.MaxActive)
	for _, p := range projectsDoc.Projects {
		if !p.IsActive {
			continue
		}
		activeCount++
		if len(active) == s.Cfg.Projects.MaxActive {
			continue
		}
		url := ""
		for _, l := range p.Links {
			if l.URL != "" {
				url = l.URL
				break
			}
		}
		active = append(active, ActiveProject{ID: "ap_" + p.Key, Key: p.Key, Focus: p.Focus, URL: url})
	}

	sections := resourcesDoc.Sections
	if len(sections) > 3 {
		sections = sections[:3]
	}

	return View{
		Week: WeekView{
			WeekID:         weekDoc.WeekID,
			Mode:           weekDoc.Mode,
			Outcomes:       weekDoc.Outcomes,
			ActiveProjects: active,
			Blockers:       weekDoc.Blockers,
			Anchors:        weekDoc.Anchors,
		},
		Today:     TodayView{Date: todayDoc.Date, Top3: todayDoc.Top3},
		Reality:   realityDoc,
		Projects:  projectsDoc.Projects,
		Resources: sections,
		Drift: Drift{
			TooManyOutcomes: len(weekDoc.Outcomes) > 3,
			TooManyProjects: activeCount > s.Cfg.Projects.MaxActive,
		},
	}, nil
}

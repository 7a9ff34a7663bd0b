package dashboard

import (
	"fmt"
	"strings"
	"time"

	"axis/internal/domain"
	"axis/internal/week"
)

// Placeholder fills empty slots so the three-item lists always render.
const Placeholder = "—"

// TooManyActiveError is returned when a projects write would exceed the
// active-project limit.
type TooManyActiveError struct {
	Limit int
}

func (e TooManyActiveError) Error() string {
	return fmt.Sprintf("max %d active projects allowed", e.Limit)
}

func ensure3Texts(values []string) []string {
	out := make([]string, 0, 3)
	for _, v := range values {
		if len(out) == 3 {
			break
		}
		s := strings.TrimSpace(v)
		if s == "" {
			s = Placeholder
		}
		out = append(out, s)
	}
	for len(out) < 3 {
		out = append(out, Placeholder)
	}
	return out
}

func ensure3Items(items []domain.TodayItem, prefix string) []domain.TodayItem {
	out := make([]domain.TodayItem, 0, 3)
	for i, it := range items {
		if len(out) == 3 {
			break
		}
		id := strings.TrimSpace(it.ID)
		if id == "" {
			id = fmt.Sprintf("%s%d", prefix, i+1)
		}
		text := strings.TrimSpace(it.Text)
		if text == "" {
			text = Placeholder
		}
		out = append(out, domain.TodayItem{ID: id, Text: text, Done: it.Done})
	}
	for len(out) < 3 {
		out = append(out, domain.TodayItem{ID: fmt.Sprintf("%s%d", prefix, len(out)+1), Text: Placeholder})
	}
	return out
}

func cleanLinks(links []domain.ProjectLink) []domain.ProjectLink {
	out := make([]domain.ProjectLink, 0, len(links))
	for _, l := range links {
		label := strings.TrimSpace(l.Label)
		url := strings.TrimSpace(l.URL)
		if label == "" || url == "" {
			continue
		}
		out = append(out, domain.ProjectLink{Label: label, URL: url})
	}
	return out
}

// NormalizeProjects drops entries without a key and name, dedupes keys
// keeping the first occurrence, and strips incomplete links.
func NormalizeProjects(doc domain.ProjectsDoc) domain.ProjectsDoc {
	seen := map[string]bool{}
	out := make([]domain.Project, 0, len(doc.Projects))
	for _, p := range doc.Projects {
		key := strings.TrimSpace(p.Key)
		name := strings.TrimSpace(p.Name)
		if key == "" || name == "" || seen[key] {
			continue
		}
		seen[key] = true
		p.Key = key
		p.Name = name
		p.Links = cleanLinks(p.Links)
		out = append(out, p)
	}
	return domain.ProjectsDoc{Projects: out}
}

// NormalizeResources drops untitled sections and incomplete links.
func NormalizeResources(doc domain.ResourcesDoc) domain.ResourcesDoc {
	out := make([]domain.ResourceSection, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		title := strings.TrimSpace(s.Title)
		if title == "" {
			continue
		}
		out = append(out, domain.ResourceSection{Title: title, Links: cleanLinks(s.Links)})
	}
	return domain.ResourcesDoc{Sections: out}
}

// NormalizeWeek pads outcomes and blockers to exactly three entries with
// stable ids and fills a missing week_id with the current ISO week.
func NormalizeWeek(doc domain.WeekDoc, now time.Time) domain.WeekDoc {
	if strings.TrimSpace(doc.WeekID) == "" {
		doc.WeekID = week.Current(now)
	}
	if strings.TrimSpace(doc.Mode) == "" {
		doc.Mode = "OFF"
	}

	outcomes := make([]domain.Outcome, 0, 3)
	for i, o := range doc.Outcomes {
		if len(outcomes) == 3 {
			break
		}
		id := strings.TrimSpace(o.ID)
		if id == "" {
			id = fmt.Sprintf("w%d", i+1)
		}
		text := strings.TrimSpace(o.Text)
		if text == "" {
			text = Placeholder
		}
		outcomes = append(outcomes, domain.Outcome{ID: id, Text: text})
	}
	for len(outcomes) < 3 {
		outcomes = append(outcomes, domain.Outcome{ID: fmt.Sprintf("w%d", len(outcomes)+1), Text: Placeholder})
	}

	blockers := make([]domain.Blocker, 0, 3)
	for i, b := range doc.Blockers {
		if len(blockers) == 3 {
			break
		}
		id := strings.TrimSpace(b.ID)
		if id == "" {
			id = fmt.Sprintf("b%d", i+1)
		}
		text := strings.TrimSpace(b.Text)
		if text == "" {
			text = Placeholder
		}
		blockers = append(blockers, domain.Blocker{ID: id, Text: text})
	}
	for len(blockers) < 3 {
		blockers = append(blockers, domain.Blocker{ID: fmt.Sprintf("b%d", len(blockers)+1), Text: Placeholder})
	}

	doc.Outcomes = outcomes
	doc.Blockers = blockers
	return doc
}

// NormalizeToday pads the top3 list and resets done flags when the stored
// date rolled over. Texts survive the rollover.
func NormalizeToday(doc domain.TodayDoc, now time.Time) domain.TodayDoc {
	today := now.Format("2006-01-02")
	items := doc.Top3
	if len(items) == 0 {
		items = DefaultToday(now).Top3
	}
	items = ensure3Items(items, "t")
	if doc.Date != today {
		for i := range items {
			items[i].Done = false
		}
	}
	return domain.TodayDoc{Date: today, Top3: items}
}

// NormalizeReality drops commitments missing an id or text.
func NormalizeReality(doc domain.RealityDoc) domain.RealityDoc {
	out := make([]domain.Commitment, 0, len(doc.Commitments))
	for _, c := range doc.Commitments {
		id := strings.TrimSpace(c.ID)
		text := strings.TrimSpace(c.Text)
		if id == "" || text == "" {
			continue
		}
		out = append(out, domain.Commitment{ID: id, Text: text, Day: strings.TrimSpace(c.Day)})
	}
	return domain.RealityDoc{Commitments: out}
}

// DefaultProjects seeds a first-run workspace.
func DefaultProjects() domain.ProjectsDoc {
	return domain.ProjectsDoc{Projects: []domain.Project{
		{
			Key:  "career",
			Name: "Career / Job Search",
			Links: []domain.ProjectLink{
				{Label: "Trello", URL: "https://trello.com/"},
				{Label: "Docs", URL: "https://docs.google.com/"},
				{Label: "Calendar", URL: "https://calendar.google.com/"},
			},
		},
		{
			Key:  "flowlogix",
			Name: "FlowLogix",
			Links: []domain.ProjectLink{
				{Label: "Trello", URL: "https://trello.com/"},
				{Label: "GitHub", URL: "https://github.com/"},
			},
		},
		{
			Key:   "trading",
			Name:  "Trading",
			Links: []domain.ProjectLink{{Label: "TradingView", URL: "https://tradingview.com/"}},
		},
	}}
}

func DefaultResources() domain.ResourcesDoc {
	return domain.ResourcesDoc{Sections: []domain.ResourceSection{
		{Title: "AI", Links: []domain.ProjectLink{{Label: "ChatGPT", URL: "https://chat.openai.com/"}}},
		{Title: "Trading", Links: []domain.ProjectLink{{Label: "TradingView", URL: "https://tradingview.com/"}}},
		{Title: "Career", Links: []domain.ProjectLink{{Label: "LinkedIn", URL: "https://linkedin.com/"}}},
	}}
}

func DefaultWeek(now time.Time) domain.WeekDoc {
	return domain.WeekDoc{
		WeekID: week.Current(now),
		Mode:   "OFF",
		Outcomes: []domain.Outcome{
			{ID: "w1", Text: "Income/Career: ______"},
			{ID: "w2", Text: "AI/Leverage: ______"},
			{ID: "w3", Text: "Health/Stability: ______"},
		},
		Blockers: []domain.Blocker{
			{ID: "b1", Text: Placeholder},
			{ID: "b2", Text: Placeholder},
			{ID: "b3", Text: Placeholder},
		},
	}
}

func DefaultToday(now time.Time) domain.TodayDoc {
	return domain.TodayDoc{
		Date: now.Format("2006-01-02"),
		Top3: []domain.TodayItem{
			{ID: "t1", Text: "Hardest task first"},
			{ID: "t2", Text: "Second needle-mover"},
			{ID: "t3", Text: "Third needle-mover"},
		},
	}
}

func DefaultReality() domain.RealityDoc {
	return domain.RealityDoc{Commitments: []domain.Commitment{
		{ID: "c1", Text: "Mon/Wed: Training", Day: "Mon/Wed"},
		{ID: "c2", Text: "Tue: Language class", Day: "Tue"},
		{ID: "c3", Text: "Fri: Family/Admin", Day: "Fri"},
	}}
}

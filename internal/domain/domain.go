package domain

// Row is one tracked commitment on the Gantt timeline: a feature planned
// for a project across a range of ISO weeks, ideally linked to a weekly
// outcome, with a full audit trail of every change made to it.
type Row struct {
	ID              string       `json:"id"`
	ProjectKey      string       `json:"projectKey"`
	Feature         string       `json:"feature"`
	StartWeek       string       `json:"startWeek"`
	EndWeek         string       `json:"endWeek"`
	Status          string       `json:"status" enum:"planned,active,shipped,stalled"`
	LinkedOutcomeID string       `json:"linkedOutcomeId"`
	Artifact        Artifact     `json:"artifact"`
	AuditTrail      []AuditEvent `json:"auditTrail"`
}

// Artifact is the proof-of-completion link required before a row ships.
type Artifact struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// AuditEvent records a single change to a row. Events are append-only and
// stored in chronological order.
type AuditEvent struct {
	TS    string `json:"ts" format:"date-time"`
	Event string `json:"event" enum:"created,edited,status_change,artifact_set"`
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
	Meta  string `json:"meta,omitempty"`
}

// RowSnapshot is the persisted layout of the whole row collection.
type RowSnapshot struct {
	Rows []Row `json:"rows"`
}

// Project is a dashboard project entry. Rows reference projects by key
// only; the project list is owned by the planning side of the dashboard.
type Project struct {
	Key      string        `json:"key"`
	Name     string        `json:"name"`
	IsActive bool          `json:"is_active"`
	Focus    string        `json:"focus,omitempty"`
	Links    []ProjectLink `json:"links"`
}

type ProjectLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type ProjectsDoc struct {
	Projects []Project `json:"projects"`
}

// Outcome is one of the week's three planned outcomes.
type Outcome struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type Blocker struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Anchors are the weekly non-negotiables tracked as booleans.
type Anchors struct {
	Sleep5Nights      bool `json:"sleep_5_nights"`
	Training4Sessions bool `json:"training_4_sessions"`
	DailyTop35Days    bool `json:"daily_top3_5_days"`
	AIDailyExposure   bool `json:"ai_daily_exposure"`
}

// WeekDoc is the weekly planning document.
type WeekDoc struct {
	WeekID   string    `json:"week_id"`
	Mode     string    `json:"mode"`
	Outcomes []Outcome `json:"outcomes"`
	Blockers []Blocker `json:"blockers"`
	Anchors  Anchors   `json:"anchors"`
}

// TodayItem is one of today's top-3 needle movers.
type TodayItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// TodayDoc is the daily planning document. Done flags reset when the
// stored date rolls over.
type TodayDoc struct {
	Date string      `json:"date"`
	Top3 []TodayItem `json:"top3"`
}

type ResourceSection struct {
	Title string        `json:"title"`
	Links []ProjectLink `json:"links"`
}

type ResourcesDoc struct {
	Sections []ResourceSection `json:"sections"`
}

// Commitment is a fixed real-life obligation shown on the reality panel.
type Commitment struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Day  string `json:"day,omitempty"`
}

type RealityDoc struct {
	Commitments []Commitment `json:"commitments"`
}

// Event is one entry in the global change log.
type Event struct {
	ID         int64  `json:"id"`
	TS         string `json:"ts" format:"date-time"`
	Type       string `json:"type"`
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id,omitempty"`
	Payload    string `json:"payload_json"`
}

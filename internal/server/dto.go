package server

import (
	"axis/internal/domain"
	"axis/internal/gantt"
	"axis/internal/week"
)

// Request payloads

type CreateRowRequest struct {
	ProjectKey      string           `json:"projectKey"`
	Feature         string           `json:"feature"`
	StartWeek       string           `json:"startWeek"`
	EndWeek         string           `json:"endWeek"`
	LinkedOutcomeID *string          `json:"linkedOutcomeId,omitempty"`
	Artifact        *ArtifactRequest `json:"artifact,omitempty"`
}

type UpdateRowRequest struct {
	Feature         *string `json:"feature,omitempty"`
	StartWeek       *string `json:"startWeek,omitempty"`
	EndWeek         *string `json:"endWeek,omitempty"`
	LinkedOutcomeID *string `json:"linkedOutcomeId,omitempty"`
}

type SetRowStatusRequest struct {
	Status string `json:"status" enum:"planned,active,shipped,stalled"`
	Note   string `json:"note,omitempty"`
}

type ArtifactRequest struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type PutProjectsRequest struct {
	Projects []domain.Project `json:"projects"`
}

type PutResourcesRequest struct {
	Sections []domain.ResourceSection `json:"sections"`
}

type WeekOutcomesRequest struct {
	Outcomes []string `json:"outcomes"`
}

type WeekBlockersRequest struct {
	Blockers []string `json:"blockers"`
}

type TodayTop3Request struct {
	Items []string `json:"items"`
}

type ToggleDoneRequest struct {
	Done bool `json:"done"`
}

// Response payloads

type RowResponse struct {
	Row          domain.Row `json:"row"`
	NextStatuses []string   `json:"next_statuses"`
}

type RowListResponse struct {
	Rows []RowResponse `json:"rows"`
}

type AuditResponse struct {
	RowID   string              `json:"row_id"`
	Feature string              `json:"feature"`
	Entries []domain.AuditEvent `json:"entries"`
}

// TimelineRow is one row positioned against the timeline window.
type TimelineRow struct {
	Row      domain.Row `json:"row"`
	BarStart int        `json:"bar_start"`
	BarSpan  int        `json:"bar_span"`
	// NeedsOutcomeLink flags rows not yet tied to a weekly outcome.
	NeedsOutcomeLink bool `json:"needs_outcome_link"`
}

type TimelineWeek struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type TimelineResponse struct {
	Weeks []TimelineWeek `json:"weeks"`
	Rows  []TimelineRow  `json:"rows"`
}

type MeResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

func rowResponse(r domain.Row) RowResponse {
	next := gantt.NextStatuses(gantt.Status(r.Status))
	names := make([]string, 0, len(next))
	for _, s := range next {
		names = append(names, string(s))
	}
	return RowResponse{Row: r, NextStatuses: names}
}

func mapRows(rows []domain.Row) []RowResponse {
	out := make([]RowResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowResponse(r))
	}
	return out
}

// auditNewestFirst renders the trail most recent first, the order the
// audit endpoint serves it in.
func auditNewestFirst(trail []domain.AuditEvent) []domain.AuditEvent {
	out := make([]domain.AuditEvent, len(trail))
	for i, e := range trail {
		out[len(trail)-1-i] = e
	}
	return out
}

func timelineResponse(weeks []string, rows []domain.Row) TimelineResponse {
	tw := make([]TimelineWeek, 0, len(weeks))
	for _, id := range weeks {
		tw = append(tw, TimelineWeek{ID: id, Label: week.Label(id)})
	}
	tr := make([]TimelineRow, 0, len(rows))
	for _, r := range rows {
		start, span := week.BarSpan(weeks, r.StartWeek, r.EndWeek)
		tr = append(tr, TimelineRow{
			Row:              r,
			BarStart:         start,
			BarSpan:          span,
			NeedsOutcomeLink: r.LinkedOutcomeID == "",
		})
	}
	return TimelineResponse{Weeks: tw, Rows: tr}
}

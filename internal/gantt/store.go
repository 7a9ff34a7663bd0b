// Package gantt owns the commitment rows of the Axis timeline: their
// collection, their status lifecycle, and the audit trail appended on
// every mutation.
package gantt

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"axis/internal/domain"
	"axis/internal/events"
	"axis/internal/kv"
)

// SnapshotKey is the document key holding the persisted row collection.
const SnapshotKey = "axis_ganntify_v1"

// Store is the single owner of the row collection. Mutations update the
// in-memory rows, append one audit event, and write the whole snapshot
// through to the document store. The write-through is best-effort: a
// failed persistence write leaves the in-memory collection authoritative
// for the session rather than failing the mutation.
type Store struct {
	mu   sync.Mutex
	rows []domain.Row
	subs []func()

	KV     kv.Store
	Events events.Writer
	Now    func() time.Time
}

// New loads the persisted snapshot and returns a ready store. A missing
// or corrupt snapshot starts the store with an empty collection.
func New(ctx context.Context, store kv.Store, ev events.Writer) *Store {
	s := &Store{
		KV:     store,
		Events: ev,
		Now:    time.Now,
	}
	var snap domain.RowSnapshot
	if err := store.GetJSON(ctx, SnapshotKey, &snap); err == nil {
		s.rows = snap.Rows
	}
	return s
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Store) auditEntry(event, from, to, meta string) domain.AuditEvent {
	return domain.AuditEvent{
		TS:    s.now().UTC().Format(time.RFC3339),
		Event: event,
		From:  from,
		To:    to,
		Meta:  meta,
	}
}

// persist writes the current snapshot through to the document store and
// must be called with the lock held.
func (s *Store) persist(ctx context.Context) {
	snap := domain.RowSnapshot{Rows: s.rows}
	if snap.Rows == nil {
		snap.Rows = []domain.Row{}
	}
	_ = s.KV.PutJSON(ctx, SnapshotKey, snap)
}

func (s *Store) notify() {
	for _, fn := range s.subs {
		fn()
	}
}

// Subscribe registers fn to run after every successful mutation.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// RowSpec carries the caller-supplied fields of a new row.
type RowSpec struct {
	ProjectKey      string
	Feature         string
	StartWeek       string
	EndWeek         string
	Status          Status
	LinkedOutcomeID string
	Artifact        domain.Artifact
}

// AddRow appends a new row with a fresh id and a single "created" audit
// event. The standard creation path passes StatusPlanned; field
// validation beyond presence is the caller's concern.
func (s *Store) AddRow(ctx context.Context, spec RowSpec) domain.Row {
	s.mu.Lock()
	row := domain.Row{
		ID:              uuid.New().String(),
		ProjectKey:      spec.ProjectKey,
		Feature:         spec.Feature,
		StartWeek:       spec.StartWeek,
		EndWeek:         spec.EndWeek,
		Status:          string(spec.Status),
		LinkedOutcomeID: spec.LinkedOutcomeID,
		Artifact:        spec.Artifact,
		AuditTrail:      []domain.AuditEvent{s.auditEntry("created", "", string(spec.Status), "")},
	}
	s.rows = append(s.rows, row)
	s.persist(ctx)
	s.mu.Unlock()

	_ = s.Events.Append(ctx, "row.created", "row", row.ID, events.Payload{
		"project_key": row.ProjectKey,
		"feature":     row.Feature,
		"status":      row.Status,
	})
	s.notify()
	return row
}

// RowPatch is a partial update of a row's editable fields. Nil fields
// are left untouched.
type RowPatch struct {
	Feature         *string
	StartWeek       *string
	EndWeek         *string
	LinkedOutcomeID *string
}

func (p RowPatch) changes() string {
	var parts []string
	if p.Feature != nil {
		parts = append(parts, fmt.Sprintf("feature: %s", *p.Feature))
	}
	if p.StartWeek != nil {
		parts = append(parts, fmt.Sprintf("startWeek: %s", *p.StartWeek))
	}
	if p.EndWeek != nil {
		parts = append(parts, fmt.Sprintf("endWeek: %s", *p.EndWeek))
	}
	if p.LinkedOutcomeID != nil {
		parts = append(parts, fmt.Sprintf("linkedOutcomeId: %s", *p.LinkedOutcomeID))
	}
	return strings.Join(parts, ", ")
}

// UpdateRow applies patch to the matching row and appends an "edited"
// audit event summarizing the changed fields. An unknown id is a
// silent no-op.
func (s *Store) UpdateRow(ctx context.Context, id string, patch RowPatch) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	row := &s.rows[idx]
	if patch.Feature != nil {
		row.Feature = *patch.Feature
	}
	if patch.StartWeek != nil {
		row.StartWeek = *patch.StartWeek
	}
	if patch.EndWeek != nil {
		row.EndWeek = *patch.EndWeek
	}
	if patch.LinkedOutcomeID != nil {
		row.LinkedOutcomeID = *patch.LinkedOutcomeID
	}
	meta := patch.changes()
	row.AuditTrail = append(row.AuditTrail, s.auditEntry("edited", "", "", meta))
	s.persist(ctx)
	s.mu.Unlock()

	_ = s.Events.Append(ctx, "row.edited", "row", id, events.Payload{"changes": meta})
	s.notify()
}

// UpdateRowStatus moves a row along the lifecycle. The transition table
// and the artifact-before-shipped precondition are checked first; on
// rejection the row is left unchanged and a typed error describes the
// failure.
func (s *Store) UpdateRowStatus(ctx context.Context, id string, newStatus Status, note string) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrRowNotFound
	}
	row := &s.rows[idx]
	from := Status(row.Status)
	if !CanTransition(from, newStatus) {
		s.mu.Unlock()
		return IllegalTransitionError{From: from, To: newStatus}
	}
	if newStatus == StatusShipped && strings.TrimSpace(row.Artifact.URL) == "" {
		s.mu.Unlock()
		return ErrArtifactRequired
	}
	row.Status = string(newStatus)
	row.AuditTrail = append(row.AuditTrail, s.auditEntry("status_change", string(from), string(newStatus), note))
	s.persist(ctx)
	s.mu.Unlock()

	_ = s.Events.Append(ctx, "row.status_change", "row", id, events.Payload{
		"from": string(from),
		"to":   string(newStatus),
	})
	s.notify()
	return nil
}

// SetArtifact replaces the row's artifact wholesale and appends an
// "artifact_set" audit event. URL validation is a UI concern. An
// unknown id is a silent no-op.
func (s *Store) SetArtifact(ctx context.Context, id string, artifact domain.Artifact) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	row := &s.rows[idx]
	row.Artifact = artifact
	meta := fmt.Sprintf("%s: %s", artifact.Type, artifact.URL)
	row.AuditTrail = append(row.AuditTrail, s.auditEntry("artifact_set", "", "", meta))
	s.persist(ctx)
	s.mu.Unlock()

	_ = s.Events.Append(ctx, "row.artifact_set", "row", id, events.Payload{
		"type": artifact.Type,
		"url":  artifact.URL,
	})
	s.notify()
}

// RemoveRow deletes the row unconditionally, history included.
// Confirmation is a UI concern.
func (s *Store) RemoveRow(ctx context.Context, id string) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.rows = append(s.rows[:idx], s.rows[idx+1:]...)
	s.persist(ctx)
	s.mu.Unlock()

	_ = s.Events.Append(ctx, "row.removed", "row", id, nil)
	s.notify()
}

// Rows returns a copy of the current collection in insertion order.
func (s *Store) Rows() []domain.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Row, len(s.rows))
	for i, r := range s.rows {
		out[i] = copyRow(r)
	}
	return out
}

// Get returns the row with the given id, or ErrRowNotFound.
func (s *Store) Get(id string) (domain.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return domain.Row{}, ErrRowNotFound
	}
	return copyRow(s.rows[idx]), nil
}

func (s *Store) indexOf(id string) int {
	for i, r := range s.rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func copyRow(r domain.Row) domain.Row {
	r.AuditTrail = append([]domain.AuditEvent(nil), r.AuditTrail...)
	return r
}

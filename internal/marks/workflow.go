package marks

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/apperr"
)

// minRejectReason keeps rejection reasons useful to the teacher fixing
// the marks.
const minRejectReason = 10

// Recomputer is invoked after a successful publish. Implementations may
// run inline or enqueue a job; the workflow does not care.
type Recomputer interface {
	OnPublish(ctx context.Context, m InternalMark) error
}

// Workflow drives internal marks through
// draft → submitted → {approved, rejected→draft} ; approved → frozen → published.
// It checks state preconditions only; role gating belongs to the caller.
type Workflow struct {
	store      Store
	recomputer Recomputer
	now        func() time.Time
}

func NewWorkflow(store Store, rec Recomputer) *Workflow {
	return &Workflow{store: store, recomputer: rec, now: time.Now}
}

func NewWorkflowAt(store Store, rec Recomputer, now func() time.Time) *Workflow {
	return &Workflow{store: store, recomputer: rec, now: now}
}

// Submit moves every draft mark of (subject, component) to submitted.
// Marks in other states are reported per-item; the rest proceed.
func (w *Workflow) Submit(ctx context.Context, subjectID int64, componentType, by string) ([]InternalMark, []BatchItemError, error) {
	all, err := w.store.ListInternalMarks(ctx, subjectID, componentType)
	if err != nil {
		return nil, nil, err
	}
	if len(all) == 0 {
		return nil, nil, apperr.NewNotFound("internal marks for subject", subjectID)
	}
	batch := uuid.NewString()
	var ok []InternalMark
	var failed []BatchItemError
	for _, m := range all {
		if err := w.transition(ctx, m.ID, ActionSubmit, by, "", batch); err != nil {
			failed = append(failed, BatchItemError{MarkID: m.ID, Err: err.Error()})
			continue
		}
		moved, err := w.store.GetInternalMark(ctx, m.ID)
		if err != nil {
			failed = append(failed, BatchItemError{MarkID: m.ID, Err: err.Error()})
			continue
		}
		ok = append(ok, moved)
	}
	return ok, failed, nil
}

// SubmitMarks submits an explicit id list instead of a whole component.
func (w *Workflow) SubmitMarks(ctx context.Context, markIDs []int64, by string) ([]InternalMark, []BatchItemError, error) {
	if len(markIDs) == 0 {
		return nil, nil, apperr.NewValidation("mark_ids is empty",
			apperr.FieldError{Field: "mark_ids", Error: "required"})
	}
	batch := uuid.NewString()
	var ok []InternalMark
	var failed []BatchItemError
	for _, id := range markIDs {
		if err := w.transition(ctx, id, ActionSubmit, by, "", batch); err != nil {
			failed = append(failed, BatchItemError{MarkID: id, Err: err.Error()})
			continue
		}
		moved, err := w.store.GetInternalMark(ctx, id)
		if err != nil {
			failed = append(failed, BatchItemError{MarkID: id, Err: err.Error()})
			continue
		}
		ok = append(ok, moved)
	}
	return ok, failed, nil
}

func (w *Workflow) Approve(ctx context.Context, markID int64, by string) (InternalMark, error) {
	if err := w.transition(ctx, markID, ActionApprove, by, "", uuid.NewString()); err != nil {
		return InternalMark{}, err
	}
	return w.store.GetInternalMark(ctx, markID)
}

func (w *Workflow) Reject(ctx context.Context, markID int64, by, reason string) (InternalMark, error) {
	if len(strings.TrimSpace(reason)) < minRejectReason {
		return InternalMark{}, apperr.NewValidation("rejection reason must be at least 10 characters",
			apperr.FieldError{Field: "reason", Error: "too short"})
	}
	if err := w.transition(ctx, markID, ActionReject, by, reason, uuid.NewString()); err != nil {
		return InternalMark{}, err
	}
	return w.store.GetInternalMark(ctx, markID)
}

func (w *Workflow) Freeze(ctx context.Context, markID int64, by string) (InternalMark, error) {
	if err := w.transition(ctx, markID, ActionFreeze, by, "", uuid.NewString()); err != nil {
		return InternalMark{}, err
	}
	return w.store.GetInternalMark(ctx, markID)
}

// Publish is terminal and triggers recomputation of the owning FinalMark
// and the subject's CO attainment.
func (w *Workflow) Publish(ctx context.Context, markID int64, by string) (InternalMark, error) {
	if err := w.transition(ctx, markID, ActionPublish, by, "", uuid.NewString()); err != nil {
		return InternalMark{}, err
	}
	m, err := w.store.GetInternalMark(ctx, markID)
	if err != nil {
		return InternalMark{}, err
	}
	if w.recomputer != nil {
		if err := w.recomputer.OnPublish(ctx, m); err != nil {
			return m, err
		}
	}
	return m, nil
}

// transition validates against the closed table, then applies the guarded
// update + audit append atomically through the store. An illegal pair
// fails before any write.
func (w *Workflow) transition(ctx context.Context, markID int64, action Action, actor, reason, batchID string) error {
	cur, err := w.store.GetInternalMark(ctx, markID)
	if err != nil {
		return err
	}
	to, legal := NextState(cur.State, action)
	if !legal {
		return apperr.NewRuleViolation("invalid transition from %s", cur.State)
	}
	ch := StateChange{
		Action: action,
		From:   cur.State,
		To:     to,
		Actor:  actor,
		Reason: reason,
		At:     w.now().Unix(),
	}
	return w.store.ApplyTransition(ctx, markID, ch, MarkAuditEntry{
		BatchID:      batchID,
		MarkTable:    "internal_marks",
		FieldChanged: "workflow_state",
		OldValue:     string(cur.State),
		NewValue:     string(to),
		Reason:       reason,
		ChangeType:   "transition",
		ChangedBy:    actor,
		ChangedAt:    ch.At,
	})
}

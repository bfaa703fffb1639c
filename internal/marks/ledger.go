package marks

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/apperr"
)

// Ledger records raw marks. Every mutation, including creation, carries an
// audit entry written in the same transaction as the value itself.
type Ledger struct {
	store Store
	now   func() time.Time
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// NewLedgerAt is for tests that need a fixed clock.
func NewLedgerAt(store Store, now func() time.Time) *Ledger {
	return &Ledger{store: store, now: now}
}

func (l *Ledger) RecordQuestionMark(ctx context.Context, questionID, studentID int64, obtained float64, actor string) (QuestionMark, error) {
	max, err := l.store.QuestionMaxMarks(ctx, questionID)
	if err != nil {
		return QuestionMark{}, err
	}
	if obtained < 0 || obtained > max {
		return QuestionMark{}, apperr.NewRuleViolation(
			"marks %.2f out of range [0, %.2f] for question %d", obtained, max, questionID)
	}
	m := QuestionMark{QuestionID: questionID, StudentID: studentID, MarksObtained: obtained}
	return l.store.InsertQuestionMark(ctx, m, MarkAuditEntry{
		BatchID:      uuid.NewString(),
		MarkTable:    "question_marks",
		FieldChanged: "marks_obtained",
		NewValue:     fmtMarks(obtained),
		ChangeType:   "create",
		ChangedBy:    actor,
		ChangedAt:    l.now().Unix(),
	})
}

func (l *Ledger) UpdateQuestionMark(ctx context.Context, markID int64, newValue float64, actor, reason string) error {
	if reason == "" {
		return apperr.NewValidation("reason is required for mark corrections",
			apperr.FieldError{Field: "reason", Error: "required"})
	}
	cur, err := l.store.GetQuestionMark(ctx, markID)
	if err != nil {
		return err
	}
	max, err := l.store.QuestionMaxMarks(ctx, cur.QuestionID)
	if err != nil {
		return err
	}
	if newValue < 0 || newValue > max {
		return apperr.NewRuleViolation(
			"marks %.2f out of range [0, %.2f] for question %d", newValue, max, cur.QuestionID)
	}
	return l.store.UpdateQuestionMark(ctx, markID, newValue, MarkAuditEntry{
		BatchID:      uuid.NewString(),
		MarkTable:    "question_marks",
		FieldChanged: "marks_obtained",
		OldValue:     fmtMarks(cur.MarksObtained),
		NewValue:     fmtMarks(newValue),
		Reason:       reason,
		ChangeType:   "update",
		ChangedBy:    actor,
		ChangedAt:    l.now().Unix(),
	})
}

// EnterInternalMark creates the row in draft state.
func (l *Ledger) EnterInternalMark(ctx context.Context, m InternalMark, actor string) (InternalMark, error) {
	if m.MaxMarks <= 0 {
		return InternalMark{}, apperr.NewValidation("max_marks must be positive",
			apperr.FieldError{Field: "max_marks", Error: "must be > 0"})
	}
	if m.MarksObtained < 0 || m.MarksObtained > m.MaxMarks {
		return InternalMark{}, apperr.NewRuleViolation(
			"marks %.2f out of range [0, %.2f]", m.MarksObtained, m.MaxMarks)
	}
	return l.store.InsertInternalMark(ctx, m, MarkAuditEntry{
		BatchID:      uuid.NewString(),
		MarkTable:    "internal_marks",
		FieldChanged: "marks_obtained",
		NewValue:     fmtMarks(m.MarksObtained),
		ChangeType:   "create",
		ChangedBy:    actor,
		ChangedAt:    l.now().Unix(),
	})
}

// UpdateInternalMark corrects a draft mark. Marks past draft are owned by
// the workflow and can only return via reject.
func (l *Ledger) UpdateInternalMark(ctx context.Context, markID int64, newValue float64, actor, reason string) error {
	if reason == "" {
		return apperr.NewValidation("reason is required for mark corrections",
			apperr.FieldError{Field: "reason", Error: "required"})
	}
	cur, err := l.store.GetInternalMark(ctx, markID)
	if err != nil {
		return err
	}
	if cur.State != StateDraft {
		return apperr.NewRuleViolation("mark %d is %s; only draft marks are editable", markID, cur.State)
	}
	if newValue < 0 || newValue > cur.MaxMarks {
		return apperr.NewRuleViolation(
			"marks %.2f out of range [0, %.2f]", newValue, cur.MaxMarks)
	}
	return l.store.UpdateInternalMarkValue(ctx, markID, newValue, StateDraft, MarkAuditEntry{
		BatchID:      uuid.NewString(),
		MarkTable:    "internal_marks",
		FieldChanged: "marks_obtained",
		OldValue:     fmtMarks(cur.MarksObtained),
		NewValue:     fmtMarks(newValue),
		Reason:       reason,
		ChangeType:   "update",
		ChangedBy:    actor,
		ChangedAt:    l.now().Unix(),
	})
}

func (l *Ledger) GetInternalMark(ctx context.Context, id int64) (InternalMark, error) {
	return l.store.GetInternalMark(ctx, id)
}

func (l *Ledger) AuditTrail(ctx context.Context, q AuditQuery) ([]MarkAuditEntry, error) {
	return l.store.ListAudit(ctx, q)
}

func fmtMarks(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

package marks_test

import (
	"context"
	"testing"

	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/apperr"
	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/marks"
)

func TestRecordQuestionMark_Range(t *testing.T) {
	st := newFakeStore()
	st.questions[1] = 10
	l := marks.NewLedgerAt(st, fixedNow)
	ctx := context.Background()

	if _, err := l.RecordQuestionMark(ctx, 1, 100, 11, "t1"); !apperr.IsRuleViolation(err) {
		t.Fatalf("above max: want rule violation, got %v", err)
	}
	if _, err := l.RecordQuestionMark(ctx, 1, 100, -1, "t1"); !apperr.IsRuleViolation(err) {
		t.Fatalf("negative: want rule violation, got %v", err)
	}
	if _, err := l.RecordQuestionMark(ctx, 99, 100, 5, "t1"); !apperr.IsNotFound(err) {
		t.Fatalf("missing question: want not-found, got %v", err)
	}

	m, err := l.RecordQuestionMark(ctx, 1, 100, 8, "t1")
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if m.MarksObtained != 8 {
		t.Fatalf("stored %v", m.MarksObtained)
	}

	// creation itself is audited
	trail, _ := st.ListAudit(ctx, marks.AuditQuery{MarkTable: "question_marks", MarkID: m.ID})
	if len(trail) != 1 || trail[0].ChangeType != "create" || trail[0].NewValue != "8" {
		t.Fatalf("create audit: %+v", trail)
	}

	if _, err := l.RecordQuestionMark(ctx, 1, 100, 7, "t1"); !apperr.IsAlreadyExists(err) {
		t.Fatalf("duplicate: want already-exists, got %v", err)
	}
}

func TestUpdateQuestionMark_AuditPairsValueChange(t *testing.T) {
	st := newFakeStore()
	st.questions[1] = 10
	l := marks.NewLedgerAt(st, fixedNow)
	ctx := context.Background()

	m, err := l.RecordQuestionMark(ctx, 1, 100, 6, "t1")
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := l.UpdateQuestionMark(ctx, m.ID, 9, "t1", ""); !apperr.IsValidation(err) {
		t.Fatalf("missing reason: want validation error, got %v", err)
	}
	if err := l.UpdateQuestionMark(ctx, m.ID, 11, "t1", "totaling mistake"); !apperr.IsRuleViolation(err) {
		t.Fatalf("above max: want rule violation, got %v", err)
	}
	if err := l.UpdateQuestionMark(ctx, m.ID, 9, "t1", "totaling mistake"); err != nil {
		t.Fatalf("update: %v", err)
	}

	trail, _ := st.ListAudit(ctx, marks.AuditQuery{MarkTable: "question_marks", MarkID: m.ID})
	if len(trail) != 2 {
		t.Fatalf("expected create+update audit rows, got %d", len(trail))
	}
	upd := trail[1]
	if upd.OldValue != "6" || upd.NewValue != "9" || upd.Reason != "totaling mistake" || upd.ChangedBy != "t1" {
		t.Fatalf("update audit: %+v", upd)
	}
}

func TestEnterInternalMark(t *testing.T) {
	st := newFakeStore()
	l := marks.NewLedgerAt(st, fixedNow)
	ctx := context.Background()

	if _, err := l.EnterInternalMark(ctx, marks.InternalMark{
		StudentID: 1, SubjectID: 10, ComponentType: "ia1", MarksObtained: 50, MaxMarks: 40,
	}, "t1"); !apperr.IsRuleViolation(err) {
		t.Fatalf("above max: want rule violation, got %v", err)
	}

	m, err := l.EnterInternalMark(ctx, marks.InternalMark{
		StudentID: 1, SubjectID: 10, ComponentType: "ia1", MarksObtained: 30, MaxMarks: 40,
	}, "t1")
	if err != nil {
		t.Fatalf("enter: %v", err)
	}
	if m.State != marks.StateDraft {
		t.Fatalf("new mark should be draft, got %s", m.State)
	}
}

func TestUpdateInternalMark_DraftOnly(t *testing.T) {
	st := newFakeStore()
	l := marks.NewLedgerAt(st, fixedNow)
	ctx := context.Background()

	m, err := l.EnterInternalMark(ctx, marks.InternalMark{
		StudentID: 1, SubjectID: 10, ComponentType: "ia1", MarksObtained: 30, MaxMarks: 40,
	}, "t1")
	if err != nil {
		t.Fatalf("enter: %v", err)
	}

	if err := l.UpdateInternalMark(ctx, m.ID, 35, "t1", "re-totaled section B"); err != nil {
		t.Fatalf("update draft: %v", err)
	}

	// lock it past draft
	rec := st.internal[m.ID]
	rec.State = marks.StateSubmitted
	st.internal[m.ID] = rec

	if err := l.UpdateInternalMark(ctx, m.ID, 36, "t1", "one more"); !apperr.IsRuleViolation(err) {
		t.Fatalf("update submitted: want rule violation, got %v", err)
	}
	got, _ := st.GetInternalMark(ctx, m.ID)
	if got.MarksObtained != 35 {
		t.Fatalf("value changed despite rejected update: %v", got.MarksObtained)
	}
}

package marks

import "context"

// Store is the persistence collaborator for the mark ledger. Every write
// method that takes a MarkAuditEntry must persist the mutation and the
// audit row in one transaction: one is never visible without the other.
type Store interface {
	QuestionMaxMarks(ctx context.Context, questionID int64) (float64, error)

	GetQuestionMark(ctx context.Context, id int64) (QuestionMark, error)
	InsertQuestionMark(ctx context.Context, m QuestionMark, audit MarkAuditEntry) (QuestionMark, error)
	UpdateQuestionMark(ctx context.Context, id int64, newValue float64, audit MarkAuditEntry) error

	GetInternalMark(ctx context.Context, id int64) (InternalMark, error)
	InsertInternalMark(ctx context.Context, m InternalMark, audit MarkAuditEntry) (InternalMark, error)
	// UpdateInternalMarkValue writes a new obtained value guarded by the
	// expected workflow state; a state mismatch means a concurrent edit.
	UpdateInternalMarkValue(ctx context.Context, id int64, newValue float64, expect WorkflowState, audit MarkAuditEntry) error
	// ApplyTransition performs the state-guarded update plus audit append.
	// Zero rows matched distinguishes into not-found vs conflict.
	ApplyTransition(ctx context.Context, id int64, ch StateChange, audit MarkAuditEntry) error

	ListInternalMarks(ctx context.Context, subjectID int64, componentType string) ([]InternalMark, error)

	ListAudit(ctx context.Context, q AuditQuery) ([]MarkAuditEntry, error)
}

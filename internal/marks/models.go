package marks

// WorkflowState is the lifecycle stage of an internal mark record.
type WorkflowState string

const (
	StateDraft     WorkflowState = "draft"
	StateSubmitted WorkflowState = "submitted"
	StateApproved  WorkflowState = "approved"
	StateRejected  WorkflowState = "rejected" // transient: reject returns the mark to draft
	StateFrozen    WorkflowState = "frozen"
	StatePublished WorkflowState = "published" // terminal
)

// Action is a workflow transition request.
type Action string

const (
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionFreeze  Action = "freeze"
	ActionPublish Action = "publish"
)

type transitionKey struct {
	From   WorkflowState
	Action Action
}

// transitions is the closed table of legal moves. Anything absent is an
// invalid transition and must leave the record untouched.
var transitions = map[transitionKey]WorkflowState{
	{StateDraft, ActionSubmit}:      StateSubmitted,
	{StateSubmitted, ActionApprove}: StateApproved,
	{StateSubmitted, ActionReject}:  StateDraft,
	{StateApproved, ActionFreeze}:   StateFrozen,
	{StateFrozen, ActionPublish}:    StatePublished,
}

// NextState resolves (current, action) against the transition table.
func NextState(from WorkflowState, action Action) (WorkflowState, bool) {
	to, ok := transitions[transitionKey{from, action}]
	return to, ok
}

// RequiredState reports the state a mark must be in for an action, so the
// caller (authorization layer) can gate roles before invoking a transition.
func RequiredState(action Action) (WorkflowState, bool) {
	for k := range transitions {
		if k.Action == action {
			return k.From, true
		}
	}
	return "", false
}

// QuestionMark is one student's raw score on one question.
type QuestionMark struct {
	ID            int64   `json:"id"`
	QuestionID    int64   `json:"question_id"`
	StudentID     int64   `json:"student_id"`
	MarksObtained float64 `json:"marks_obtained"`
}

// InternalMark is one row per (student, subject, component). It is mutated
// only through the ledger and the workflow state machine, and is never
// physically deleted once submitted.
type InternalMark struct {
	ID            int64         `json:"id"`
	StudentID     int64         `json:"student_id"`
	SubjectID     int64         `json:"subject_id"`
	ComponentType string        `json:"component_type"` // ia1|ia2|assignment
	MarksObtained float64       `json:"marks_obtained"`
	MaxMarks      float64       `json:"max_marks"`
	State         WorkflowState `json:"workflow_state"`

	SubmittedAt    *int64 `json:"submitted_at,omitempty"`
	SubmittedBy    string `json:"submitted_by,omitempty"`
	ApprovedAt     *int64 `json:"approved_at,omitempty"`
	ApprovedBy     string `json:"approved_by,omitempty"`
	RejectedReason string `json:"rejected_reason,omitempty"`
	FrozenAt       *int64 `json:"frozen_at,omitempty"`
	FrozenBy       string `json:"frozen_by,omitempty"`
	PublishedAt    *int64 `json:"published_at,omitempty"`

	Version int64 `json:"version"`
}

// MarkAuditEntry is append-only; entries are never updated or deleted.
type MarkAuditEntry struct {
	ID           int64  `json:"id"`
	BatchID      string `json:"batch_id"`
	MarkTable    string `json:"mark_table"` // question_marks|internal_marks
	MarkID       int64  `json:"mark_id"`
	FieldChanged string `json:"field_changed"`
	OldValue     string `json:"old_value"`
	NewValue     string `json:"new_value"`
	Reason       string `json:"reason,omitempty"`
	ChangeType   string `json:"change_type"` // create|update|transition
	ChangedBy    string `json:"changed_by"`
	ChangedAt    int64  `json:"changed_at"`
}

// AuditQuery filters the audit trail. Zero values are ignored.
type AuditQuery struct {
	MarkTable string
	MarkID    int64
	StudentID int64
	ExamID    int64 // narrows to question marks of one exam
	ChangedBy string
	Limit     int
	Offset    int
}

// BatchItemError is one failed row of a batch operation; the rest of the
// batch proceeds (partial-success semantics).
type BatchItemError struct {
	MarkID int64  `json:"mark_id"`
	Err    string `json:"error"`
}

// StateChange carries everything a store needs to apply one transition
// atomically with its audit entry.
type StateChange struct {
	Action Action
	From   WorkflowState
	To     WorkflowState
	Actor  string
	Reason string
	At     int64
}

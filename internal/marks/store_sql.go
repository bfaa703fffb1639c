package marks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/apperr"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) QuestionMaxMarks(ctx context.Context, questionID int64) (float64, error) {
	var max float64
	err := s.db.QueryRowContext(ctx, `SELECT max_marks FROM questions WHERE id=$1`, questionID).Scan(&max)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, apperr.NewNotFound("question", questionID)
	}
	return max, err
}

func (s *SQLStore) GetQuestionMark(ctx context.Context, id int64) (QuestionMark, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, question_id, student_id, marks_obtained FROM question_marks WHERE id=$1`, id)
	var m QuestionMark
	if err := row.Scan(&m.ID, &m.QuestionID, &m.StudentID, &m.MarksObtained); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return QuestionMark{}, apperr.NewNotFound("question mark", id)
		}
		return QuestionMark{}, err
	}
	return m, nil
}

func (s *SQLStore) InsertQuestionMark(ctx context.Context, m QuestionMark, audit MarkAuditEntry) (QuestionMark, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return QuestionMark{}, err
	}
	defer tx.Rollback()

	var one int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM question_marks WHERE question_id=$1 AND student_id=$2`,
		m.QuestionID, m.StudentID).Scan(&one)
	if err == nil {
		return QuestionMark{}, apperr.NewAlreadyExists("question mark", "use update instead")
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return QuestionMark{}, err
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO question_marks (question_id, student_id, marks_obtained)
		 VALUES ($1,$2,$3) RETURNING id`,
		m.QuestionID, m.StudentID, m.MarksObtained).Scan(&m.ID)
	if err != nil {
		return QuestionMark{}, err
	}
	audit.MarkID = m.ID
	if err := appendAudit(ctx, tx, audit); err != nil {
		return QuestionMark{}, err
	}
	if err := tx.Commit(); err != nil {
		return QuestionMark{}, err
	}
	return m, nil
}

func (s *SQLStore) UpdateQuestionMark(ctx context.Context, id int64, newValue float64, audit MarkAuditEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE question_marks SET marks_obtained=$1 WHERE id=$2`, newValue, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NewNotFound("question mark", id)
	}
	audit.MarkID = id
	if err := appendAudit(ctx, tx, audit); err != nil {
		return err
	}
	return tx.Commit()
}

const internalMarkCols = `id, student_id, subject_id, component_type, marks_obtained, max_marks,
	workflow_state, submitted_at, submitted_by, approved_at, approved_by,
	rejected_reason, frozen_at, frozen_by, published_at, version`

func scanInternalMark(row interface{ Scan(...interface{}) error }) (InternalMark, error) {
	var m InternalMark
	var state string
	err := row.Scan(&m.ID, &m.StudentID, &m.SubjectID, &m.ComponentType, &m.MarksObtained, &m.MaxMarks,
		&state, &m.SubmittedAt, &m.SubmittedBy, &m.ApprovedAt, &m.ApprovedBy,
		&m.RejectedReason, &m.FrozenAt, &m.FrozenBy, &m.PublishedAt, &m.Version)
	if err != nil {
		return InternalMark{}, err
	}
	m.State = WorkflowState(state)
	return m, nil
}

func (s *SQLStore) GetInternalMark(ctx context.Context, id int64) (InternalMark, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+internalMarkCols+` FROM internal_marks WHERE id=$1`, id)
	m, err := scanInternalMark(row)
	if errors.Is(err, sql.ErrNoRows) {
		return InternalMark{}, apperr.NewNotFound("internal mark", id)
	}
	return m, err
}

func (s *SQLStore) InsertInternalMark(ctx context.Context, m InternalMark, audit MarkAuditEntry) (InternalMark, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return InternalMark{}, err
	}
	defer tx.Rollback()

	var one int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM internal_marks WHERE student_id=$1 AND subject_id=$2 AND component_type=$3`,
		m.StudentID, m.SubjectID, m.ComponentType).Scan(&one)
	if err == nil {
		return InternalMark{}, apperr.NewAlreadyExists("internal mark",
			fmt.Sprintf("student %d subject %d %s", m.StudentID, m.SubjectID, m.ComponentType))
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return InternalMark{}, err
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO internal_marks (student_id, subject_id, component_type, marks_obtained, max_marks, workflow_state)
		 VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
		m.StudentID, m.SubjectID, m.ComponentType, m.MarksObtained, m.MaxMarks, string(StateDraft)).Scan(&m.ID)
	if err != nil {
		return InternalMark{}, err
	}
	m.State = StateDraft
	audit.MarkID = m.ID
	if err := appendAudit(ctx, tx, audit); err != nil {
		return InternalMark{}, err
	}
	if err := tx.Commit(); err != nil {
		return InternalMark{}, err
	}
	return m, nil
}

func (s *SQLStore) UpdateInternalMarkValue(ctx context.Context, id int64, newValue float64, expect WorkflowState, audit MarkAuditEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE internal_marks SET marks_obtained=$1, version=version+1 WHERE id=$2 AND workflow_state=$3`,
		newValue, id, string(expect))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return s.missOrConflict(ctx, id, expect)
	}
	audit.MarkID = id
	if err := appendAudit(ctx, tx, audit); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLStore) ApplyTransition(ctx context.Context, id int64, ch StateChange, audit MarkAuditEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var res sql.Result
	switch ch.Action {
	case ActionSubmit:
		res, err = tx.ExecContext(ctx,
			`UPDATE internal_marks SET workflow_state=$1, submitted_at=$2, submitted_by=$3, version=version+1
			 WHERE id=$4 AND workflow_state=$5`,
			string(ch.To), ch.At, ch.Actor, id, string(ch.From))
	case ActionApprove:
		res, err = tx.ExecContext(ctx,
			`UPDATE internal_marks SET workflow_state=$1, approved_at=$2, approved_by=$3, version=version+1
			 WHERE id=$4 AND workflow_state=$5`,
			string(ch.To), ch.At, ch.Actor, id, string(ch.From))
	case ActionReject:
		res, err = tx.ExecContext(ctx,
			`UPDATE internal_marks SET workflow_state=$1, rejected_reason=$2, submitted_at=NULL, submitted_by='', version=version+1
			 WHERE id=$3 AND workflow_state=$4`,
			string(ch.To), ch.Reason, id, string(ch.From))
	case ActionFreeze:
		res, err = tx.ExecContext(ctx,
			`UPDATE internal_marks SET workflow_state=$1, frozen_at=$2, frozen_by=$3, version=version+1
			 WHERE id=$4 AND workflow_state=$5`,
			string(ch.To), ch.At, ch.Actor, id, string(ch.From))
	case ActionPublish:
		res, err = tx.ExecContext(ctx,
			`UPDATE internal_marks SET workflow_state=$1, published_at=$2, version=version+1
			 WHERE id=$3 AND workflow_state=$4`,
			string(ch.To), ch.At, id, string(ch.From))
	default:
		return apperr.NewRuleViolation("unknown action %q", ch.Action)
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return s.missOrConflict(ctx, id, ch.From)
	}
	audit.MarkID = id
	if err := appendAudit(ctx, tx, audit); err != nil {
		return err
	}
	return tx.Commit()
}

// missOrConflict decides whether a zero-row guarded update means the mark
// is gone or was concurrently moved to another state.
func (s *SQLStore) missOrConflict(ctx context.Context, id int64, expect WorkflowState) error {
	var current string
	err := s.db.QueryRowContext(ctx, `SELECT workflow_state FROM internal_marks WHERE id=$1`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NewNotFound("internal mark", id)
	}
	if err != nil {
		return err
	}
	return apperr.NewConflict("mark %d is %s, expected %s (concurrent change)", id, current, expect)
}

func (s *SQLStore) ListInternalMarks(ctx context.Context, subjectID int64, componentType string) ([]InternalMark, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+internalMarkCols+` FROM internal_marks
		 WHERE subject_id=$1 AND ($2='' OR component_type=$2) ORDER BY student_id, component_type`,
		subjectID, componentType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []InternalMark
	for rows.Next() {
		m, err := scanInternalMark(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLStore) ListAudit(ctx context.Context, q AuditQuery) ([]MarkAuditEntry, error) {
	limit := q.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.id, a.batch_id, a.mark_table, a.mark_id, a.field_changed, a.old_value, a.new_value,
		        a.reason, a.change_type, a.changed_by, a.changed_at
		 FROM mark_audit_log a
		 WHERE ($1='' OR a.mark_table=$1)
		   AND ($2=0 OR a.mark_id=$2)
		   AND ($3='' OR a.changed_by=$3)
		   AND ($4=0 OR a.mark_id IN (
		         SELECT id FROM internal_marks WHERE student_id=$4
		         UNION SELECT id FROM question_marks WHERE student_id=$4))
		   AND ($5=0 OR (a.mark_table='question_marks' AND a.mark_id IN (
		         SELECT qm.id FROM question_marks qm
		         JOIN questions qq ON qq.id = qm.question_id
		         WHERE qq.exam_id=$5)))
		 ORDER BY a.id DESC LIMIT $6 OFFSET $7`,
		q.MarkTable, q.MarkID, q.ChangedBy, q.StudentID, q.ExamID, limit, q.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []MarkAuditEntry
	for rows.Next() {
		var e MarkAuditEntry
		if err := rows.Scan(&e.ID, &e.BatchID, &e.MarkTable, &e.MarkID, &e.FieldChanged, &e.OldValue,
			&e.NewValue, &e.Reason, &e.ChangeType, &e.ChangedBy, &e.ChangedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func appendAudit(ctx context.Context, tx *sql.Tx, e MarkAuditEntry) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO mark_audit_log (batch_id, mark_table, mark_id, field_changed, old_value, new_value, reason, change_type, changed_by, changed_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		e.BatchID, e.MarkTable, e.MarkID, e.FieldChanged, e.OldValue, e.NewValue,
		e.Reason, e.ChangeType, e.ChangedBy, e.ChangedAt)
	return err
}

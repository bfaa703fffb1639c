package outcome

import (
	"context"
	"database/sql"
	"errors"

	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/apperr"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) GetQuestion(ctx context.Context, id int64) (Question, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, exam_id, number, max_marks, section, difficulty FROM questions WHERE id=$1`, id)
	var q Question
	if err := row.Scan(&q.ID, &q.ExamID, &q.Number, &q.MaxMarks, &q.Section, &q.Difficulty); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Question{}, apperr.NewNotFound("question", id)
		}
		return Question{}, err
	}
	return q, nil
}

func (s *SQLStore) CreateQuestion(ctx context.Context, q Question) (Question, error) {
	// ensure exam exists
	var one int
	if err := s.db.QueryRowContext(ctx, `SELECT 1 FROM exams WHERE id=$1`, q.ExamID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Question{}, apperr.NewNotFound("exam", q.ExamID)
		}
		return Question{}, err
	}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO questions (exam_id, number, max_marks, section, difficulty)
		 VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		q.ExamID, q.Number, q.MaxMarks, q.Section, q.Difficulty).Scan(&q.ID)
	if err != nil {
		return Question{}, err
	}
	return q, nil
}

func (s *SQLStore) QuestionHasMarks(ctx context.Context, questionID int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM question_marks WHERE question_id=$1 LIMIT 1`, questionID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *SQLStore) UpdateQuestionMaxMarks(ctx context.Context, questionID int64, maxMarks float64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE questions SET max_marks=$1 WHERE id=$2`, maxMarks, questionID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NewNotFound("question", questionID)
	}
	return nil
}

func (s *SQLStore) GetCourseOutcome(ctx context.Context, id int64) (CourseOutcome, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, subject_id, code, title, target_attainment, l1_threshold, l2_threshold, l3_threshold
		 FROM course_outcomes WHERE id=$1`, id)
	var co CourseOutcome
	if err := row.Scan(&co.ID, &co.SubjectID, &co.Code, &co.Title, &co.TargetAttainment,
		&co.L1Threshold, &co.L2Threshold, &co.L3Threshold); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CourseOutcome{}, apperr.NewNotFound("course outcome", id)
		}
		return CourseOutcome{}, err
	}
	return co, nil
}

func (s *SQLStore) CreateCourseOutcome(ctx context.Context, co CourseOutcome) (CourseOutcome, error) {
	var one int
	if err := s.db.QueryRowContext(ctx, `SELECT 1 FROM subjects WHERE id=$1`, co.SubjectID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CourseOutcome{}, apperr.NewNotFound("subject", co.SubjectID)
		}
		return CourseOutcome{}, err
	}
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM course_outcomes WHERE subject_id=$1 AND code=$2`,
		co.SubjectID, co.Code).Scan(&one)
	if err == nil {
		return CourseOutcome{}, apperr.NewAlreadyExists("course outcome", co.Code)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return CourseOutcome{}, err
	}
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO course_outcomes (subject_id, code, title, target_attainment, l1_threshold, l2_threshold, l3_threshold)
		 VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id`,
		co.SubjectID, co.Code, co.Title, co.TargetAttainment,
		co.L1Threshold, co.L2Threshold, co.L3Threshold).Scan(&co.ID)
	if err != nil {
		return CourseOutcome{}, err
	}
	return co, nil
}

func (s *SQLStore) ListCourseOutcomes(ctx context.Context, subjectID int64) ([]CourseOutcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, subject_id, code, title, target_attainment, l1_threshold, l2_threshold, l3_threshold
		 FROM course_outcomes WHERE subject_id=$1 ORDER BY code`, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CourseOutcome
	for rows.Next() {
		var co CourseOutcome
		if err := rows.Scan(&co.ID, &co.SubjectID, &co.Code, &co.Title, &co.TargetAttainment,
			&co.L1Threshold, &co.L2Threshold, &co.L3Threshold); err != nil {
			return nil, err
		}
		out = append(out, co)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetProgramOutcome(ctx context.Context, id int64) (ProgramOutcome, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, department_id, code, title, po_type, target_attainment
		 FROM program_outcomes WHERE id=$1`, id)
	var po ProgramOutcome
	if err := row.Scan(&po.ID, &po.DepartmentID, &po.Code, &po.Title, &po.Type, &po.TargetAttainment); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ProgramOutcome{}, apperr.NewNotFound("program outcome", id)
		}
		return ProgramOutcome{}, err
	}
	return po, nil
}

func (s *SQLStore) CreateProgramOutcome(ctx context.Context, po ProgramOutcome) (ProgramOutcome, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM program_outcomes WHERE department_id=$1 AND code=$2`,
		po.DepartmentID, po.Code).Scan(&one)
	if err == nil {
		return ProgramOutcome{}, apperr.NewAlreadyExists("program outcome", po.Code)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return ProgramOutcome{}, err
	}
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO program_outcomes (department_id, code, title, po_type, target_attainment)
		 VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		po.DepartmentID, po.Code, po.Title, po.Type, po.TargetAttainment).Scan(&po.ID)
	if err != nil {
		return ProgramOutcome{}, err
	}
	return po, nil
}

func (s *SQLStore) ListProgramOutcomes(ctx context.Context, departmentID int64) ([]ProgramOutcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, department_id, code, title, po_type, target_attainment
		 FROM program_outcomes WHERE department_id=$1 ORDER BY code`, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ProgramOutcome
	for rows.Next() {
		var po ProgramOutcome
		if err := rows.Scan(&po.ID, &po.DepartmentID, &po.Code, &po.Title, &po.Type, &po.TargetAttainment); err != nil {
			return nil, err
		}
		out = append(out, po)
	}
	return out, rows.Err()
}

func (s *SQLStore) WeightsForQuestion(ctx context.Context, questionID int64) ([]QuestionCOWeight, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, question_id, co_id, weight_pct FROM question_co_weights WHERE question_id=$1`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []QuestionCOWeight
	for rows.Next() {
		var w QuestionCOWeight
		if err := rows.Scan(&w.ID, &w.QuestionID, &w.COID, &w.WeightPct); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (s *SQLStore) InsertQuestionCOWeight(ctx context.Context, w QuestionCOWeight) (QuestionCOWeight, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM question_co_weights WHERE question_id=$1 AND co_id=$2`,
		w.QuestionID, w.COID).Scan(&one)
	if err == nil {
		return QuestionCOWeight{}, apperr.NewAlreadyExists("question-CO weight", "use update instead")
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return QuestionCOWeight{}, err
	}
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO question_co_weights (question_id, co_id, weight_pct) VALUES ($1,$2,$3) RETURNING id`,
		w.QuestionID, w.COID, w.WeightPct).Scan(&w.ID)
	if err != nil {
		return QuestionCOWeight{}, err
	}
	return w, nil
}

func (s *SQLStore) UpdateQuestionCOWeight(ctx context.Context, questionID, coID int64, weightPct float64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE question_co_weights SET weight_pct=$1 WHERE question_id=$2 AND co_id=$3`,
		weightPct, questionID, coID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NewNotFound("question-CO weight", questionID)
	}
	return nil
}

func (s *SQLStore) MappingsForCO(ctx context.Context, coID int64) ([]COPOMapping, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, co_id, po_id, strength FROM co_po_mappings WHERE co_id=$1`, coID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []COPOMapping
	for rows.Next() {
		var m COPOMapping
		if err := rows.Scan(&m.ID, &m.COID, &m.POID, &m.Strength); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLStore) InsertCOPOMapping(ctx context.Context, m COPOMapping) (COPOMapping, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM co_po_mappings WHERE co_id=$1 AND po_id=$2`,
		m.COID, m.POID).Scan(&one)
	if err == nil {
		return COPOMapping{}, apperr.NewAlreadyExists("CO-PO mapping", "")
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return COPOMapping{}, err
	}
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO co_po_mappings (co_id, po_id, strength) VALUES ($1,$2,$3) RETURNING id`,
		m.COID, m.POID, m.Strength).Scan(&m.ID)
	if err != nil {
		return COPOMapping{}, err
	}
	return m, nil
}

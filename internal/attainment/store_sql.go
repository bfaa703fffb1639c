package attainment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/outcome"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) ListCourseOutcomes(ctx context.Context, subjectID int64) ([]outcome.CourseOutcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, subject_id, code, title, target_attainment, l1_threshold, l2_threshold, l3_threshold
		 FROM course_outcomes WHERE subject_id=$1 ORDER BY code`, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []outcome.CourseOutcome
	for rows.Next() {
		var co outcome.CourseOutcome
		if err := rows.Scan(&co.ID, &co.SubjectID, &co.Code, &co.Title, &co.TargetAttainment,
			&co.L1Threshold, &co.L2Threshold, &co.L3Threshold); err != nil {
			return nil, err
		}
		out = append(out, co)
	}
	return out, rows.Err()
}

func (s *SQLStore) WeightedQuestions(ctx context.Context, subjectID int64, examType string) ([]QuestionWeight, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT w.question_id, w.co_id, q.max_marks, w.weight_pct
		 FROM question_co_weights w
		 JOIN questions q ON q.id = w.question_id
		 JOIN exams e ON e.id = q.exam_id
		 WHERE e.subject_id=$1 AND ($2='' OR e.exam_type=$2)`, subjectID, examType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []QuestionWeight
	for rows.Next() {
		var w QuestionWeight
		if err := rows.Scan(&w.QuestionID, &w.COID, &w.MaxMarks, &w.WeightPct); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (s *SQLStore) StudentQuestionMarks(ctx context.Context, subjectID int64, examType string) ([]StudentMark, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT m.student_id, m.question_id, m.marks_obtained
		 FROM question_marks m
		 JOIN questions q ON q.id = m.question_id
		 JOIN exams e ON e.id = q.exam_id
		 WHERE e.subject_id=$1 AND ($2='' OR e.exam_type=$2)`, subjectID, examType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []StudentMark
	for rows.Next() {
		var m StudentMark
		if err := rows.Scan(&m.StudentID, &m.QuestionID, &m.Obtained); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLStore) ListProgramOutcomes(ctx context.Context, departmentID int64) ([]outcome.ProgramOutcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, department_id, code, title, po_type, target_attainment
		 FROM program_outcomes WHERE department_id=$1 ORDER BY code`, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []outcome.ProgramOutcome
	for rows.Next() {
		var po outcome.ProgramOutcome
		if err := rows.Scan(&po.ID, &po.DepartmentID, &po.Code, &po.Title, &po.Type, &po.TargetAttainment); err != nil {
			return nil, err
		}
		out = append(out, po)
	}
	return out, rows.Err()
}

func (s *SQLStore) SubjectsInScope(ctx context.Context, scope Scope) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM subjects
		 WHERE department_id=$1
		   AND ($2=0 OR id=$2)
		   AND ($3=0 OR semester_id=$3)
		   AND ($4='' OR academic_year=$4)
		 ORDER BY id`,
		scope.DepartmentID, scope.SubjectID, scope.SemesterID, scope.AcademicYear)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *SQLStore) COLinksForSubjects(ctx context.Context, subjectIDs []int64) ([]COLink, error) {
	if len(subjectIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(subjectIDs))
	args := make([]interface{}, len(subjectIDs))
	for i, id := range subjectIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT m.po_id, m.co_id, c.code, c.subject_id, m.strength
		 FROM co_po_mappings m
		 JOIN course_outcomes c ON c.id = m.co_id
		 WHERE c.subject_id IN (`+strings.Join(placeholders, ",")+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []COLink
	for rows.Next() {
		var l COLink
		if err := rows.Scan(&l.POID, &l.COID, &l.COCode, &l.SubjectID, &l.Strength); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *SQLStore) UpsertIndirect(ctx context.Context, e IndirectEntry) error {
	// Single statement so concurrent first writes cannot race into the
	// UNIQUE(po_id, academic_year, source) constraint. ON CONFLICT works on
	// both sqlite and postgres.
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO indirect_attainment (department_id, po_id, academic_year, source, pct)
		 VALUES ($1,$2,$3,$4,$5)
		 ON CONFLICT (po_id, academic_year, source)
		 DO UPDATE SET pct=excluded.pct, department_id=excluded.department_id`,
		e.DepartmentID, e.POID, e.AcademicYear, e.Source, e.Pct)
	return err
}

func (s *SQLStore) IndirectPct(ctx context.Context, poID int64, academicYear string) (*float64, error) {
	var avg sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT AVG(pct) FROM indirect_attainment
		 WHERE po_id=$1 AND ($2='' OR academic_year=$2)`, poID, academicYear).Scan(&avg)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !avg.Valid) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	v := avg.Float64
	return &v, nil
}

package grading

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

func (s *SQLStore) SubjectCaps(ctx context.Context, subjectID int64) (SubjectCaps, error) {
	var c SubjectCaps
	err := s.db.QueryRowContext(ctx,
		`SELECT id, semester_id, credits, max_internal, max_external
		 FROM subjects WHERE id=$1`, subjectID).
		Scan(&c.SubjectID, &c.SemesterID, &c.Credits, &c.MaxInternal, &c.MaxExternal)
	if errors.Is(err, sql.ErrNoRows) {
		return SubjectCaps{}, apperr.NewNotFound("subject", subjectID)
	}
	if err != nil {
		return SubjectCaps{}, err
	}
	return c, nil
}

func (s *SQLStore) InternalComponents(ctx context.Context, studentID, subjectID int64) ([]InternalComponent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT component_type, marks_obtained, workflow_state
		 FROM internal_marks WHERE student_id=$1 AND subject_id=$2
		 ORDER BY component_type`, studentID, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []InternalComponent
	for rows.Next() {
		var c InternalComponent
		if err := rows.Scan(&c.ComponentType, &c.Marks, &c.State); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLStore) ExternalMark(ctx context.Context, studentID, subjectID int64) (*float64, error) {
	var v float64
	err := s.db.QueryRowContext(ctx,
		`SELECT marks_obtained FROM external_marks
		 WHERE student_id=$1 AND subject_id=$2`, studentID, subjectID).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *SQLStore) GetFinalMark(ctx context.Context, studentID, subjectID int64) (*FinalMark, error) {
	var fm FinalMark
	err := s.db.QueryRowContext(ctx,
		`SELECT id, student_id, subject_id, semester_id, best_internal, external,
		        total, percentage, grade, grade_point, status
		 FROM final_marks WHERE student_id=$1 AND subject_id=$2`, studentID, subjectID).
		Scan(&fm.ID, &fm.StudentID, &fm.SubjectID, &fm.SemesterID, &fm.BestInternal,
			&fm.External, &fm.Total, &fm.Percentage, &fm.Grade, &fm.GradePoint, &fm.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &fm, nil
}

func (s *SQLStore) UpsertFinalMark(ctx context.Context, fm FinalMark) (FinalMark, error) {
	if fm.ID != 0 {
		_, err := s.db.ExecContext(ctx,
			`UPDATE final_marks
			 SET semester_id=$1, best_internal=$2, external=$3, total=$4,
			     percentage=$5, grade=$6, grade_point=$7, status=$8
			 WHERE id=$9`,
			fm.SemesterID, fm.BestInternal, fm.External, fm.Total,
			fm.Percentage, fm.Grade, fm.GradePoint, fm.Status, fm.ID)
		return fm, err
	}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO final_marks
		   (student_id, subject_id, semester_id, best_internal, external,
		    total, percentage, grade, grade_point, status)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10) RETURNING id`,
		fm.StudentID, fm.SubjectID, fm.SemesterID, fm.BestInternal, fm.External,
		fm.Total, fm.Percentage, fm.Grade, fm.GradePoint, fm.Status).Scan(&fm.ID)
	return fm, err
}

func (s *SQLStore) StudentsForSubject(ctx context.Context, subjectID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT student_id FROM internal_marks WHERE subject_id=$1
		 UNION SELECT student_id FROM external_marks WHERE subject_id=$1
		 ORDER BY 1`, subjectID)
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

func (s *SQLStore) SemesterRecords(ctx context.Context, studentID int64) ([]SemesterRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT f.subject_id, f.semester_id, s.credits, f.grade_point
		 FROM final_marks f
		 JOIN subjects s ON s.id = f.subject_id
		 WHERE f.student_id=$1
		 ORDER BY f.semester_id, f.subject_id`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SemesterRecord
	for rows.Next() {
		var r SemesterRecord
		if err := rows.Scan(&r.SubjectID, &r.SemesterID, &r.Credits, &r.GradePoint); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

package grading

import "context"

// InternalComponent is one internal-assessment row as the recompute reads it.
type InternalComponent struct {
	ComponentType string
	Marks         float64
	State         string
}

// Store is the persistence surface the grade calculator needs. The SQL
// implementation lives in store_sql.go; tests substitute a fake.
type Store interface {
	SubjectCaps(ctx context.Context, subjectID int64) (SubjectCaps, error)
	InternalComponents(ctx context.Context, studentID, subjectID int64) ([]InternalComponent, error)
	ExternalMark(ctx context.Context, studentID, subjectID int64) (*float64, error)

	GetFinalMark(ctx context.Context, studentID, subjectID int64) (*FinalMark, error)
	UpsertFinalMark(ctx context.Context, fm FinalMark) (FinalMark, error)

	StudentsForSubject(ctx context.Context, subjectID int64) ([]int64, error)
	SemesterRecords(ctx context.Context, studentID int64) ([]SemesterRecord, error)
}

package attainment

import (
	"context"

	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/outcome"
)

// Store is the read side of the attainment calculators: explicit edge-list
// queries, no lazy relationship traversal.
type Store interface {
	ListCourseOutcomes(ctx context.Context, subjectID int64) ([]outcome.CourseOutcome, error)
	// WeightedQuestions returns the Question→CO edges for a subject,
	// optionally narrowed to one exam type ("" = all).
	WeightedQuestions(ctx context.Context, subjectID int64, examType string) ([]QuestionWeight, error)
	// StudentQuestionMarks returns raw marks on the in-scope questions.
	StudentQuestionMarks(ctx context.Context, subjectID int64, examType string) ([]StudentMark, error)

	ListProgramOutcomes(ctx context.Context, departmentID int64) ([]outcome.ProgramOutcome, error)
	SubjectsInScope(ctx context.Context, scope Scope) ([]int64, error)
	COLinksForSubjects(ctx context.Context, subjectIDs []int64) ([]COLink, error)

	// IndirectPct averages the recorded indirect sources for a PO and
	// academic year; nil when nothing is recorded.
	IndirectPct(ctx context.Context, poID int64, academicYear string) (*float64, error)
	// UpsertIndirect replaces the figure for (po, year, source).
	UpsertIndirect(ctx context.Context, e IndirectEntry) error
}

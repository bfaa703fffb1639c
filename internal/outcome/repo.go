package outcome

import "context"

// Store is the persistence collaborator for the outcome graph. It does
// plain reads/writes; invariants live in Service.
type Store interface {
	GetQuestion(ctx context.Context, id int64) (Question, error)
	CreateQuestion(ctx context.Context, q Question) (Question, error)
	QuestionHasMarks(ctx context.Context, questionID int64) (bool, error)
	UpdateQuestionMaxMarks(ctx context.Context, questionID int64, maxMarks float64) error

	GetCourseOutcome(ctx context.Context, id int64) (CourseOutcome, error)
	CreateCourseOutcome(ctx context.Context, co CourseOutcome) (CourseOutcome, error)
	ListCourseOutcomes(ctx context.Context, subjectID int64) ([]CourseOutcome, error)

	GetProgramOutcome(ctx context.Context, id int64) (ProgramOutcome, error)
	CreateProgramOutcome(ctx context.Context, po ProgramOutcome) (ProgramOutcome, error)
	ListProgramOutcomes(ctx context.Context, departmentID int64) ([]ProgramOutcome, error)

	WeightsForQuestion(ctx context.Context, questionID int64) ([]QuestionCOWeight, error)
	InsertQuestionCOWeight(ctx context.Context, w QuestionCOWeight) (QuestionCOWeight, error)
	UpdateQuestionCOWeight(ctx context.Context, questionID, coID int64, weightPct float64) error

	MappingsForCO(ctx context.Context, coID int64) ([]COPOMapping, error)
	InsertCOPOMapping(ctx context.Context, m COPOMapping) (COPOMapping, error)
}

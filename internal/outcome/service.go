package outcome

import (
	"context"

	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/apperr"
)

// Service enforces the outcome-graph invariants on top of a Store.
type Service struct {
	store Store
}

func NewService(store Store) *Service { return &Service{store: store} }

// AddQuestionCOWeight links a question to a CO with a contribution weight.
// A question's weights may sum to less than 100 (uncovered material) but an
// edge that would push the sum over 100 is rejected.
func (s *Service) AddQuestionCOWeight(ctx context.Context, questionID, coID int64, weightPct float64) (QuestionCOWeight, error) {
	if weightPct <= 0 || weightPct > 100 {
		return QuestionCOWeight{}, apperr.NewValidation("weight_pct must be in (0,100]",
			apperr.FieldError{Field: "weight_pct", Error: "out of range"})
	}
	if _, err := s.store.GetQuestion(ctx, questionID); err != nil {
		return QuestionCOWeight{}, err
	}
	if _, err := s.store.GetCourseOutcome(ctx, coID); err != nil {
		return QuestionCOWeight{}, err
	}
	existing, err := s.store.WeightsForQuestion(ctx, questionID)
	if err != nil {
		return QuestionCOWeight{}, err
	}
	sum := weightPct
	for _, w := range existing {
		sum += w.WeightPct
	}
	if sum > 100 {
		return QuestionCOWeight{}, apperr.NewRuleViolation(
			"question %d CO weights would total %.1f%%, exceeding 100%%", questionID, sum)
	}
	return s.store.InsertQuestionCOWeight(ctx, QuestionCOWeight{
		QuestionID: questionID, COID: coID, WeightPct: weightPct,
	})
}

// UpdateQuestionCOWeight changes the weight of an existing edge, keeping
// the per-question 100% cap.
func (s *Service) UpdateQuestionCOWeight(ctx context.Context, questionID, coID int64, weightPct float64) error {
	if weightPct <= 0 || weightPct > 100 {
		return apperr.NewValidation("weight_pct must be in (0,100]",
			apperr.FieldError{Field: "weight_pct", Error: "out of range"})
	}
	existing, err := s.store.WeightsForQuestion(ctx, questionID)
	if err != nil {
		return err
	}
	sum := weightPct
	for _, w := range existing {
		if w.COID != coID {
			sum += w.WeightPct
		}
	}
	if sum > 100 {
		return apperr.NewRuleViolation(
			"question %d CO weights would total %.1f%%, exceeding 100%%", questionID, sum)
	}
	return s.store.UpdateQuestionCOWeight(ctx, questionID, coID, weightPct)
}

// AddCOPOMapping links a CO to a PO with strength 1 (low) to 3 (high).
func (s *Service) AddCOPOMapping(ctx context.Context, coID, poID int64, strength int) (COPOMapping, error) {
	if strength < 1 || strength > 3 {
		return COPOMapping{}, apperr.NewValidation("strength must be 1, 2 or 3",
			apperr.FieldError{Field: "strength", Error: "out of range"})
	}
	if _, err := s.store.GetCourseOutcome(ctx, coID); err != nil {
		return COPOMapping{}, err
	}
	if _, err := s.store.GetProgramOutcome(ctx, poID); err != nil {
		return COPOMapping{}, err
	}
	return s.store.InsertCOPOMapping(ctx, COPOMapping{COID: coID, POID: poID, Strength: strength})
}

func (s *Service) CreateQuestion(ctx context.Context, q Question) (Question, error) {
	if q.MaxMarks <= 0 {
		return Question{}, apperr.NewValidation("max_marks must be positive",
			apperr.FieldError{Field: "max_marks", Error: "must be > 0"})
	}
	return s.store.CreateQuestion(ctx, q)
}

// UpdateQuestionMaxMarks resizes a question. Questions with marks recorded
// against them are immutable: resizing would silently change every derived
// percentage.
func (s *Service) UpdateQuestionMaxMarks(ctx context.Context, questionID int64, maxMarks float64) error {
	if maxMarks <= 0 {
		return apperr.NewValidation("max_marks must be positive",
			apperr.FieldError{Field: "max_marks", Error: "must be > 0"})
	}
	if _, err := s.store.GetQuestion(ctx, questionID); err != nil {
		return err
	}
	marked, err := s.store.QuestionHasMarks(ctx, questionID)
	if err != nil {
		return err
	}
	if marked {
		return apperr.NewRuleViolation("question %d has marks recorded and cannot be resized", questionID)
	}
	return s.store.UpdateQuestionMaxMarks(ctx, questionID, maxMarks)
}

func (s *Service) CreateCourseOutcome(ctx context.Context, co CourseOutcome) (CourseOutcome, error) {
	if err := validateThresholds(co); err != nil {
		return CourseOutcome{}, err
	}
	return s.store.CreateCourseOutcome(ctx, co)
}

func (s *Service) CreateProgramOutcome(ctx context.Context, po ProgramOutcome) (ProgramOutcome, error) {
	if po.Type != "PO" && po.Type != "PSO" {
		return ProgramOutcome{}, apperr.NewValidation("po_type must be PO or PSO",
			apperr.FieldError{Field: "po_type", Error: "unknown type"})
	}
	if po.TargetAttainment < 0 || po.TargetAttainment > 100 {
		return ProgramOutcome{}, apperr.NewValidation("target_attainment must be in [0,100]",
			apperr.FieldError{Field: "target_attainment", Error: "out of range"})
	}
	return s.store.CreateProgramOutcome(ctx, po)
}

func (s *Service) ListCourseOutcomes(ctx context.Context, subjectID int64) ([]CourseOutcome, error) {
	return s.store.ListCourseOutcomes(ctx, subjectID)
}

func (s *Service) ListProgramOutcomes(ctx context.Context, departmentID int64) ([]ProgramOutcome, error) {
	return s.store.ListProgramOutcomes(ctx, departmentID)
}

func validateThresholds(co CourseOutcome) error {
	vals := []float64{co.L1Threshold, co.L2Threshold, co.L3Threshold, co.TargetAttainment}
	for _, v := range vals {
		if v < 0 || v > 100 {
			return apperr.NewRuleViolation("CO thresholds and target must be in [0,100]")
		}
	}
	if !(co.L1Threshold < co.L2Threshold && co.L2Threshold < co.L3Threshold) {
		return apperr.NewRuleViolation("CO thresholds must be strictly increasing: l1 < l2 < l3")
	}
	return nil
}

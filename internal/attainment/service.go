package attainment

import (
	"context"

	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/apperr"
)

var indirectSources = map[string]bool{
	"graduate_survey": true,
	"employer_survey": true,
	"exit_exam":       true,
}

// Service wires the pure calculators to the read store. Every method is a
// pure function of the data read for that invocation; it is safe to call
// inline on publish or from a queued job.
type Service struct {
	store Store
	blend BlendWeights
}

func NewService(store Store, blend BlendWeights) *Service {
	return &Service{store: store, blend: blend}
}

// SubjectCOAttainment computes per-CO attainment for one subject,
// optionally scoped to one exam type ("" = all exams).
func (s *Service) SubjectCOAttainment(ctx context.Context, subjectID int64, examType string) ([]COResult, error) {
	cos, err := s.store.ListCourseOutcomes(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	weights, err := s.store.WeightedQuestions(ctx, subjectID, examType)
	if err != nil {
		return nil, err
	}
	studentMarks, err := s.store.StudentQuestionMarks(ctx, subjectID, examType)
	if err != nil {
		return nil, err
	}
	return ComputeCOAttainment(cos, weights, studentMarks), nil
}

// POAttainment rolls CO attainment up to POs for the requested scope.
func (s *Service) POAttainment(ctx context.Context, scope Scope) ([]POResult, error) {
	pos, err := s.store.ListProgramOutcomes(ctx, scope.DepartmentID)
	if err != nil {
		return nil, err
	}
	subjects, err := s.store.SubjectsInScope(ctx, scope)
	if err != nil {
		return nil, err
	}

	coAttained := map[int64]float64{}
	for _, subjectID := range subjects {
		results, err := s.SubjectCOAttainment(ctx, subjectID, scope.ExamType)
		if err != nil {
			return nil, err
		}
		for _, r := range results {
			if r.Status != StatusNoData {
				coAttained[r.COID] = r.AttainedPct
			}
		}
	}

	links, err := s.store.COLinksForSubjects(ctx, subjects)
	if err != nil {
		return nil, err
	}
	return AggregatePO(pos, links, coAttained), nil
}

// RecordIndirect stores one survey/exit-exam figure. The percentage is an
// opaque number from the survey subsystem; only range and source are checked.
func (s *Service) RecordIndirect(ctx context.Context, e IndirectEntry) error {
	if e.Pct < 0 || e.Pct > 100 {
		return apperr.NewValidation("pct must be in [0,100]",
			apperr.FieldError{Field: "pct", Error: "out of range"})
	}
	if !indirectSources[e.Source] {
		return apperr.NewValidation("unknown indirect source: "+e.Source,
			apperr.FieldError{Field: "source", Error: "unknown"})
	}
	return s.store.UpsertIndirect(ctx, e)
}

// CombinedPOAttainment blends direct PO attainment with recorded indirect
// attainment (surveys, exit exams) for the scope's academic year.
func (s *Service) CombinedPOAttainment(ctx context.Context, scope Scope) ([]BlendedPOResult, error) {
	direct, err := s.POAttainment(ctx, scope)
	if err != nil {
		return nil, err
	}
	out := make([]BlendedPOResult, 0, len(direct))
	for _, d := range direct {
		indirect, err := s.store.IndirectPct(ctx, d.POID, scope.AcademicYear)
		if err != nil {
			return nil, err
		}
		out = append(out, BlendPO(d, indirect, s.blend))
	}
	return out, nil
}

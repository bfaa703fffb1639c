package grading

import (
	"context"

	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/apperr"
	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/config"
)

const (
	StatusEditable = "editable"
	StatusLocked   = "locked"
)

type Service struct {
	store  Store
	policy config.AcademicPolicy
}

func NewService(store Store, policy config.AcademicPolicy) *Service {
	return &Service{store: store, policy: policy}
}

// RecomputeFinalMark rederives the final-mark snapshot for one student in
// one subject from whatever internal and external marks exist. Running it
// again with unchanged inputs writes identical values. A locked snapshot is
// never overwritten.
func (s *Service) RecomputeFinalMark(ctx context.Context, studentID, subjectID int64) (FinalMark, error) {
	existing, err := s.store.GetFinalMark(ctx, studentID, subjectID)
	if err != nil {
		return FinalMark{}, err
	}
	if existing != nil && existing.Status == StatusLocked {
		return FinalMark{}, apperr.NewRuleViolation(
			"final mark for student %d subject %d is locked", studentID, subjectID)
	}

	caps, err := s.store.SubjectCaps(ctx, subjectID)
	if err != nil {
		return FinalMark{}, err
	}
	components, err := s.store.InternalComponents(ctx, studentID, subjectID)
	if err != nil {
		return FinalMark{}, err
	}

	var i1, i2 float64
	for _, c := range components {
		switch c.ComponentType {
		case "ia1":
			i1 = c.Marks
		case "ia2":
			i2 = c.Marks
		}
	}
	bi := s.policy.BestInternal
	best, err := BestInternal(bi.Method, i1, i2, bi.Weight1, bi.Weight2)
	if err != nil {
		return FinalMark{}, err
	}

	var external float64
	if ext, err := s.store.ExternalMark(ctx, studentID, subjectID); err != nil {
		return FinalMark{}, err
	} else if ext != nil {
		external = *ext
	}

	total := best + external
	pct := Percentage(total, caps.MaxInternal, caps.MaxExternal)
	grade, point := GradeFor(pct, s.policy.GradeBands)

	fm := FinalMark{
		StudentID:    studentID,
		SubjectID:    subjectID,
		SemesterID:   caps.SemesterID,
		BestInternal: best,
		External:     external,
		Total:        total,
		Percentage:   pct,
		Grade:        grade,
		GradePoint:   point,
		Status:       StatusEditable,
	}
	if existing != nil {
		fm.ID = existing.ID
	}
	fm, err = s.store.UpsertFinalMark(ctx, fm)
	if err != nil {
		return FinalMark{}, err
	}
	if err := s.attachGPA(ctx, &fm); err != nil {
		return FinalMark{}, err
	}
	return fm, nil
}

// attachGPA fills the derived sgpa/cgpa figures on a snapshot from the
// student's graded record. SGPA covers the snapshot's semester, CGPA
// everything on record.
func (s *Service) attachGPA(ctx context.Context, fm *FinalMark) error {
	records, err := s.store.SemesterRecords(ctx, fm.StudentID)
	if err != nil {
		return err
	}
	sem := records[:0:0]
	for _, r := range records {
		if r.SemesterID == fm.SemesterID {
			sem = append(sem, r)
		}
	}
	fm.SGPA = SGPA(sem).Value
	fm.CGPA = CGPA(records, nil).Value
	return nil
}

// RecomputeSubject rederives final marks for every student with marks in the
// subject. Individual failures do not stop the batch.
func (s *Service) RecomputeSubject(ctx context.Context, subjectID int64) ([]FinalMark, []RecomputeItemError, error) {
	students, err := s.store.StudentsForSubject(ctx, subjectID)
	if err != nil {
		return nil, nil, err
	}
	var done []FinalMark
	var failed []RecomputeItemError
	for _, studentID := range students {
		fm, err := s.RecomputeFinalMark(ctx, studentID, subjectID)
		if err != nil {
			failed = append(failed, RecomputeItemError{StudentID: studentID, Err: err.Error()})
			continue
		}
		done = append(done, fm)
	}
	return done, failed, nil
}

// StudentSGPA computes the credit-weighted average for one semester.
func (s *Service) StudentSGPA(ctx context.Context, studentID, semesterID int64) (GPAResult, error) {
	records, err := s.store.SemesterRecords(ctx, studentID)
	if err != nil {
		return GPAResult{}, err
	}
	one := records[:0:0]
	for _, r := range records {
		if r.SemesterID == semesterID {
			one = append(one, r)
		}
	}
	return SGPA(one), nil
}

// StudentCGPA computes the cumulative average, optionally cut off at a
// semester (nil means everything on record).
func (s *Service) StudentCGPA(ctx context.Context, studentID int64, upToSemester *int64) (GPAResult, error) {
	records, err := s.store.SemesterRecords(ctx, studentID)
	if err != nil {
		return GPAResult{}, err
	}
	return CGPA(records, upToSemester), nil
}

// FinalMark returns the stored snapshot for one student in one subject.
func (s *Service) FinalMark(ctx context.Context, studentID, subjectID int64) (FinalMark, error) {
	fm, err := s.store.GetFinalMark(ctx, studentID, subjectID)
	if err != nil {
		return FinalMark{}, err
	}
	if fm == nil {
		return FinalMark{}, apperr.NewNotFound("final mark", 0)
	}
	if err := s.attachGPA(ctx, fm); err != nil {
		return FinalMark{}, err
	}
	return *fm, nil
}

// LockFinalMark flips the snapshot to locked so later recomputes are
// rejected.
func (s *Service) LockFinalMark(ctx context.Context, studentID, subjectID int64) (FinalMark, error) {
	existing, err := s.store.GetFinalMark(ctx, studentID, subjectID)
	if err != nil {
		return FinalMark{}, err
	}
	if existing == nil {
		return FinalMark{}, apperr.NewNotFound("final mark", 0)
	}
	existing.Status = StatusLocked
	fm, err := s.store.UpsertFinalMark(ctx, *existing)
	if err != nil {
		return FinalMark{}, err
	}
	if err := s.attachGPA(ctx, &fm); err != nil {
		return FinalMark{}, err
	}
	return fm, nil
}

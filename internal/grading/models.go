package grading

// FinalMark is the derived per-(student, subject) snapshot. It is recomputed
// from internal and external marks whenever its inputs change; status "locked"
// stops further recomputation.
type FinalMark struct {
	ID           int64   `json:"id"`
	StudentID    int64   `json:"student_id"`
	SubjectID    int64   `json:"subject_id"`
	SemesterID   int64   `json:"semester_id"`
	BestInternal float64 `json:"best_internal"`
	External     float64 `json:"external"`
	Total        float64 `json:"total"`
	Percentage   float64 `json:"percentage"`
	Grade        string  `json:"grade"`
	GradePoint   float64 `json:"grade_point"`
	Status       string  `json:"status"` // editable|locked

	// SGPA and CGPA are derived from the student's full graded record when
	// the snapshot is computed or read; they are not persisted columns.
	SGPA float64 `json:"sgpa"`
	CGPA float64 `json:"cgpa"`
}

// SubjectCaps carries the per-subject mark ceilings and credit weight that
// turn raw marks into a percentage and a GPA contribution.
type SubjectCaps struct {
	SubjectID   int64
	SemesterID  int64
	Credits     float64
	MaxInternal float64
	MaxExternal float64
}

// SemesterRecord is one graded subject as SGPA/CGPA see it.
type SemesterRecord struct {
	SubjectID  int64   `json:"subject_id"`
	SemesterID int64   `json:"semester_id"`
	Credits    float64 `json:"credits"`
	GradePoint float64 `json:"grade_point"`
}

// GPAResult reports a computed SGPA or CGPA together with the credits it
// covers, so callers can tell a real 0.0 from an empty record set.
type GPAResult struct {
	Value        float64 `json:"value"`
	TotalCredits float64 `json:"total_credits"`
	Subjects     int     `json:"subjects"`
}

// RecomputeItemError is one failed student in a batch recompute; the rest of
// the batch proceeds.
type RecomputeItemError struct {
	StudentID int64  `json:"student_id"`
	Err       string `json:"error"`
}

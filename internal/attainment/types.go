package attainment

// Status of an outcome against its target.
const (
	StatusAchieved = "achieved"
	StatusGap      = "gap"
	StatusNoData   = "no_data"
)

// COResult is the per-CO attainment record for one subject/exam scope.
type COResult struct {
	COID        int64   `json:"co_id"`
	Code        string  `json:"code"`
	Title       string  `json:"title,omitempty"`
	AttainedPct float64 `json:"attained_pct"`
	TargetPct   float64 `json:"target_pct"`
	Level       int     `json:"level"` // 0..3 against the CO's own thresholds
	Status      string  `json:"status"`
	Gap         float64 `json:"gap,omitempty"`
}

// COContribution is one CO's share of a PO's weighted average.
type COContribution struct {
	COID        int64   `json:"co_id"`
	Code        string  `json:"code"`
	SubjectID   int64   `json:"subject_id"`
	AttainedPct float64 `json:"attained_pct"`
	Strength    int     `json:"strength"`
	// AttainedPct × Strength / ΣStrength: the CO's actual share of the
	// PO figure.
	WeightedContribution float64 `json:"weighted_contribution"`
}

// POResult is the per-PO attainment record. AttainedPct is nil (never
// zero) when no CO contributes: zero would read as measured failure.
type POResult struct {
	POID            int64            `json:"po_id"`
	Code            string           `json:"code"`
	Title           string           `json:"title,omitempty"`
	Type            string           `json:"po_type"`
	AttainedPct     *float64         `json:"attained_pct"`
	TargetPct       float64          `json:"target_pct"`
	ContributingCOs []COContribution `json:"contributing_cos"`
	TotalCOs        int              `json:"total_cos"`
	Attained        *bool            `json:"attained"`
	Status          string           `json:"status"`
}

// BlendedPOResult is a PO result after merging direct (exam-derived) and
// indirect (survey/exit-exam) attainment.
type BlendedPOResult struct {
	POResult
	DirectPct   *float64 `json:"direct_pct"`
	IndirectPct *float64 `json:"indirect_pct"`
}

// IndirectEntry is one survey or exit-exam attainment figure for a PO,
// ingested from the assessment office. One row per (po, year, source).
type IndirectEntry struct {
	DepartmentID int64   `json:"department_id"`
	POID         int64   `json:"po_id"`
	AcademicYear string  `json:"academic_year"`
	Source       string  `json:"source"` // graduate_survey|employer_survey|exit_exam
	Pct          float64 `json:"pct"`
}

// Scope filters which subjects feed a PO aggregation.
type Scope struct {
	DepartmentID int64
	SubjectID    int64  // 0 = all subjects in department
	SemesterID   int64  // 0 = all semesters
	AcademicYear string // "" = all years
	ExamType     string // "" = all exam types
}

// QuestionWeight is one Question→CO edge joined with the question's max
// marks, as read for a subject/exam scope.
type QuestionWeight struct {
	QuestionID int64
	COID       int64
	MaxMarks   float64
	WeightPct  float64
}

// StudentMark is one student's raw score on one in-scope question.
type StudentMark struct {
	StudentID  int64
	QuestionID int64
	Obtained   float64
}

// COLink is a CO→PO edge joined with the CO's subject, for PO rollup.
type COLink struct {
	POID      int64
	COID      int64
	COCode    string
	SubjectID int64
	Strength  int
}

package outcome

// Question belongs to an exam. Immutable once marks exist against it.
type Question struct {
	ID         int64   `json:"id"`
	ExamID     int64   `json:"exam_id"`
	Number     string  `json:"number"` // display label: 1a, 2b, ...
	MaxMarks   float64 `json:"max_marks"`
	Section    string  `json:"section,omitempty"`
	Difficulty string  `json:"difficulty,omitempty"` // easy|medium|hard
}

// CourseOutcome is a measurable learning objective of one subject.
// Thresholds classify the class-average attainment into levels 0-3 and
// must be strictly increasing within [0,100].
type CourseOutcome struct {
	ID               int64   `json:"id"`
	SubjectID        int64   `json:"subject_id"`
	Code             string  `json:"code"`
	Title            string  `json:"title,omitempty"`
	TargetAttainment float64 `json:"target_attainment"`
	L1Threshold      float64 `json:"l1_threshold"`
	L2Threshold      float64 `json:"l2_threshold"`
	L3Threshold      float64 `json:"l3_threshold"`
}

// ProgramOutcome is a department-level graduate competency.
type ProgramOutcome struct {
	ID               int64   `json:"id"`
	DepartmentID     int64   `json:"department_id"`
	Code             string  `json:"code"`
	Title            string  `json:"title,omitempty"`
	Type             string  `json:"po_type"` // PO|PSO
	TargetAttainment float64 `json:"target_attainment"`
}

// QuestionCOWeight is the Question→CO edge. WeightPct is in (0,100];
// the weights of one question across all its COs may not exceed 100.
type QuestionCOWeight struct {
	ID         int64   `json:"id"`
	QuestionID int64   `json:"question_id"`
	COID       int64   `json:"co_id"`
	WeightPct  float64 `json:"weight_pct"`
}

// COPOMapping is the CO→PO edge. Strength 1=Low 2=Medium 3=High.
type COPOMapping struct {
	ID       int64 `json:"id"`
	COID     int64 `json:"co_id"`
	POID     int64 `json:"po_id"`
	Strength int   `json:"strength"`
}

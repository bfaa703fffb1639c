package attainment

import (
	"math"
	"testing"

	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/outcome"
)

func co1() outcome.CourseOutcome {
	return outcome.CourseOutcome{
		ID: 1, SubjectID: 1, Code: "CO1", Title: "Fundamentals",
		TargetAttainment: 70, L1Threshold: 60, L2Threshold: 70, L3Threshold: 80,
	}
}

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestComputeCOAttainment_SingleQuestionFullWeight(t *testing.T) {
	// Q1 max 10, mapped 100% to CO1; one student scores 8 → 80%, level 3.
	cos := []outcome.CourseOutcome{co1()}
	weights := []QuestionWeight{{QuestionID: 1, COID: 1, MaxMarks: 10, WeightPct: 100}}
	marks := []StudentMark{{StudentID: 100, QuestionID: 1, Obtained: 8}}

	res := ComputeCOAttainment(cos, weights, marks)
	if len(res) != 1 {
		t.Fatalf("got %d results", len(res))
	}
	r := res[0]
	if !almostEqual(r.AttainedPct, 80) {
		t.Fatalf("attained = %v, want 80", r.AttainedPct)
	}
	if r.Level != 3 {
		t.Fatalf("level = %d, want 3", r.Level)
	}
	if r.Status != StatusAchieved {
		t.Fatalf("status = %s, want achieved", r.Status)
	}
}

func TestComputeCOAttainment_AveragesAcrossStudents(t *testing.T) {
	cos := []outcome.CourseOutcome{co1()}
	weights := []QuestionWeight{{QuestionID: 1, COID: 1, MaxMarks: 10, WeightPct: 100}}
	marks := []StudentMark{
		{StudentID: 100, QuestionID: 1, Obtained: 10}, // 100%
		{StudentID: 101, QuestionID: 1, Obtained: 4},  // 40%
	}

	r := ComputeCOAttainment(cos, weights, marks)[0]
	if !almostEqual(r.AttainedPct, 70) {
		t.Fatalf("attained = %v, want 70", r.AttainedPct)
	}
	if r.Level != 2 {
		t.Fatalf("level = %d, want 2", r.Level)
	}
	if r.Status != StatusAchieved {
		t.Fatalf("status = %s, want achieved (target 70)", r.Status)
	}
}

func TestComputeCOAttainment_PartialWeights(t *testing.T) {
	// Q1 (max 10) counts 60% toward CO1, Q2 (max 20) counts 40%.
	cos := []outcome.CourseOutcome{co1()}
	weights := []QuestionWeight{
		{QuestionID: 1, COID: 1, MaxMarks: 10, WeightPct: 60},
		{QuestionID: 2, COID: 1, MaxMarks: 20, WeightPct: 40},
	}
	marks := []StudentMark{
		{StudentID: 100, QuestionID: 1, Obtained: 5},
		{StudentID: 100, QuestionID: 2, Obtained: 10},
	}

	// num = 5*0.6 + 10*0.4 = 7 ; denom = 10*0.6 + 20*0.4 = 14 → 50%
	r := ComputeCOAttainment(cos, weights, marks)[0]
	if !almostEqual(r.AttainedPct, 50) {
		t.Fatalf("attained = %v, want 50", r.AttainedPct)
	}
	if r.Level != 0 {
		t.Fatalf("level = %d, want 0", r.Level)
	}
	if r.Status != StatusGap || !almostEqual(r.Gap, 20) {
		t.Fatalf("status=%s gap=%v, want gap 20", r.Status, r.Gap)
	}
}

func TestComputeCOAttainment_UnansweredCountsAsZero(t *testing.T) {
	cos := []outcome.CourseOutcome{co1()}
	weights := []QuestionWeight{
		{QuestionID: 1, COID: 1, MaxMarks: 10, WeightPct: 50},
		{QuestionID: 2, COID: 1, MaxMarks: 10, WeightPct: 50},
	}
	// student attempted the exam but skipped Q2
	marks := []StudentMark{{StudentID: 100, QuestionID: 1, Obtained: 10}}

	r := ComputeCOAttainment(cos, weights, marks)[0]
	if !almostEqual(r.AttainedPct, 50) {
		t.Fatalf("attained = %v, want 50 (skipped question scores zero)", r.AttainedPct)
	}
}

func TestComputeCOAttainment_NoData(t *testing.T) {
	unmapped := co1()
	unmapped.ID = 2
	unmapped.Code = "CO2"
	cos := []outcome.CourseOutcome{co1(), unmapped}
	weights := []QuestionWeight{{QuestionID: 1, COID: 1, MaxMarks: 10, WeightPct: 100}}
	marks := []StudentMark{{StudentID: 100, QuestionID: 1, Obtained: 8}}

	res := ComputeCOAttainment(cos, weights, marks)
	if len(res) != 2 {
		t.Fatalf("got %d results", len(res))
	}
	// sorted by code: CO1 then CO2
	if res[1].Status != StatusNoData {
		t.Fatalf("unmapped CO status = %s, want no_data", res[1].Status)
	}
	if res[1].AttainedPct != 0 || res[1].Level != 0 {
		t.Fatalf("no_data CO should carry no numbers: %+v", res[1])
	}

	// no students at all → every CO is no_data, never a division by zero
	res = ComputeCOAttainment(cos, weights, nil)
	for _, r := range res {
		if r.Status != StatusNoData {
			t.Fatalf("CO %s with no marks: status %s, want no_data", r.Code, r.Status)
		}
	}
}

func TestComputeCOAttainment_BoundsAndLevelMonotonic(t *testing.T) {
	co := co1()
	scores := []float64{0, 3, 5.9, 6, 6.9, 7, 7.9, 8, 10}
	prevLevel := -1
	for _, sc := range scores {
		res := ComputeCOAttainment(
			[]outcome.CourseOutcome{co},
			[]QuestionWeight{{QuestionID: 1, COID: 1, MaxMarks: 10, WeightPct: 100}},
			[]StudentMark{{StudentID: 1, QuestionID: 1, Obtained: sc}},
		)[0]
		if res.AttainedPct < 0 || res.AttainedPct > 100 {
			t.Fatalf("attained %v out of [0,100]", res.AttainedPct)
		}
		if res.Level < 0 || res.Level > 3 {
			t.Fatalf("level %d out of range", res.Level)
		}
		if res.Level < prevLevel {
			t.Fatalf("level decreased as attainment rose: %d after %d", res.Level, prevLevel)
		}
		prevLevel = res.Level
	}
}

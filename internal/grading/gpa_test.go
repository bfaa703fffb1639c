package grading

import (
	"math"
	"testing"

	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/apperr"
	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/config"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestBestInternal(t *testing.T) {
	got, err := BestInternal("best", 35, 38, 0, 0)
	if err != nil || got != 38 {
		t.Fatalf("best(35,38) = %v, %v; want 38", got, err)
	}
	got, err = BestInternal("avg", 35, 38, 0, 0)
	if err != nil || !almostEqual(got, 36.5) {
		t.Fatalf("avg(35,38) = %v, %v; want 36.5", got, err)
	}
	got, err = BestInternal("weighted", 40, 20, 0.75, 0.25)
	if err != nil || !almostEqual(got, 35) {
		t.Fatalf("weighted(40,20,0.75,0.25) = %v, %v; want 35", got, err)
	}
	// zero weights fall back to an even split
	got, err = BestInternal("weighted", 30, 40, 0, 0)
	if err != nil || !almostEqual(got, 35) {
		t.Fatalf("weighted default = %v, %v; want 35", got, err)
	}
	if _, err = BestInternal("median", 1, 2, 0, 0); !apperr.IsValidation(err) {
		t.Fatalf("unknown method: got %v, want ValidationError", err)
	}
}

func TestGradeFor(t *testing.T) {
	bands := config.DefaultPolicy().GradeBands
	cases := []struct {
		pct   float64
		grade string
		point float64
	}{
		{95, "A+", 10},
		{90, "A+", 10},
		{89.99, "A", 9},
		{70, "B+", 8},
		{39.99, "F", 0},
		{0, "F", 0},
	}
	for _, c := range cases {
		g, p := GradeFor(c.pct, bands)
		if g != c.grade || p != c.point {
			t.Fatalf("GradeFor(%v) = %s/%v, want %s/%v", c.pct, g, p, c.grade, c.point)
		}
	}
}

func TestGradeForBelowAllBandsFails(t *testing.T) {
	// A band table without a 0-cutoff floor must never award its lowest
	// band to a percentage below every cutoff.
	bands := []config.GradeBand{
		{MinPercent: 80, Grade: "A", GradePoint: 9},
		{MinPercent: 50, Grade: "C", GradePoint: 6},
	}
	if g, p := GradeFor(30, bands); g != "F" || p != 0 {
		t.Fatalf("GradeFor(30) = %s/%v, want F/0", g, p)
	}
	if g, p := GradeFor(0, nil); g != "F" || p != 0 {
		t.Fatalf("GradeFor with no bands = %s/%v, want F/0", g, p)
	}
}

func TestPercentageClamped(t *testing.T) {
	if got := Percentage(80, 40, 60); !almostEqual(got, 80) {
		t.Fatalf("80/100 = %v", got)
	}
	if got := Percentage(120, 40, 60); got != 100 {
		t.Fatalf("overshoot not clamped: %v", got)
	}
	if got := Percentage(50, 0, 0); got != 0 {
		t.Fatalf("zero ceiling: %v", got)
	}
}

func TestSGPACreditWeighted(t *testing.T) {
	records := []SemesterRecord{
		{SubjectID: 1, SemesterID: 1, Credits: 4, GradePoint: 10},
		{SubjectID: 2, SemesterID: 1, Credits: 2, GradePoint: 7},
	}
	// (10×4 + 7×2) / 6 = 9.0
	res := SGPA(records)
	if !almostEqual(res.Value, 9) {
		t.Fatalf("SGPA = %v, want 9", res.Value)
	}
	if res.TotalCredits != 6 || res.Subjects != 2 {
		t.Fatalf("credits/subjects = %v/%d", res.TotalCredits, res.Subjects)
	}
}

func TestSGPAEmptyIsZero(t *testing.T) {
	res := SGPA(nil)
	if res.Value != 0 || res.TotalCredits != 0 {
		t.Fatalf("empty SGPA = %+v", res)
	}
}

func TestCGPACutoff(t *testing.T) {
	records := []SemesterRecord{
		{SubjectID: 1, SemesterID: 1, Credits: 4, GradePoint: 8},
		{SubjectID: 2, SemesterID: 2, Credits: 4, GradePoint: 10},
	}
	sem1 := int64(1)
	res := CGPA(records, &sem1)
	if !almostEqual(res.Value, 8) {
		t.Fatalf("CGPA up to sem 1 = %v, want 8", res.Value)
	}

	// nil cutoff equals a cutoff at the latest semester on record
	latest := int64(2)
	all := CGPA(records, nil)
	capped := CGPA(records, &latest)
	if !almostEqual(all.Value, capped.Value) || all.TotalCredits != capped.TotalCredits {
		t.Fatalf("CGPA(nil)=%+v != CGPA(latest)=%+v", all, capped)
	}
	if !almostEqual(all.Value, 9) {
		t.Fatalf("CGPA = %v, want 9", all.Value)
	}
}

func TestGPABounds(t *testing.T) {
	for _, gp := range []float64{0, 5.5, 10} {
		res := SGPA([]SemesterRecord{{SemesterID: 1, Credits: 3, GradePoint: gp}})
		if res.Value < 0 || res.Value > 10 {
			t.Fatalf("GPA %v out of [0,10]", res.Value)
		}
	}
}

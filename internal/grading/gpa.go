package grading

import (
	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/apperr"
	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/config"
)

// BestInternal combines two internal-assessment scores into the figure that
// counts toward the final mark. Methods: best (max), avg (mean), weighted
// (caller-supplied weights; 0.5/0.5 when both are zero).
func BestInternal(method string, i1, i2, w1, w2 float64) (float64, error) {
	switch method {
	case "best":
		if i1 >= i2 {
			return i1, nil
		}
		return i2, nil
	case "avg":
		return (i1 + i2) / 2, nil
	case "weighted":
		if w1 == 0 && w2 == 0 {
			w1, w2 = 0.5, 0.5
		}
		sum := w1 + w2
		if sum <= 0 {
			return 0, apperr.NewValidation("weighted best-internal needs positive weights")
		}
		return (i1*w1 + i2*w2) / sum, nil
	default:
		return 0, apperr.NewValidation("unknown best-internal method: " + method)
	}
}

// Percentage converts a total to a percentage against the subject's combined
// internal+external ceiling.
func Percentage(total, maxInternal, maxExternal float64) float64 {
	denom := maxInternal + maxExternal
	if denom <= 0 {
		return 0
	}
	pct := total / denom * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// GradeFor looks a percentage up in the policy's band table. Bands are kept
// sorted by cutoff descending, so the first match wins. A percentage below
// every cutoff is a fail; policy validation guarantees a 0-cutoff band, so
// the fallback only fires on hand-built band slices.
func GradeFor(pct float64, bands []config.GradeBand) (string, float64) {
	for _, b := range bands {
		if pct >= b.MinPercent {
			return b.Grade, b.GradePoint
		}
	}
	return "F", 0
}

// SGPA is the credit-weighted grade-point average over one semester's
// records. Callers pass records already filtered to a single semester.
func SGPA(records []SemesterRecord) GPAResult {
	return gpa(records, nil)
}

// CGPA is the cumulative credit-weighted average over all semesters up to
// and including the cutoff; a nil cutoff means every semester on record.
func CGPA(records []SemesterRecord, upToSemester *int64) GPAResult {
	return gpa(records, upToSemester)
}

func gpa(records []SemesterRecord, upToSemester *int64) GPAResult {
	var pts, credits float64
	var n int
	for _, r := range records {
		if upToSemester != nil && r.SemesterID > *upToSemester {
			continue
		}
		if r.Credits <= 0 {
			continue
		}
		pts += r.GradePoint * r.Credits
		credits += r.Credits
		n++
	}
	if credits == 0 {
		return GPAResult{}
	}
	v := pts / credits
	if v < 0 {
		v = 0
	}
	if v > 10 {
		v = 10
	}
	return GPAResult{Value: v, TotalCredits: credits, Subjects: n}
}

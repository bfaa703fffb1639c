package attainment

import (
	"sort"

	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/outcome"
)

// ComputeCOAttainment turns raw per-question marks into per-CO attainment.
// For each CO, a student's percentage is the weighted sum of their marks on
// questions mapped to that CO over the weighted max; the CO figure is the
// mean over students who attempted anything in scope. COs with no mapped
// questions or zero weighted max are reported as no_data, not divided by
// zero.
func ComputeCOAttainment(cos []outcome.CourseOutcome, weights []QuestionWeight, studentMarks []StudentMark) []COResult {
	weightsByCO := map[int64][]QuestionWeight{}
	for _, w := range weights {
		weightsByCO[w.COID] = append(weightsByCO[w.COID], w)
	}

	// marks indexed per student per question
	byStudent := map[int64]map[int64]float64{}
	for _, sm := range studentMarks {
		qmap, ok := byStudent[sm.StudentID]
		if !ok {
			qmap = map[int64]float64{}
			byStudent[sm.StudentID] = qmap
		}
		qmap[sm.QuestionID] = sm.Obtained
	}

	results := make([]COResult, 0, len(cos))
	for _, co := range cos {
		res := COResult{
			COID:      co.ID,
			Code:      co.Code,
			Title:     co.Title,
			TargetPct: co.TargetAttainment,
		}

		ws := weightsByCO[co.ID]
		denom := 0.0
		for _, w := range ws {
			denom += w.MaxMarks * w.WeightPct / 100
		}
		if len(ws) == 0 || denom <= 0 || len(byStudent) == 0 {
			res.Status = StatusNoData
			results = append(results, res)
			continue
		}

		sumPct := 0.0
		for _, qmap := range byStudent {
			num := 0.0
			for _, w := range ws {
				if obtained, ok := qmap[w.QuestionID]; ok {
					num += obtained * w.WeightPct / 100
				}
			}
			sumPct += num / denom * 100
		}
		res.AttainedPct = sumPct / float64(len(byStudent))
		res.Level = classifyLevel(res.AttainedPct, co)
		if res.AttainedPct >= co.TargetAttainment {
			res.Status = StatusAchieved
		} else {
			res.Status = StatusGap
			res.Gap = co.TargetAttainment - res.AttainedPct
		}
		results = append(results, res)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Code < results[j].Code })
	return results
}

// classifyLevel maps a class-average percentage onto the CO's own
// thresholds: 0 below l1, 1 in [l1,l2), 2 in [l2,l3), 3 at or above l3.
func classifyLevel(pct float64, co outcome.CourseOutcome) int {
	switch {
	case pct >= co.L3Threshold:
		return 3
	case pct >= co.L2Threshold:
		return 2
	case pct >= co.L1Threshold:
		return 1
	default:
		return 0
	}
}

package attainment

import (
	"sort"

	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/outcome"
)

// AggregatePO rolls CO attainment up into PO attainment. The PO figure is
// the strength-weighted average of its contributing COs: a CO mapped at
// strength 3 moves the PO three times as far as the same CO at strength 1.
// COs without a computed attainment (no_data) do not contribute. A PO with
// no contributors is reported no_data with a nil percentage.
func AggregatePO(pos []outcome.ProgramOutcome, links []COLink, coAttained map[int64]float64) []POResult {
	linksByPO := map[int64][]COLink{}
	for _, l := range links {
		linksByPO[l.POID] = append(linksByPO[l.POID], l)
	}

	results := make([]POResult, 0, len(pos))
	for _, po := range pos {
		res := POResult{
			POID:      po.ID,
			Code:      po.Code,
			Title:     po.Title,
			Type:      po.Type,
			TargetPct: po.TargetAttainment,
		}

		var weightedSum, strengthSum float64
		var contribs []COContribution
		for _, l := range linksByPO[po.ID] {
			pct, ok := coAttained[l.COID]
			if !ok {
				continue
			}
			weightedSum += pct * float64(l.Strength)
			strengthSum += float64(l.Strength)
			contribs = append(contribs, COContribution{
				COID:        l.COID,
				Code:        l.COCode,
				SubjectID:   l.SubjectID,
				AttainedPct: pct,
				Strength:    l.Strength,
			})
		}

		if strengthSum == 0 {
			res.Status = StatusNoData
			res.ContributingCOs = []COContribution{}
			results = append(results, res)
			continue
		}

		attained := weightedSum / strengthSum
		for i := range contribs {
			contribs[i].WeightedContribution = contribs[i].AttainedPct * float64(contribs[i].Strength) / strengthSum
		}
		sort.Slice(contribs, func(i, j int) bool { return contribs[i].Code < contribs[j].Code })

		res.AttainedPct = &attained
		res.ContributingCOs = contribs
		res.TotalCOs = len(contribs)
		met := attained >= po.TargetAttainment
		res.Attained = &met
		if met {
			res.Status = StatusAchieved
		} else {
			res.Status = StatusGap
		}
		results = append(results, res)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Code < results[j].Code })
	return results
}

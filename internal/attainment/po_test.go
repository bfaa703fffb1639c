package attainment

import (
	"testing"

	"github.com/CipherCosmos/dsaba-lms-04-sub003/internal/outcome"
)

func po1() outcome.ProgramOutcome {
	return outcome.ProgramOutcome{ID: 1, DepartmentID: 1, Code: "PO1", Type: "PO", TargetAttainment: 70}
}

func TestAggregatePO_StrengthWeightedAverage(t *testing.T) {
	// CO1 attained 80% at strength 3, CO2 attained 50% at strength 1:
	// (80×3 + 50×1) / 4 = 72.5
	links := []COLink{
		{POID: 1, COID: 1, COCode: "CO1", SubjectID: 1, Strength: 3},
		{POID: 1, COID: 2, COCode: "CO2", SubjectID: 1, Strength: 1},
	}
	attained := map[int64]float64{1: 80, 2: 50}

	res := AggregatePO([]outcome.ProgramOutcome{po1()}, links, attained)
	if len(res) != 1 {
		t.Fatalf("got %d results", len(res))
	}
	r := res[0]
	if r.AttainedPct == nil || !almostEqual(*r.AttainedPct, 72.5) {
		t.Fatalf("attained = %v, want 72.5", r.AttainedPct)
	}
	if r.TotalCOs != 2 {
		t.Fatalf("total COs = %d", r.TotalCOs)
	}
	if r.Attained == nil || !*r.Attained || r.Status != StatusAchieved {
		t.Fatalf("want achieved against target 70: %+v", r)
	}

	// individual weighted contributions sum to the PO figure
	sum := 0.0
	for _, c := range r.ContributingCOs {
		sum += c.WeightedContribution
	}
	if !almostEqual(sum, 72.5) {
		t.Fatalf("contributions sum to %v, want 72.5", sum)
	}
}

func TestAggregatePO_StrengthMatters(t *testing.T) {
	// The same weak CO drags the PO down more at strength 3 than at 1.
	attained := map[int64]float64{1: 90, 2: 30}
	strong := []COLink{
		{POID: 1, COID: 1, COCode: "CO1", Strength: 3},
		{POID: 1, COID: 2, COCode: "CO2", Strength: 3},
	}
	weak := []COLink{
		{POID: 1, COID: 1, COCode: "CO1", Strength: 3},
		{POID: 1, COID: 2, COCode: "CO2", Strength: 1},
	}
	pos := []outcome.ProgramOutcome{po1()}

	strongRes := AggregatePO(pos, strong, attained)[0]
	weakRes := AggregatePO(pos, weak, attained)[0]
	if *strongRes.AttainedPct >= *weakRes.AttainedPct {
		t.Fatalf("strength-3 low CO should pull harder: strong=%v weak=%v",
			*strongRes.AttainedPct, *weakRes.AttainedPct)
	}
}

func TestAggregatePO_NoContributors(t *testing.T) {
	res := AggregatePO([]outcome.ProgramOutcome{po1()}, nil, nil)[0]
	if res.Status != StatusNoData {
		t.Fatalf("status = %s, want no_data", res.Status)
	}
	if res.AttainedPct != nil {
		t.Fatalf("attained must be nil for no_data, got %v", *res.AttainedPct)
	}
	if res.Attained != nil {
		t.Fatalf("attained flag must be nil for no_data")
	}
}

func TestAggregatePO_SkipsNoDataCOs(t *testing.T) {
	links := []COLink{
		{POID: 1, COID: 1, COCode: "CO1", Strength: 3},
		{POID: 1, COID: 2, COCode: "CO2", Strength: 2}, // no attainment computed
	}
	attained := map[int64]float64{1: 80}

	r := AggregatePO([]outcome.ProgramOutcome{po1()}, links, attained)[0]
	if r.AttainedPct == nil || !almostEqual(*r.AttainedPct, 80) {
		t.Fatalf("attained = %v, want 80 (only the measured CO counts)", r.AttainedPct)
	}
	if r.TotalCOs != 1 {
		t.Fatalf("total COs = %d, want 1", r.TotalCOs)
	}
}

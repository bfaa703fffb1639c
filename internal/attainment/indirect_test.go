package attainment

import "testing"

func directPO(pct float64) POResult {
	met := pct >= 70
	status := StatusGap
	if met {
		status = StatusAchieved
	}
	return POResult{
		POID: 1, Code: "PO1", TargetPct: 70,
		AttainedPct: &pct, Attained: &met, Status: status,
	}
}

func TestBlendPO_WeightedMix(t *testing.T) {
	w := BlendWeights{Direct: 0.8, Indirect: 0.2}
	indirect := 90.0

	// 0.8×65 + 0.2×90 = 70 → achieved exactly at target
	out := BlendPO(directPO(65), &indirect, w)
	if out.AttainedPct == nil || !almostEqual(*out.AttainedPct, 70) {
		t.Fatalf("blended = %v, want 70", out.AttainedPct)
	}
	if out.Status != StatusAchieved {
		t.Fatalf("status = %s, want achieved", out.Status)
	}
	if out.DirectPct == nil || *out.DirectPct != 65 || out.IndirectPct == nil || *out.IndirectPct != 90 {
		t.Fatalf("inputs not echoed: %+v", out)
	}
}

func TestBlendPO_MissingIndirectPassesDirectThrough(t *testing.T) {
	w := BlendWeights{Direct: 0.8, Indirect: 0.2}
	out := BlendPO(directPO(75), nil, w)
	if out.AttainedPct == nil || !almostEqual(*out.AttainedPct, 75) {
		t.Fatalf("blended = %v, want 75", out.AttainedPct)
	}
	if out.Status != StatusAchieved {
		t.Fatalf("status = %s", out.Status)
	}
}

func TestBlendPO_NoDataStaysNoData(t *testing.T) {
	noData := POResult{POID: 1, Code: "PO1", TargetPct: 70, Status: StatusNoData}
	out := BlendPO(noData, nil, BlendWeights{Direct: 0.8, Indirect: 0.2})
	if out.Status != StatusNoData || out.AttainedPct != nil {
		t.Fatalf("want no_data with nil pct: %+v", out)
	}

	indirect := 60.0
	out = BlendPO(noData, &indirect, BlendWeights{Direct: 0.8, Indirect: 0.2})
	if out.AttainedPct == nil || !almostEqual(*out.AttainedPct, 60) {
		t.Fatalf("indirect-only blend = %v, want 60", out.AttainedPct)
	}
	if out.Status != StatusGap {
		t.Fatalf("60 against target 70: status = %s, want gap", out.Status)
	}
}

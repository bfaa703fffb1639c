package attainment

// BlendWeights is the direct/indirect mix, loaded from the academic
// policy file rather than hard-coded.
type BlendWeights struct {
	Direct   float64
	Indirect float64
}

// BlendPO merges exam-derived (direct) attainment with survey/exit-exam
// (indirect) attainment for one PO and re-applies the target
// classification. The indirect percentage arrives as an opaque figure
// computed elsewhere. Missing sides degrade gracefully: with only one
// side available, that side passes through at full weight; with neither,
// the result stays no_data.
func BlendPO(direct POResult, indirectPct *float64, w BlendWeights) BlendedPOResult {
	out := BlendedPOResult{
		POResult:    direct,
		DirectPct:   direct.AttainedPct,
		IndirectPct: indirectPct,
	}

	var combined float64
	switch {
	case direct.AttainedPct != nil && indirectPct != nil:
		total := w.Direct + w.Indirect
		combined = (*direct.AttainedPct*w.Direct + *indirectPct*w.Indirect) / total
	case direct.AttainedPct != nil:
		combined = *direct.AttainedPct
	case indirectPct != nil:
		combined = *indirectPct
	default:
		out.Status = StatusNoData
		out.AttainedPct = nil
		out.Attained = nil
		return out
	}

	out.AttainedPct = &combined
	met := combined >= direct.TargetPct
	out.Attained = &met
	if met {
		out.Status = StatusAchieved
	} else {
		out.Status = StatusGap
	}
	return out
}

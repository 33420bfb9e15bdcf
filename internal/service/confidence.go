package service

// AggregateConfidence combines the three sub-scores into the base
// confidence before penalties. Equal thirds: none of the signals has
// shown enough predictive edge to earn extra weight, and the flat
// formula keeps threshold tuning explainable to tenants.
func AggregateConfidence(similarity, intent, selfCheck float64) float64 {
	return (clamp01(similarity) + clamp01(intent) + clamp01(selfCheck)) / 3
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

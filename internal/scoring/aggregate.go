package scoring

import "github.com/shopspring/decimal"

// Evaluation is one completed evaluation row after filtering: the evaluator is
// current and the underlying assignment is still valid.
type Evaluation struct {
	WbsItemID   string
	EvaluatorID string
	Score       float64
}

// WeightedScore computes the weighted composite on the 0-100 scale.
// Evaluations whose WBS carries no weight entry are dropped (cancelled
// assignments). Multiple evaluations on one WBS are averaged first. When the
// included weights no longer sum to 100 the result is renormalized by
// 100/weightSum. Returns nil when nothing remains to aggregate or the
// included weight is zero.
func WeightedScore(weights map[string]float64, evals []Evaluation) *float64 {
	type bucket struct {
		sum   float64
		count int
	}
	buckets := map[string]*bucket{}
	var order []string
	for _, ev := range evals {
		if _, ok := weights[ev.WbsItemID]; !ok {
			continue
		}
		b, ok := buckets[ev.WbsItemID]
		if !ok {
			b = &bucket{}
			buckets[ev.WbsItemID] = b
			order = append(order, ev.WbsItemID)
		}
		b.sum += ev.Score
		b.count++
	}
	if len(order) == 0 {
		return nil
	}

	weightedSum := decimal.Zero
	weightSum := decimal.Zero
	for _, wbsID := range order {
		weight := decimal.NewFromFloat(weights[wbsID])
		b := buckets[wbsID]
		avg := decimal.NewFromFloat(b.sum).Div(decimal.NewFromInt(int64(b.count)))
		weightedSum = weightedSum.Add(weight.Div(hundred).Mul(avg))
		weightSum = weightSum.Add(weight)
	}
	if weightSum.IsZero() {
		return nil
	}
	if !weightSum.Equal(hundred) {
		weightedSum = weightedSum.Mul(hundred.Div(weightSum))
	}

	score, _ := weightedSum.Round(2).Float64()
	return &score
}

var hundred = decimal.NewFromInt(100)

// NormalizeSelf rescales a raw self-evaluation score by the period's ceiling.
// An unset ceiling leaves the raw score untouched.
func NormalizeSelf(raw, maxSelfEvaluationRate float64) float64 {
	if maxSelfEvaluationRate <= 0 {
		return raw
	}
	return raw / maxSelfEvaluationRate * 100
}

// DistinctWbsCount counts the WBS items covered by the evaluations that carry
// a weight entry. This is the completion count used by the compute gate.
func DistinctWbsCount(weights map[string]float64, evals []Evaluation) int {
	seen := map[string]struct{}{}
	for _, ev := range evals {
		if _, ok := weights[ev.WbsItemID]; !ok {
			continue
		}
		seen[ev.WbsItemID] = struct{}{}
	}
	return len(seen)
}

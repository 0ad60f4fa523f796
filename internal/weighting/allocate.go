package weighting

import "github.com/shopspring/decimal"

// ImportanceItem is one live WBS assignment with the summed importance of its
// evaluation criteria. Order matters: the last item with positive importance
// absorbs the rounding remainder.
type ImportanceItem struct {
	AssignmentID string
	WbsItemID    string
	Importance   int
}

type WeightUpdate struct {
	AssignmentID string
	Weight       decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// Allocate converts criteria importance into percentage weights that sum to
// exactly 100. Each weight is importance/total rounded to 2 decimals except the
// last positive item, which receives the remainder. If no assignment carries
// importance, every weight is zero.
func Allocate(items []ImportanceItem) []WeightUpdate {
	updates := make([]WeightUpdate, len(items))

	total := 0
	lastPositive := -1
	for i, item := range items {
		if item.Importance > 0 {
			total += item.Importance
			lastPositive = i
		}
	}

	if total == 0 {
		for i, item := range items {
			updates[i] = WeightUpdate{AssignmentID: item.AssignmentID, Weight: decimal.Zero}
		}
		return updates
	}

	totalDec := decimal.NewFromInt(int64(total))
	allocated := decimal.Zero
	for i, item := range items {
		if item.Importance <= 0 {
			updates[i] = WeightUpdate{AssignmentID: item.AssignmentID, Weight: decimal.Zero}
			continue
		}
		var weight decimal.Decimal
		if i == lastPositive {
			weight = hundred.Sub(allocated)
		} else {
			weight = decimal.NewFromInt(int64(item.Importance)).Div(totalDec).Mul(hundred).Round(2)
			allocated = allocated.Add(weight)
		}
		updates[i] = WeightUpdate{AssignmentID: item.AssignmentID, Weight: weight}
	}
	return updates
}

package weighting

import (
	"testing"

	"github.com/shopspring/decimal"
)

func items(importances ...int) []ImportanceItem {
	out := make([]ImportanceItem, len(importances))
	for i, imp := range importances {
		out[i] = ImportanceItem{AssignmentID: string(rune('a' + i)), Importance: imp}
	}
	return out
}

func sum(updates []WeightUpdate) decimal.Decimal {
	total := decimal.Zero
	for _, u := range updates {
		total = total.Add(u.Weight)
	}
	return total
}

func TestAllocateSumsToExactlyHundred(t *testing.T) {
	cases := [][]int{
		{3, 7},
		{1, 1, 1},
		{1, 2, 3, 4, 5},
		{7},
		{9, 9, 9, 9, 9, 9, 9},
	}
	for _, importances := range cases {
		updates := Allocate(items(importances...))
		if got := sum(updates); !got.Equal(decimal.NewFromInt(100)) {
			t.Fatalf("importances %v: weights sum to %s, want 100", importances, got)
		}
	}
}

func TestAllocateRemainderCorrection(t *testing.T) {
	updates := Allocate(items(1, 1, 1))
	want := []string{"33.33", "33.33", "33.34"}
	for i, w := range want {
		if updates[i].Weight.StringFixed(2) != w {
			t.Fatalf("weight[%d] = %s, want %s", i, updates[i].Weight.StringFixed(2), w)
		}
	}
}

func TestAllocateProportions(t *testing.T) {
	updates := Allocate(items(3, 7))
	if updates[0].Weight.StringFixed(2) != "30.00" {
		t.Fatalf("weight[0] = %s, want 30.00", updates[0].Weight.StringFixed(2))
	}
	if updates[1].Weight.StringFixed(2) != "70.00" {
		t.Fatalf("weight[1] = %s, want 70.00", updates[1].Weight.StringFixed(2))
	}
}

func TestAllocateZeroImportanceAssignmentsGetZero(t *testing.T) {
	updates := Allocate(items(0, 5, 0, 5))
	if !updates[0].Weight.IsZero() || !updates[2].Weight.IsZero() {
		t.Fatalf("zero-importance assignments must keep weight 0: %v", updates)
	}
	if got := sum(updates); !got.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("positive assignments must still sum to 100, got %s", got)
	}
	if updates[3].Weight.StringFixed(2) != "50.00" {
		t.Fatalf("last positive assignment = %s, want 50.00", updates[3].Weight.StringFixed(2))
	}
}

func TestAllocateAllZeroImportance(t *testing.T) {
	updates := Allocate(items(0, 0, 0))
	if got := sum(updates); !got.IsZero() {
		t.Fatalf("all-zero importance must allocate nothing, got sum %s", got)
	}
}

func TestAllocateEmpty(t *testing.T) {
	if got := Allocate(nil); len(got) != 0 {
		t.Fatalf("expected no updates for no assignments, got %v", got)
	}
}

package dice

import (
	"fmt"
	"sort"
)

// RollResult holds the full audit trail for a single dice roll evaluation.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string // original expression string, e.g. "2d6+3"
	Dice       []int  // individual die results before modifier
	Modifier   int    // flat modifier (may be negative)
}

// Total returns the sum of all die results plus the modifier.
//
// Postcondition: return value == sum(r.Dice) + r.Modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String returns a human-readable audit string in the format:
//
//	"2d6+3 → [4 5] +3 = 12"
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String() precondition violated: Expression must be non-empty")
	}
	return fmt.Sprintf("%s → %v %+d = %d", r.Expression, r.Dice, r.Modifier, r.Total())
}

// Roll evaluates an Expression using the given Source and returns a RollResult.
//
// Precondition: expr must come from Parse (Count >= 1, Sides >= 2); src must
// be non-nil.
// Postcondition: len(result.Dice) == expr.Count when KeepHighest == 0, or
// expr.KeepHighest otherwise; result.Total() == sum(result.Dice) + Modifier.
func Roll(expr Expression, src Source) RollResult {
	rolled := make([]int, expr.Count)
	for i := range rolled {
		rolled[i] = src.Intn(expr.Sides) + 1
	}

	kept := rolled
	if expr.KeepHighest > 0 {
		sorted := make([]int, len(rolled))
		copy(sorted, rolled)
		sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
		kept = sorted[:expr.KeepHighest]
	}

	return RollResult{
		Expression: expr.Raw,
		Dice:       kept,
		Modifier:   expr.Modifier,
	}
}

// RollExpr parses expr and rolls it using src in a single call.
//
// Precondition: src must be non-nil.
// Postcondition: Returns a RollResult or a parse error.
func RollExpr(expr string, src Source) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return Roll(e, src), nil
}

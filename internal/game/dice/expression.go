package dice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Expression represents a parsed dice expression ready to be rolled.
//
// Invariant: Count >= 1 and Sides >= 2 after a successful Parse.
type Expression struct {
	Raw         string // original input string
	Count       int    // number of dice
	Sides       int    // faces per die
	Modifier    int    // flat modifier (may be negative)
	KeepHighest int    // if > 0, keep only the N highest dice (e.g. 4d6kh3)
}

// exprPattern matches "d20", "2d6", "2d6+3", "4d8-2", and "4d6kh3+1".
var exprPattern = regexp.MustCompile(`^(\d*)d(\d+)(?:kh(\d+))?([+-]\d+)?$`)

// Parse parses a dice expression string into an Expression.
// Supported forms: "d20", "2d6", "2d6+3", "4d8-2", "4d6kh3".
//
// Precondition: expr must be non-empty.
// Postcondition: Returns an Expression with Count >= 1 and Sides >= 2, or a
// descriptive error.
func Parse(expr string) (Expression, error) {
	if expr == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}

	m := exprPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(expr)))
	if m == nil {
		return Expression{}, fmt.Errorf("dice: malformed expression %q", expr)
	}

	count := 1
	if m[1] != "" {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q", expr)
		}
		count = n
	}

	sides, err := strconv.Atoi(m[2])
	if err != nil || sides < 2 {
		return Expression{}, fmt.Errorf("dice: die sides in %q must be >= 2", expr)
	}

	keep := 0
	if m[3] != "" {
		keep, err = strconv.Atoi(m[3])
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid kh value in %q: %w", expr, err)
		}
		if keep <= 0 || keep >= count {
			return Expression{}, fmt.Errorf("dice: kh value %d must be > 0 and < count %d in %q", keep, count, expr)
		}
	}

	modifier := 0
	if m[4] != "" {
		modifier, err = strconv.Atoi(m[4])
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid modifier in %q: %w", expr, err)
		}
	}

	return Expression{
		Raw:         expr,
		Count:       count,
		Sides:       sides,
		Modifier:    modifier,
		KeepHighest: keep,
	}, nil
}

// MustParse parses expr and panics on error. Useful for package-level tables.
//
// Precondition: expr must be a valid dice expression.
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic("dice: MustParse failed for expression " + expr + ": " + err.Error())
	}
	return e
}

// String renders the expression in canonical form, e.g. "2d6+3" or "4d6kh3".
func (e Expression) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%dd%d", e.Count, e.Sides)
	if e.KeepHighest > 0 {
		fmt.Fprintf(&b, "kh%d", e.KeepHighest)
	}
	if e.Modifier != 0 {
		fmt.Fprintf(&b, "%+d", e.Modifier)
	}
	return b.String()
}

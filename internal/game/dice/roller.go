package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged dice rolling.
// All rolls are logged at debug level with expression, dice values, modifier,
// and total, giving every encounter a complete roll audit trail.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Source returns the underlying randomness source for callers that need to
// pass it to pure resolution functions.
func (r *Roller) Source() Source {
	return r.src
}

// Roll evaluates expr and logs the result at debug level.
//
// Precondition: expr must come from Parse.
func (r *Roller) Roll(expr Expression) RollResult {
	result := Roll(expr, r.src)
	r.logger.Debug("dice roll",
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	return result
}

// RollExpr parses expr and rolls it, logging the result.
//
// Precondition: expr must be a valid dice expression string.
// Postcondition: Returns a RollResult or a parse error.
func (r *Roller) RollExpr(expr string) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return r.Roll(e), nil
}

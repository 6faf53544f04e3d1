package retry

import "fmt"

// Strategy names an alternate execution mode selected after retry
// exhaustion. Strategies are signals: the calling feature reconfigures
// and re-invokes the operation itself, the coordinator never does.
type Strategy int

const (
	// StrategyReduceQuality lowers the bitrate/size budget.
	StrategyReduceQuality Strategy = iota
	// StrategySimplifyTemplate switches to a cheaper visual template.
	StrategySimplifyTemplate
	// StrategyUseStaticImages drops video clips for stills only.
	StrategyUseStaticImages
	// StrategyBasicExport uses baseline encoder settings.
	StrategyBasicExport
	// StrategySkipOptionalFeatures drops music and premium effects.
	StrategySkipOptionalFeatures
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyReduceQuality:
		return "reduce_quality"
	case StrategySimplifyTemplate:
		return "simplify_template"
	case StrategyUseStaticImages:
		return "use_static_images"
	case StrategyBasicExport:
		return "basic_export"
	case StrategySkipOptionalFeatures:
		return "skip_optional_features"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// ExhaustedError reports that retries ran out with no fallback
// available. It carries the original cause unchanged.
type ExhaustedError struct {
	OperationID string
	Err         error
}

// Error implements the error interface.
func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted for operation %q: %v", e.OperationID, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// FallbackError reports that retries ran out but a fallback strategy
// applies. Executing the fallback is the caller's responsibility.
type FallbackError struct {
	OperationID string
	Strategy    Strategy
	Err         error
}

// Error implements the error interface.
func (e *FallbackError) Error() string {
	return fmt.Sprintf("operation %q exhausted retries, fallback %s applies: %v",
		e.OperationID, e.Strategy, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FallbackError) Unwrap() error {
	return e.Err
}

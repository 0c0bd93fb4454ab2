// Package config centralizes the tunables the lattice engine would
// otherwise scatter as magic numbers, following swap/config's shape in
// the teacher: a Config struct, a DefaultConfig value, and package-level
// Get/Set so callers can override without threading a parameter through
// every function signature.
package config

// Config holds the documented approximations and diagnostic limits the
// engine depends on. Every field here corresponds to a spec.md §7/§9
// fallback or a diagnostic knob, not a pricing free parameter.
type Config struct {
	// WAFallbackSharesOutstanding is used for a WA_DOWN_ONLY reset event
	// that omits SharesOutstandingBefore (spec.md §4.5, §7, §9 Q3).
	WAFallbackSharesOutstanding float64

	// NodeLogMaxStep caps the sampled node_logs to steps t <= min(N, this).
	NodeLogMaxStep int

	// MoneyRoundingDecimals is the decimal precision applied to every
	// deal-level money value the Aggregator reports, PricePerShare included.
	MoneyRoundingDecimals uint32

	// MinYearsPerStep is the floor applied to dt for a degenerate
	// (maturity <= valuation) time grid (spec.md §3: dt ~= 0.0027).
	MinYearsPerStep float64

	// ESODefaultExerciseMultiple is the early-exercise share-price
	// multiple used when a security leaves it unset. spec.md §9 Open
	// Question 1: the source sets this high enough to effectively
	// disable suboptimal early exercise by default.
	ESODefaultExerciseMultiple float64
}

// DefaultConfig mirrors the documented fallbacks in spec.md verbatim.
var DefaultConfig = Config{
	WAFallbackSharesOutstanding: 1_000_000,
	NodeLogMaxStep:              5,
	MoneyRoundingDecimals:       2,
	MinYearsPerStep:             0.0027,
	ESODefaultExerciseMultiple:  1000,
}

var active = DefaultConfig

// SetConfig replaces the active configuration.
func SetConfig(c Config) {
	active = c
}

// GetConfig returns the active configuration.
func GetConfig() Config {
	return active
}

// Package rank implements the deterministic ranking and allocation engine:
// snapshot normalization, eligibility gates, the weighted and point scoring
// schemes, largest-remainder allocation, and swing-setup calculation. The
// package is pure: no I/O, no logging, no shared state between tickers.
package rank

// Tier maps a strict lower bound to a score. Tables are evaluated top-down;
// the first tier whose bound the value exceeds wins.
type Tier struct {
	Above float64
	Score float64
}

// Band maps an inclusive-low, exclusive-high range to a score. MaxInclusive
// widens the top edge to include High itself.
type Band struct {
	Low          float64
	High         float64
	MaxInclusive bool
	Score        float64
}

// Weights holds the factor weights for the weighted scheme. They are
// expected to sum to 1.0.
type Weights struct {
	Momentum   float64
	RSI        float64
	MACD       float64
	Volume     float64
	Volatility float64
	Upside     float64
}

// Config is the immutable rule table driving both scoring schemes. Callers
// pass it by value into the scorer; tests exercise alternate weightings and
// tiers without touching engine code.
type Config struct {
	// Weighted scheme (0-1).
	Weights        Weights
	Neutral        float64 // default factor score when inputs are missing
	VolTrendBase   float64 // volume trend assumed when absent
	Boost          float64 // relative-strength bonus vs the benchmark
	ScoreCap       float64
	RSIBands       []Band
	UpsideTiers    []Tier
	SwingThreshold float64
	PickThreshold  float64 // picks require score strictly above this
	MaxPicks       int

	// Swing setup geometry, in ATR multiples.
	EntryBandATR   float64
	StopATR        float64
	TargetATR      float64
	ATRFallbackPct float64 // percent of close used when ATR is missing

	// Point scheme (0-100).
	UpsideCapPct    float64 // raw upside clamp before scaling
	UpsidePointsMax float64
	EarningsMax     float64
	AnalystTiers    []Tier
	RSINeutralLow   float64
	RSINeutralHigh  float64
	PointsSMA50     float64
	PointsRSI       float64
	PointsVolume    float64
	MinPoints       float64 // candidates below this are excluded from allocation
	MaxRows         int
}

// DefaultConfig returns the production rule table.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Momentum:   0.25,
			RSI:        0.15,
			MACD:       0.20,
			Volume:     0.15,
			Volatility: 0.10,
			Upside:     0.15,
		},
		Neutral:      0.5,
		VolTrendBase: 0.8,
		Boost:        0.05,
		ScoreCap:     1.0,
		RSIBands: []Band{
			{Low: 55, High: 70, Score: 1.0},
			{Low: 50, High: 55, Score: 0.7},
			{Low: 70, High: 75, Score: 0.7},
			{Low: 40, High: 50, Score: 0.5},
			{Low: 75, High: 80, MaxInclusive: true, Score: 0.5},
		},
		UpsideTiers: []Tier{
			{Above: 20, Score: 1.3},
			{Above: 12, Score: 1.1},
			{Above: 7, Score: 0.9},
			{Above: 3, Score: 0.7},
			{Above: 0, Score: 0.5},
		},
		SwingThreshold: 0.8,
		PickThreshold:  0.6,
		MaxPicks:       5,

		EntryBandATR:   0.2,
		StopATR:        1.5,
		TargetATR:      2.5,
		ATRFallbackPct: 1.0,

		UpsideCapPct:    120,
		UpsidePointsMax: 40,
		EarningsMax:     25,
		AnalystTiers: []Tier{
			{Above: 90, Score: 15},
			{Above: 70, Score: 10},
			{Above: 50, Score: 5},
		},
		RSINeutralLow:  38,
		RSINeutralHigh: 62,
		PointsSMA50:    7,
		PointsRSI:      7,
		PointsVolume:   6,
		MinPoints:      30,
		MaxRows:        10,
	}
}

// lookupTier returns the score of the first tier whose bound the value
// exceeds, falling back to zero. Unlike strict tiers, AnalystTiers compare
// inclusively, so callers choose via the inclusive flag.
func lookupTier(tiers []Tier, value float64, inclusive bool) float64 {
	for _, t := range tiers {
		if inclusive {
			if value >= t.Above {
				return t.Score
			}
		} else if value > t.Above {
			return t.Score
		}
	}
	return 0
}

// lookupBand returns the score of the first band containing the value, or
// the miss score when none does.
func lookupBand(bands []Band, value, miss float64) float64 {
	for _, b := range bands {
		if value >= b.Low && (value < b.High || (b.MaxInclusive && value <= b.High)) {
			return b.Score
		}
	}
	return miss
}

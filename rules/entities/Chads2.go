package entities

// Risk tier labels shared by the scoring and interaction tables.
const (
	RiskLow      = "Low"
	RiskModerate = "Moderate"
	RiskHigh     = "High"
)

// Chads2Result is the outcome of a CHADS2 evaluation.
// Components lists the contributing factors in canonical order
// (CHF, HTN, Age, Diabetes, Stroke/TIA) for UI display.
type Chads2Result struct {
	Score            int      `json:"score"`
	MaxScore         int      `json:"max_score"`
	RiskLevel        string   `json:"risk_level"`
	AnnualStrokeRisk float64  `json:"annual_stroke_risk"`
	Components       []string `json:"components"`
}

// Chads2Factor is one scoring row of the CHADS2 table. Factors keep
// their file order, which fixes the component order in results.
type Chads2Factor struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Points int    `json:"points"`
}

// Chads2Tier maps a score ceiling to a risk level. Tiers are ordered by
// ascending MaxScore and the first tier with MaxScore >= score wins.
type Chads2Tier struct {
	MaxScore int    `json:"max_score"`
	Level    string `json:"level"`
}

// Chads2Table holds the CHADS2 weights, risk tiers and the annual
// stroke-rate lookup keyed by score.
type Chads2Table struct {
	MaxScore    int                `json:"max_score"`
	Factors     []Chads2Factor     `json:"factors"`
	Tiers       []Chads2Tier       `json:"risk_tiers"`
	StrokeRates map[string]float64 `json:"stroke_rates"`
}

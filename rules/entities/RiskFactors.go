package entities

// RiskFactors holds the five CHADS2 binary risk factors for a patient.
// Absent fields decode to false, which scores as zero points.
type RiskFactors struct {
	CongestiveHeartFailure bool `json:"congestive_heart_failure"`
	Hypertension           bool `json:"hypertension"`
	Age75Plus              bool `json:"age_75_plus"`
	Diabetes               bool `json:"diabetes"`
	StrokeTIA              bool `json:"stroke_tia"`
}

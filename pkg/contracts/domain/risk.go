package domain

// RiskCategory is the quadrant a student falls into when their presence
// and homework means are compared against the class thresholds.
type RiskCategory string

const (
	RiskCritical   RiskCategory = "critical"
	RiskTourist    RiskCategory = "tourist"
	RiskSelfTaught RiskCategory = "self_taught"
	RiskIdeal      RiskCategory = "ideal"
)

// RiskCategories returns every category in display order.
func RiskCategories() []RiskCategory {
	return []RiskCategory{RiskCritical, RiskTourist, RiskSelfTaught, RiskIdeal}
}

// IsValid reports whether c is a known category.
func (c RiskCategory) IsValid() bool {
	switch c {
	case RiskCritical, RiskTourist, RiskSelfTaught, RiskIdeal:
		return true
	}
	return false
}

// Label returns the label shown to teachers.
func (c RiskCategory) Label() string {
	switch c {
	case RiskCritical:
		return "🔴 Risco Crítico"
	case RiskTourist:
		return "🟠 Turista"
	case RiskSelfTaught:
		return "🔵 Autodidata"
	case RiskIdeal:
		return "🟢 Ideal"
	default:
		return string(c)
	}
}

// Color returns the hex colour used for the category in charts.
func (c RiskCategory) Color() string {
	switch c {
	case RiskCritical:
		return "#dc3545"
	case RiskTourist:
		return "#ffc107"
	case RiskSelfTaught:
		return "#17a2b8"
	case RiskIdeal:
		return "#28a745"
	default:
		return "#808080"
	}
}

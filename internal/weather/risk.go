package weather

import "strings"

// RiskLevel is the coarse hazard classification of a destination's weather.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// AltitudeWarningMeters is the altitude above which a destination carries
// an altitude warning.
const AltitudeWarningMeters = 4000

// HasRain reports whether the condition text mentions rain or drizzle.
func HasRain(condition string) bool {
	c := strings.ToLower(condition)
	return strings.Contains(c, "rain") || strings.Contains(c, "drizzle")
}

// HasSnow reports whether the condition text mentions snow.
func HasSnow(condition string) bool {
	return strings.Contains(strings.ToLower(condition), "snow")
}

// AltitudeWarning reports whether altitude (meters) exceeds the warning threshold.
func AltitudeWarning(altitude int) bool {
	return altitude > AltitudeWarningMeters
}

// Classify derives the risk level. Rules apply in order:
// snow, or altitude warning below freezing, is HIGH; rain or altitude
// warning is MEDIUM; anything else is LOW.
func Classify(condition string, temperature float64, altitudeWarning bool) RiskLevel {
	switch {
	case HasSnow(condition) || (altitudeWarning && temperature < 0):
		return RiskHigh
	case HasRain(condition) || altitudeWarning:
		return RiskMedium
	default:
		return RiskLow
	}
}

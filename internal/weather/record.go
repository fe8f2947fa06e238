package weather

import "time"

// Source tells where a record's readings came from.
type Source string

const (
	SourceProvider Source = "provider"
	SourceFallback Source = "fallback"
)

// Placeholder readings used when the provider cannot be reached.
const (
	fallbackTemperature = 15.5
	fallbackCondition   = "Clear"
	fallbackDescription = "clear sky"
	fallbackHumidity    = 65
	fallbackWindSpeed   = 3.5
)

// Observation is what the provider reports for a coordinate.
type Observation struct {
	Temperature float64 `json:"temperature"`
	Condition   string  `json:"condition"`
	Description string  `json:"description"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
}

func fallbackObservation() Observation {
	return Observation{
		Temperature: fallbackTemperature,
		Condition:   fallbackCondition,
		Description: fallbackDescription,
		Humidity:    fallbackHumidity,
		WindSpeed:   fallbackWindSpeed,
	}
}

// Record is the single current weather assessment of a destination.
type Record struct {
	DestinationID      int       `json:"destination_id"`
	Temperature        float64   `json:"temperature"`
	Condition          string    `json:"weather_condition"`
	Description        string    `json:"description"`
	Humidity           int       `json:"humidity"`
	WindSpeed          float64   `json:"wind_speed"`
	HasRainWarning     bool      `json:"has_rain_warning"`
	HasSnowWarning     bool      `json:"has_snow_warning"`
	HasAltitudeWarning bool      `json:"has_altitude_warning"`
	RiskLevel          RiskLevel `json:"risk_level"`
	CachedAt           time.Time `json:"cached_at"`
	Source             Source    `json:"source"`
}

// newRecord builds a classified record from an observation.
func newRecord(destinationID, altitude int, obs Observation, src Source, now time.Time) Record {
	rec := Record{
		DestinationID:      destinationID,
		Temperature:        obs.Temperature,
		Condition:          obs.Condition,
		Description:        obs.Description,
		Humidity:           obs.Humidity,
		WindSpeed:          obs.WindSpeed,
		HasAltitudeWarning: AltitudeWarning(altitude),
		CachedAt:           now,
		Source:             src,
	}
	return rec.Reclassify()
}

// Reclassify returns a copy of r with the warning flags and risk level
// recomputed from its condition, temperature and altitude warning.
func (r Record) Reclassify() Record {
	r.HasRainWarning = HasRain(r.Condition)
	r.HasSnowWarning = HasSnow(r.Condition)
	r.RiskLevel = Classify(r.Condition, r.Temperature, r.HasAltitudeWarning)
	return r
}

// IsFresh reports whether the record is younger than maxAge at now.
// A record aged exactly maxAge is stale.
func (r Record) IsFresh(now time.Time, maxAge time.Duration) bool {
	return now.Sub(r.CachedAt) < maxAge
}

// SlotState is the freshness of a destination's weather slot.
type SlotState string

const (
	SlotAbsent SlotState = "absent"
	SlotStale  SlotState = "stale"
	SlotFresh  SlotState = "fresh"
)

// StateOf classifies the slot holding rec.
func StateOf(rec *Record, now time.Time, maxAge time.Duration) SlotState {
	switch {
	case rec == nil:
		return SlotAbsent
	case rec.IsFresh(now, maxAge):
		return SlotFresh
	default:
		return SlotStale
	}
}

package destination

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty grades how demanding a trek is.
type Difficulty string

const (
	DifficultyEasy        Difficulty = "EASY"
	DifficultyModerate    Difficulty = "MODERATE"
	DifficultyChallenging Difficulty = "CHALLENGING"
	DifficultyDifficult   Difficulty = "DIFFICULT"
)

// ParseDifficulty converts a case-insensitive string into a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToUpper(strings.TrimSpace(s)))
	switch d {
	case DifficultyEasy, DifficultyModerate, DifficultyChallenging, DifficultyDifficult:
		return d, nil
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// Destination is a catalog entry for a trek. The core only ever reads it.
type Destination struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	Location     string     `json:"location"`
	Description  string     `json:"description"`
	Altitude     int        `json:"altitude"`
	DurationDays int        `json:"duration_days"`
	Difficulty   Difficulty `json:"difficulty"`
	Price        float64    `json:"price"`
	Latitude     float64    `json:"latitude"`
	Longitude    float64    `json:"longitude"`
	Featured     bool       `json:"featured"`
	BestSeason   string     `json:"best_season,omitempty"`
	GroupSizeMax int        `json:"group_size_max"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// OrderingFields are the columns a catalog listing may be sorted by.
var OrderingFields = []string{"price", "duration_days", "altitude", "created_at"}

// ListFilter narrows and orders a catalog listing.
type ListFilter struct {
	FeaturedOnly bool
	// Search matches name, location or description, case-insensitively.
	Search string
	// Ordering is one of OrderingFields, optionally prefixed with "-" for
	// descending. Empty keeps featured first, then by name.
	Ordering string
}

// ParseOrdering validates an ordering parameter and returns the field name
// and whether it sorts descending.
func ParseOrdering(s string) (field string, desc bool, err error) {
	s = strings.TrimSpace(s)
	field, desc = strings.CutPrefix(s, "-")
	for _, f := range OrderingFields {
		if f == field {
			return field, desc, nil
		}
	}
	return "", false, fmt.Errorf("unknown ordering %q, expected one of %s", s, strings.Join(OrderingFields, ", "))
}

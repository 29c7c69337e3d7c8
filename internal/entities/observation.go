// Package entities contains the core domain objects for the aquahealth application
package entities

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Foam describes the surface foam seen on the pond
type Foam string

const (
	FoamNone  Foam = "No"
	FoamLight Foam = "Yes - Light"
	FoamHeavy Foam = "Yes - Heavy"
)

// Feeding describes the feeding behavior of the stock
type Feeding string

const (
	FeedingNormal  Feeding = "Normal"
	FeedingReduced Feeding = "Reduced"
	FeedingRefused Feeding = "Refused"
)

// WaterColor is the observed color of the pond water
type WaterColor string

const (
	WaterClear WaterColor = "Clear"
	WaterGreen WaterColor = "Green"
	WaterBrown WaterColor = "Brown"
	WaterMurky WaterColor = "Murky"
	WaterOther WaterColor = "Other"
)

// Odor is the observed smell of the pond water
type Odor string

const (
	OdorNone     Odor = "None"
	OdorMild     Odor = "Mild"
	OdorRotten   Odor = "Rotten/Eggy"
	OdorChemical Odor = "Chemical"
)

// Aeration is the state of the pond aeration equipment
type Aeration string

const (
	AerationWorking       Aeration = "Working Normally"
	AerationNotFunctional Aeration = "Not Functional"
	AerationNotPresent    Aeration = "Not Present"
)

// Accepted ranges for sensor readings
const (
	MinTemperature = 0.0
	MaxTemperature = 40.0
	MinOxygen      = 0.0
	MaxOxygen      = 20.0
	MinSalinity    = 0.0
	MaxSalinity    = 50.0
)

// ErrInvalidObservation is returned when a logbook entry fails boundary validation
var ErrInvalidObservation = errors.New("invalid observation")

// Readings are the three sensor values and the foam level the scoring pipeline works on
type Readings struct {
	Temperature float64 `json:"temperature"` // °C
	Oxygen      float64 `json:"oxygen"`      // dissolved oxygen, ml/L
	Salinity    float64 `json:"salinity"`    // PSU
	Foam        Foam    `json:"foam"`
}

// Observation is a single logbook entry submitted by a technician.
// It is scored once and never persisted.
type Observation struct {
	Readings

	ObservedAt     time.Time  `json:"observed_at"`
	Feeding        Feeding    `json:"feeding"`
	DeadFishCount  int        `json:"dead_fish_count"`
	WaterColor     WaterColor `json:"water_color"`
	Odor           Odor       `json:"odor"`
	Aeration       Aeration   `json:"aeration"`
	BehaviorNotes  string     `json:"behavior_notes,omitempty"`
	SensorIssues   string     `json:"sensor_issues,omitempty"`
	ActionsTaken   string     `json:"actions_taken,omitempty"`
	TechnicianName string     `json:"technician_name,omitempty"`
	Comments       string     `json:"comments,omitempty"`
}

// NewObservation returns an observation with the form defaults applied
func NewObservation(r Readings) Observation {
	if r.Foam == "" {
		r.Foam = FoamNone
	}
	return Observation{
		Readings:   r,
		ObservedAt: time.Now(),
		Feeding:    FeedingNormal,
		WaterColor: WaterClear,
		Odor:       OdorNone,
		Aeration:   AerationWorking,
	}
}

// Validate checks the readings against the accepted ranges
func (r Readings) Validate() error {
	return validationError(r.problems())
}

func (r Readings) problems() []string {
	var problems []string
	if outside(r.Temperature, MinTemperature, MaxTemperature) {
		problems = append(problems, fmt.Sprintf("temperature %.2f outside [%g, %g]", r.Temperature, MinTemperature, MaxTemperature))
	}
	if outside(r.Oxygen, MinOxygen, MaxOxygen) {
		problems = append(problems, fmt.Sprintf("oxygen %.2f outside [%g, %g]", r.Oxygen, MinOxygen, MaxOxygen))
	}
	if outside(r.Salinity, MinSalinity, MaxSalinity) {
		problems = append(problems, fmt.Sprintf("salinity %.2f outside [%g, %g]", r.Salinity, MinSalinity, MaxSalinity))
	}
	switch r.Foam {
	case FoamNone, FoamLight, FoamHeavy:
	default:
		problems = append(problems, fmt.Sprintf("unknown foam level %q", r.Foam))
	}
	return problems
}

// outside reports whether v is NaN or falls outside [lo, hi]
func outside(v, lo, hi float64) bool {
	return math.IsNaN(v) || v < lo || v > hi
}

// Validate checks every field of the logbook entry and reports all problems at once
func (o Observation) Validate() error {
	problems := o.Readings.problems()
	if o.DeadFishCount < 0 {
		problems = append(problems, fmt.Sprintf("dead fish count %d is negative", o.DeadFishCount))
	}
	switch o.Feeding {
	case FeedingNormal, FeedingReduced, FeedingRefused:
	default:
		problems = append(problems, fmt.Sprintf("unknown feeding behavior %q", o.Feeding))
	}
	switch o.WaterColor {
	case WaterClear, WaterGreen, WaterBrown, WaterMurky, WaterOther:
	default:
		problems = append(problems, fmt.Sprintf("unknown water color %q", o.WaterColor))
	}
	switch o.Odor {
	case OdorNone, OdorMild, OdorRotten, OdorChemical:
	default:
		problems = append(problems, fmt.Sprintf("unknown odor %q", o.Odor))
	}
	switch o.Aeration {
	case AerationWorking, AerationNotFunctional, AerationNotPresent:
	default:
		problems = append(problems, fmt.Sprintf("unknown aeration status %q", o.Aeration))
	}
	return validationError(problems)
}

func validationError(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidObservation, strings.Join(problems, "; "))
}

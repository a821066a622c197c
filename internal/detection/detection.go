// Package detection provides the domain model for camera-trap observations.
//
// A Detection is a single sighting produced by a loader. Detections are
// immutable once created; aggregation helpers fold them into SpeciesCounts,
// HourlyActivity and TypeDistribution, which feed the statistics in
// internal/analysis.
package detection

import (
	"fmt"
	"time"
)

// SpeciesType is the coarse taxonomic group of a species
type SpeciesType string

const (
	Mammal SpeciesType = "mammal"
	Bird   SpeciesType = "bird"
	Bat    SpeciesType = "bat"
	Insect SpeciesType = "insect"
)

// AllSpeciesTypes lists every SpeciesType in display order
var AllSpeciesTypes = []SpeciesType{Mammal, Bird, Bat, Insect}

// Valid reports whether t is one of the known species types
func (t SpeciesType) Valid() bool {
	switch t {
	case Mammal, Bird, Bat, Insect:
		return true
	default:
		return false
	}
}

// ParseSpeciesType converts a string to a SpeciesType
func ParseSpeciesType(s string) (SpeciesType, error) {
	t := SpeciesType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown species type %q", s)
	}
	return t, nil
}

// Coordinates is a WGS84 position
type Coordinates struct {
	Lat float64
	Lng float64
}

// Detection is a single camera-trap observation.
type Detection struct {
	ID          int
	Timestamp   time.Time
	Species     string
	Type        SpeciesType
	HotspotID   int
	Coordinates *Coordinates // nil when the source carries no position
	IsNight     *bool        // night flag from the source, nil when unknown
}

// Hour returns the hour of day (0-23) of the detection in its own location
func (d *Detection) Hour() int {
	return d.Timestamp.Hour()
}

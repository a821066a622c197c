package detection

import (
	"cmp"
	"encoding/json"
	"iter"
	"slices"
)

// HoursPerDay is the length of HourlyActivity
const HoursPerDay = 24

// HourlyActivity holds detection counts per hour of day. Missing hours are 0.
type HourlyActivity [HoursPerDay]int

// Total returns the sum over all hours
func (h *HourlyActivity) Total() int {
	total := 0
	for _, c := range h {
		total += c
	}
	return total
}

// HourlyFromMap converts a sparse hour map, ignoring keys outside 0-23
func HourlyFromMap(m map[int]int) HourlyActivity {
	var h HourlyActivity
	for hour, count := range m {
		if hour >= 0 && hour < HoursPerDay {
			h[hour] = count
		}
	}
	return h
}

// TypeDistribution counts detections per SpeciesType
type TypeDistribution map[SpeciesType]int

// SpeciesCount pairs a species name with its detection count
type SpeciesCount struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// SpeciesCounts maps species names to non-negative counts and remembers the
// order in which species were first added. Feature matrices are built in this
// order so rows stay aligned with their labels.
//
// The zero value is ready to use.
type SpeciesCounts struct {
	names  []string
	counts map[string]int
}

// NewSpeciesCounts builds SpeciesCounts from pairs, preserving their order.
// Repeated names are summed.
func NewSpeciesCounts(pairs ...SpeciesCount) *SpeciesCounts {
	sc := &SpeciesCounts{}
	for _, p := range pairs {
		sc.Add(p.Name, p.Count)
	}
	return sc
}

// Add increases the count for name by n. Negative n is ignored.
func (sc *SpeciesCounts) Add(name string, n int) {
	if n < 0 {
		return
	}
	if sc.counts == nil {
		sc.counts = make(map[string]int)
	}
	if _, ok := sc.counts[name]; !ok {
		sc.names = append(sc.names, name)
	}
	sc.counts[name] += n
}

// Get returns the count for name and whether it is present
func (sc *SpeciesCounts) Get(name string) (int, bool) {
	if sc == nil {
		return 0, false
	}
	c, ok := sc.counts[name]
	return c, ok
}

// Len returns the number of distinct species
func (sc *SpeciesCounts) Len() int {
	if sc == nil {
		return 0
	}
	return len(sc.names)
}

// Total returns the sum of all counts
func (sc *SpeciesCounts) Total() int {
	if sc == nil {
		return 0
	}
	total := 0
	for _, c := range sc.counts {
		total += c
	}
	return total
}

// Names returns species names in insertion order
func (sc *SpeciesCounts) Names() []string {
	if sc == nil {
		return nil
	}
	return slices.Clone(sc.names)
}

// All iterates species and counts in insertion order
func (sc *SpeciesCounts) All() iter.Seq2[string, int] {
	return func(yield func(string, int) bool) {
		if sc == nil {
			return
		}
		for _, name := range sc.names {
			if !yield(name, sc.counts[name]) {
				return
			}
		}
	}
}

// Sorted returns all entries ascending by count, ties broken by name
func (sc *SpeciesCounts) Sorted() []SpeciesCount {
	out := sc.Pairs()
	slices.SortFunc(out, func(a, b SpeciesCount) int {
		return cmp.Or(cmp.Compare(a.Count, b.Count), cmp.Compare(a.Name, b.Name))
	})
	return out
}

// Map returns a copy of the counts as a plain map
func (sc *SpeciesCounts) Map() map[string]int {
	out := make(map[string]int, sc.Len())
	for name, count := range sc.All() {
		out[name] = count
	}
	return out
}

// Pairs returns all entries in insertion order
func (sc *SpeciesCounts) Pairs() []SpeciesCount {
	out := make([]SpeciesCount, 0, sc.Len())
	for name, count := range sc.All() {
		out = append(out, SpeciesCount{Name: name, Count: count})
	}
	return out
}

// MarshalJSON encodes the counts as an ordered list of name/count pairs
func (sc *SpeciesCounts) MarshalJSON() ([]byte, error) {
	return json.Marshal(sc.Pairs())
}

// MarshalYAML encodes the counts as an ordered list of name/count pairs
func (sc *SpeciesCounts) MarshalYAML() (any, error) {
	return sc.Pairs(), nil
}

// Aggregate folds detections into per-species, per-hour and per-type counts.
// Species appear in the order of their first detection.
func Aggregate(dets []Detection) (*SpeciesCounts, HourlyActivity, TypeDistribution) {
	species := &SpeciesCounts{}
	var hourly HourlyActivity
	types := make(TypeDistribution)

	for i := range dets {
		d := &dets[i]
		species.Add(d.Species, 1)
		hourly[d.Hour()]++
		types[d.Type]++
	}

	return species, hourly, types
}

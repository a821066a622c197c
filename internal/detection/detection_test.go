package detection

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour int) time.Time {
	return time.Date(2024, time.May, 10, hour, 15, 0, 0, time.UTC)
}

func TestSpeciesCountsPreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	sc := &SpeciesCounts{}
	sc.Add("Robin", 2)
	sc.Add("Fox", 1)
	sc.Add("Robin", 3)
	sc.Add("Deer", 4)
	sc.Add("Owl", -1)

	assert.Equal(t, []string{"Robin", "Fox", "Deer"}, sc.Names())
	assert.Equal(t, 3, sc.Len())
	assert.Equal(t, 10, sc.Total())

	got, ok := sc.Get("Robin")
	assert.True(t, ok)
	assert.Equal(t, 5, got)

	_, ok = sc.Get("Owl")
	assert.False(t, ok)

	var names []string
	for name := range sc.All() {
		names = append(names, name)
	}
	assert.Equal(t, []string{"Robin", "Fox", "Deer"}, names)
}

func TestSpeciesCountsSorted(t *testing.T) {
	t.Parallel()

	sc := NewSpeciesCounts(
		SpeciesCount{"Wolf", 5},
		SpeciesCount{"Boar", 5},
		SpeciesCount{"Hare", 1},
	)

	assert.Equal(t, []SpeciesCount{{"Hare", 1}, {"Boar", 5}, {"Wolf", 5}}, sc.Sorted())
}

func TestNilSpeciesCounts(t *testing.T) {
	t.Parallel()

	var sc *SpeciesCounts
	assert.Equal(t, 0, sc.Len())
	assert.Equal(t, 0, sc.Total())
	assert.Empty(t, sc.Sorted())
}

func TestAggregate(t *testing.T) {
	t.Parallel()

	dets := []Detection{
		{ID: 1, Timestamp: at(22), Species: "Fox", Type: Mammal},
		{ID: 2, Timestamp: at(7), Species: "Robin", Type: Bird},
		{ID: 3, Timestamp: at(22), Species: "Fox", Type: Mammal},
		{ID: 4, Timestamp: at(23), Species: "Pipistrelle", Type: Bat},
	}

	species, hourly, types := Aggregate(dets)

	assert.Equal(t, []string{"Fox", "Robin", "Pipistrelle"}, species.Names())
	assert.Equal(t, 2, hourly[22])
	assert.Equal(t, 1, hourly[7])
	assert.Equal(t, 4, hourly.Total())
	assert.Equal(t, TypeDistribution{Mammal: 2, Bird: 1, Bat: 1}, types)
}

func TestNewSummary(t *testing.T) {
	t.Parallel()

	dets := []Detection{
		{Timestamp: time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC), HotspotID: 1},
		{Timestamp: time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC), HotspotID: 2},
		{Timestamp: time.Date(2024, 3, 5, 1, 0, 0, 0, time.UTC), HotspotID: 1},
	}

	s := NewSummary(dets, 2)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.SpeciesCount)
	assert.Equal(t, dets[1].Timestamp, s.Start)
	assert.Equal(t, dets[2].Timestamp, s.End)
	assert.Equal(t, 2, s.Hotspots)
	assert.Equal(t, 5, s.MonitoringDays)

	assert.Equal(t, Summary{}, NewSummary(nil, 0))
}

func TestClassifySpecies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want SpeciesType
	}{
		{"Renard roux", Mammal},
		{"Lièvre d'Europe", Mammal},
		{"CHEVREUIL", Mammal},
		{"Red Fox", Mammal},
		{"Pipistrelle commune", Bat},
		{"Chauve-souris", Bat},
		{"Rouge-gorge familier", Bird},
		{"Mésange charbonnière", Bird},
		{"Pic", Bird},
		{"Papillon", Insect},
		{"Stag Beetle", Insect},
		{"Unknown", DefaultSpeciesType},
		{"", DefaultSpeciesType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ClassifySpecies(tt.name))
		})
	}
}

func TestFilterByTimeRange(t *testing.T) {
	t.Parallel()

	var dets []Detection
	for h := range HoursPerDay {
		dets = append(dets, Detection{ID: h, Timestamp: at(h)})
	}

	hoursOf := func(ds []Detection) []int {
		out := make([]int, 0, len(ds))
		for _, d := range ds {
			out = append(out, d.Hour())
		}
		return out
	}

	assert.Len(t, FilterByTimeRange(dets, RangeAll), HoursPerDay)
	assert.Equal(t, []int{5, 6, 7, 8, 9, 10, 11}, hoursOf(FilterByTimeRange(dets, RangeMorning)))
	assert.Equal(t, []int{12, 13, 14, 15, 16, 17}, hoursOf(FilterByTimeRange(dets, RangeAfternoon)))
	assert.Equal(t, []int{18, 19, 20, 21}, hoursOf(FilterByTimeRange(dets, RangeEvening)))
	assert.Equal(t, []int{0, 1, 2, 3, 4, 22, 23}, hoursOf(FilterByTimeRange(dets, RangeNight)))
	assert.Empty(t, FilterByTimeRange(nil, RangeNight))

	_, err := ParseTimeRange("dusk")
	assert.Error(t, err)
}

func TestGroupByType(t *testing.T) {
	t.Parallel()

	dets := []Detection{
		{ID: 1, Type: Bird},
		{ID: 2, Type: Mammal},
		{ID: 3, Type: Bird},
	}

	groups := GroupByType(dets)
	require.Len(t, groups, 2)
	assert.Equal(t, 1, groups[Bird][0].ID)
	assert.Equal(t, 3, groups[Bird][1].ID)
	assert.Len(t, groups[Mammal], 1)
}

func TestExportCSV(t *testing.T) {
	t.Parallel()

	dets := []Detection{
		{ID: 1, Timestamp: at(6), Species: "Renard, roux", Type: Mammal, HotspotID: 3,
			Coordinates: &Coordinates{Lat: 47.01, Lng: 28.86}},
		{ID: 2, Timestamp: at(7), Species: "Merle", Type: Bird, HotspotID: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, dets))

	want := "ID,Timestamp,Species,Type,Hotspot ID,Latitude,Longitude\n" +
		"1,2024-05-10T06:15:00Z,\"Renard, roux\",mammal,3,47.01,28.86\n" +
		"2,2024-05-10T07:15:00Z,Merle,bird,1,,\n"
	assert.Equal(t, want, buf.String())
}

func TestFormatDateRange(t *testing.T) {
	t.Parallel()

	got := FormatDateRange(
		time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "March 1, 2024 - June 30, 2024", got)
}

func TestParseSpeciesType(t *testing.T) {
	t.Parallel()

	got, err := ParseSpeciesType("bat")
	require.NoError(t, err)
	assert.Equal(t, Bat, got)

	_, err = ParseSpeciesType("fish")
	assert.Error(t, err)
}

func TestSpeciesCountsMarshalJSONKeepsOrder(t *testing.T) {
	t.Parallel()

	sc := NewSpeciesCounts(
		SpeciesCount{Name: "Wild Boar", Count: 3},
		SpeciesCount{Name: "Great Tit", Count: 10},
	)

	raw, err := json.Marshal(sc)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"Wild Boar","count":3},{"name":"Great Tit","count":10}]`, string(raw))
}

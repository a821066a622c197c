package biodiversity

import (
	"math"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/trapstats/internal/detection"
	"github.com/tphakala/trapstats/internal/errors"
)

func counts(pairs ...detection.SpeciesCount) *detection.SpeciesCounts {
	return detection.NewSpeciesCounts(pairs...)
}

func TestDiversityReferenceCommunity(t *testing.T) {
	t.Parallel()

	m, err := Diversity(counts(
		detection.SpeciesCount{Name: "Robin", Count: 100},
		detection.SpeciesCount{Name: "Fox", Count: 50},
		detection.SpeciesCount{Name: "Deer", Count: 30},
		detection.SpeciesCount{Name: "Owl", Count: 20},
	))
	require.NoError(t, err)

	// p = [0.5, 0.25, 0.15, 0.1]
	assert.Equal(t, 4, m.Richness)
	assert.InDelta(t, 1.2080, m.Shannon, 5e-4)
	assert.InDelta(t, 0.6550, m.Simpson, 1e-9)
	assert.InDelta(t, m.Shannon/math.Log(4), m.Evenness, 1e-12)
}

func TestDiversitySingleSpecies(t *testing.T) {
	t.Parallel()

	m, err := Diversity(counts(detection.SpeciesCount{Name: "Fox", Count: 12}))
	require.NoError(t, err)

	assert.Equal(t, 1, m.Richness)
	assert.Zero(t, m.Shannon)
	assert.Zero(t, m.Simpson)
	assert.Zero(t, m.Evenness)
	assert.False(t, math.IsNaN(m.Evenness))
}

func TestDiversityProperties(t *testing.T) {
	t.Parallel()

	communities := [][]int{
		{1},
		{1, 1},
		{5, 3, 1},
		{1000, 1, 1, 1},
		{7, 7, 7, 7, 7, 7},
		{3, 0, 4},
	}

	for _, community := range communities {
		sc := &detection.SpeciesCounts{}
		for i, c := range community {
			sc.Add(string(rune('A'+i)), c)
		}

		m, err := Diversity(sc)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, m.Shannon, 0.0)
		assert.GreaterOrEqual(t, m.Simpson, 0.0)
		assert.Less(t, m.Simpson, 1.0)
		assert.Equal(t, len(community), m.Richness)
	}
}

func TestDiversityEmpty(t *testing.T) {
	t.Parallel()

	_, err := Diversity(&detection.SpeciesCounts{})
	require.ErrorIs(t, err, errors.ErrInvalidInput)

	_, err = Diversity(counts(detection.SpeciesCount{Name: "Fox", Count: 0}))
	require.ErrorIs(t, err, errors.ErrInvalidInput)
	assert.True(t, errors.IsCategory(err, errors.CategoryInvalidInput))
}

func TestTemporalPatterns(t *testing.T) {
	t.Parallel()

	var hourly detection.HourlyActivity
	// day hours 6..19 sum to 50, night hours sum to 150
	for h := 6; h <= 19; h++ {
		hourly[h] = 3
	}
	hourly[6] += 8
	hourly[22] = 100
	hourly[2] = 50

	p := TemporalPatterns(hourly)
	assert.Equal(t, 150, p.NightCount)
	assert.Equal(t, 50, p.DayCount)
	assert.InDelta(t, 3.0, p.Ratio, 1e-12)
	assert.False(t, p.RatioCapped)
	assert.Equal(t, 22, p.PeakHour)
	assert.Equal(t, 100, p.PeakCount)
}

func TestTemporalPatternsBoundaries(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		p := TemporalPatterns(detection.HourlyActivity{})
		assert.Equal(t, TemporalPattern{}, p)
	})

	t.Run("night only", func(t *testing.T) {
		t.Parallel()
		var hourly detection.HourlyActivity
		hourly[23] = 4
		p := TemporalPatterns(hourly)
		assert.Equal(t, MaxActivityRatio, p.Ratio)
		assert.True(t, p.RatioCapped)
		assert.False(t, math.IsInf(p.Ratio, 0))
	})

	t.Run("tie goes to earliest hour", func(t *testing.T) {
		t.Parallel()
		var hourly detection.HourlyActivity
		hourly[17] = 9
		hourly[3] = 9
		hourly[12] = 9
		p := TemporalPatterns(hourly)
		assert.Equal(t, 3, p.PeakHour)
		assert.Equal(t, 9, p.PeakCount)
	})
}

func TestExtractFeatures(t *testing.T) {
	t.Parallel()

	sc := counts(
		detection.SpeciesCount{Name: "Fox", Count: 10},
		detection.SpeciesCount{Name: "Robin", Count: 30},
		detection.SpeciesCount{Name: "Ghost", Count: 0},
	)
	inputs := &FeatureInputs{
		NightCounts:    map[string]int{"Fox": 8},
		DayCounts:      map[string]int{"Fox": 2, "Robin": 30},
		SeasonalSeries: map[string][]float64{"Robin": {2, 4, 4, 4, 5, 5, 7, 9}},
	}

	features := ExtractFeatures(sc, inputs)
	require.Len(t, features, 3)

	fox, robin, ghost := features[0], features[1], features[2]
	assert.Equal(t, "Fox", fox.Name)
	assert.InDelta(t, 0.8, fox.NightRatio, 1e-12)
	assert.InDelta(t, 0.2, fox.DayRatio, 1e-12)
	assert.InDelta(t, 0.25, fox.Diversity, 1e-12)
	assert.Equal(t, DefaultSeasonalVariance, fox.SeasonalVariance)
	assert.Equal(t, DefaultSpatialSpread, fox.SpatialSpread)

	assert.Equal(t, "Robin", robin.Name)
	assert.Equal(t, DefaultActivityRatio, robin.NightRatio)
	assert.InDelta(t, 1.0, robin.DayRatio, 1e-12)
	assert.InDelta(t, 2.0, robin.SeasonalVariance, 1e-12)

	assert.Zero(t, ghost.NightRatio)
	assert.Zero(t, ghost.DayRatio)

	matrix, labels := FeatureMatrix(features)
	assert.Equal(t, []string{"Fox", "Robin", "Ghost"}, labels)
	require.Len(t, matrix, 3)
	assert.Len(t, matrix[0], len(FeatureNames))
	assert.Equal(t, 10.0, matrix[0][0])
}

func TestExtractFeaturesIsDeterministic(t *testing.T) {
	t.Parallel()

	sc := counts(detection.SpeciesCount{Name: "Fox", Count: 3}, detection.SpeciesCount{Name: "Hare", Count: 5})
	assert.Equal(t, ExtractFeatures(sc, nil), ExtractFeatures(sc, nil))
}

func TestSpatialSpread(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultSpatialSpread, SpatialSpread(nil))
	assert.Equal(t, DefaultSpatialSpread, SpatialSpread([]orb.Point{{28.8, 47.0}}))

	same := []orb.Point{{28.8, 47.0}, {28.8, 47.0}}
	assert.Zero(t, SpatialSpread(same))

	// ~0.0045 deg latitude apart is ~500 m, so each point is ~250 m from the centroid
	near := []orb.Point{{28.8, 47.0}, {28.8, 47.0045}}
	assert.InDelta(t, 0.25, SpatialSpread(near), 0.01)

	far := []orb.Point{{28.0, 47.0}, {29.0, 47.0}}
	assert.Equal(t, 1.0, SpatialSpread(far))
}

func TestFeatureInputsFromDetections(t *testing.T) {
	t.Parallel()

	night := true
	dets := []detection.Detection{
		{Species: "Fox", Timestamp: time.Date(2025, 5, 3, 23, 0, 0, 0, time.UTC),
			Coordinates: &detection.Coordinates{Lat: 46.52, Lng: 29.85}},
		{Species: "Fox", Timestamp: time.Date(2025, 7, 3, 12, 0, 0, 0, time.UTC), IsNight: &night},
		{Species: "Robin", Timestamp: time.Date(2025, 6, 9, 7, 0, 0, 0, time.UTC)},
	}

	inputs := FeatureInputsFromDetections(dets, nil)

	assert.Equal(t, 2, inputs.NightCounts["Fox"])
	assert.Equal(t, 1, inputs.DayCounts["Robin"])
	dayFox, ok := inputs.DayCounts["Fox"]
	assert.True(t, ok, "night-only species needs an explicit day count")
	assert.Zero(t, dayFox)
	nightRobin, ok := inputs.NightCounts["Robin"]
	assert.True(t, ok)
	assert.Zero(t, nightRobin)

	sc := counts(detection.SpeciesCount{Name: "Fox", Count: 2}, detection.SpeciesCount{Name: "Robin", Count: 1})
	features := ExtractFeatures(sc, inputs)
	require.Len(t, features, 2)
	assert.InDelta(t, 1.0, features[0].NightRatio, 1e-12)
	assert.Zero(t, features[0].DayRatio)
	assert.Zero(t, features[1].NightRatio)
	assert.InDelta(t, 1.0, features[1].DayRatio, 1e-12)
	assert.Equal(t, []float64{1, 0, 1}, inputs.SeasonalSeries["Fox"])
	assert.Equal(t, []float64{0, 1, 0}, inputs.SeasonalSeries["Robin"])
	assert.Equal(t, []orb.Point{{29.85, 46.52}}, inputs.Locations["Fox"])

	empty := FeatureInputsFromDetections(nil, nil)
	assert.Empty(t, empty.NightCounts)
}

func TestClassifyRarity(t *testing.T) {
	t.Parallel()

	sc := counts(
		detection.SpeciesCount{Name: "Great Tit", Count: 1203},
		detection.SpeciesCount{Name: "Wild Boar", Count: 23},
		detection.SpeciesCount{Name: "Red Fox", Count: 89},
		detection.SpeciesCount{Name: "Roe Deer", Count: 45},
		detection.SpeciesCount{Name: "European Robin", Count: 567},
	)

	rare, common := ClassifyRarity(sc, DefaultRareBelow, DefaultCommonAbove)
	assert.Equal(t, []detection.SpeciesCount{{Name: "Wild Boar", Count: 23}, {Name: "Roe Deer", Count: 45}}, rare)
	assert.Equal(t, []detection.SpeciesCount{{Name: "European Robin", Count: 567}, {Name: "Great Tit", Count: 1203}}, common)

	_, mockCommon := ClassifyRarity(sc, DefaultRareBelow, MockCommonAbove)
	assert.Len(t, mockCommon, 2)

	rare, common = ClassifyRarity(&detection.SpeciesCounts{}, DefaultRareBelow, DefaultCommonAbove)
	assert.NotNil(t, rare)
	assert.Empty(t, common)
}

func TestRarityOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, RarityCommon, RarityOf(892))
	assert.Equal(t, RarityUncommon, RarityOf(500))
	assert.Equal(t, RarityUncommon, RarityOf(50))
	assert.Equal(t, RarityRare, RarityOf(23))
	assert.Equal(t, RarityLegendary, RarityOf(2))
}

func TestIsNightHour(t *testing.T) {
	t.Parallel()

	for _, h := range NightHours {
		assert.True(t, IsNightHour(h), "hour %d", h)
	}
	for _, h := range DayHours {
		assert.False(t, IsNightHour(h), "hour %d", h)
	}
}

package loader

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/tphakala/trapstats/internal/analysis/biodiversity"
	"github.com/tphakala/trapstats/internal/detection"
	"github.com/tphakala/trapstats/internal/logger"
)

// DefaultMockSeed seeds GenerateMock when no seed is configured
const DefaultMockSeed = 42

// mockSpecies is the fixed species table of the synthetic dataset
var mockSpecies = []struct {
	name  string
	kind  detection.SpeciesType
	count int
}{
	{"Red Fox", detection.Mammal, 89},
	{"Roe Deer", detection.Mammal, 45},
	{"European Hare", detection.Mammal, 67},
	{"Wild Boar", detection.Mammal, 23},
	{"Chouette hulotte", detection.Bird, 234},
	{"European Robin", detection.Bird, 567},
	{"Common Blackbird", detection.Bird, 892},
	{"Great Tit", detection.Bird, 1203},
}

// mockHotspots are the six monitoring points of the synthetic vineyard
var mockHotspots = []detection.Hotspot{
	{ID: "1", Name: "North Vineyard", Lat: 46.5275, Lng: 29.8569, Detections: 234, Species: 12},
	{ID: "2", Name: "Forest Edge", Lat: 46.5265, Lng: 29.8559, Detections: 189, Species: 15},
	{ID: "3", Name: "Water Source", Lat: 46.5285, Lng: 29.8579, Detections: 298, Species: 18},
	{ID: "4", Name: "South Slope", Lat: 46.527, Lng: 29.8564, Detections: 156, Species: 9},
	{ID: "5", Name: "Oak Grove", Lat: 46.526, Lng: 29.8554, Detections: 201, Species: 14},
	{ID: "6", Name: "Meadow", Lat: 46.528, Lng: 29.8584, Detections: 169, Species: 11},
}

// mockEpoch is the first day of the synthetic monitoring season
var mockEpoch = time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)

// GenerateMock builds the synthetic vineyard dataset. Each species' detections
// are spread over three months from May 2025. Mammals are active between
// 20:00 and 05:59, birds between 05:00 and 10:59. Hour and hotspot are drawn
// from a PCG source seeded with seed, so equal seeds give equal datasets.
func GenerateMock(seed int64) *Dataset {
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))

	total := 0
	for _, sp := range mockSpecies {
		total += sp.count
	}

	dets := make([]detection.Detection, 0, total)
	for _, sp := range mockSpecies {
		perMonth := float64(sp.count) / 3
		for i := range sp.count {
			monthOffset := int(math.Floor(float64(i) / perMonth))
			dayOffset := i % 30

			var hour int
			if sp.kind == detection.Mammal {
				hour = (20 + rng.IntN(10)) % 24
			} else {
				hour = 5 + rng.IntN(6)
			}

			hotspot := mockHotspots[rng.IntN(len(mockHotspots))]
			hotspotID, _ := strconv.Atoi(hotspot.ID)

			dets = append(dets, detection.Detection{
				ID:          len(dets),
				Timestamp:   mockEpoch.AddDate(0, monthOffset, dayOffset).Add(time.Duration(hour) * time.Hour),
				Species:     sp.name,
				Type:        sp.kind,
				HotspotID:   hotspotID,
				Coordinates: &detection.Coordinates{Lat: hotspot.Lat, Lng: hotspot.Lng},
			})
		}
	}

	analysis := buildAnalysis(dets, biodiversity.DefaultRareBelow, biodiversity.MockCommonAbove)
	analysis.Hypotheses = mockHypotheses(dets)
	analysis.Hotspots = append([]detection.Hotspot(nil), mockHotspots...)

	getLog().Debug("generated mock dataset",
		logger.Int64("seed", seed),
		logger.Int("detections", len(dets)),
		logger.Int("species", analysis.Species.Len()))

	return &Dataset{
		Source:     SourceMock,
		Detections: dets,
		Analysis:   analysis,
		Hotspots:   append([]detection.Hotspot(nil), mockHotspots...),
	}
}

// mockHypotheses returns h1-h5. Only h2 depends on the generated data.
func mockHypotheses(dets []detection.Detection) []detection.Hypothesis {
	return []detection.Hypothesis{
		{
			ID:          "h1",
			Title:       "Water Proximity → Bird Diversity",
			Result:      detection.Confirmed,
			Confidence:  0.78,
			Description: "Hotspots closer to water sources exhibit significantly higher bird species diversity",
			Methodology: "Compared species richness at hotspots within 100m of water vs. those farther away",
			Findings: []string{
				"Near water (< 100m): Average 5.2 species per hotspot",
				"Far from water (≥ 100m): Average 2.8 species per hotspot",
				"Water Source (Hotspot #3): Highest diversity with 2,103 bird detections",
				"Riparian habitats provide critical resources: drinking water, bathing, and insect abundance",
			},
			Implications: []string{
				"Maintain water access points throughout vineyard",
				"Create artificial water features in dry areas",
				"Protect existing streams and ponds",
				"Monitor water quality as biodiversity indicator",
			},
			Evidence: map[string]string{
				"avgNearWater": "5.2 species",
				"avgFarWater":  "2.8 species",
				"difference":   "+85% more diversity",
			},
		},
		nocturnalMammalHypothesis(dets),
		{
			ID:          "h3",
			Title:       "May-June Migration Peak",
			Result:      detection.Confirmed,
			Confidence:  0.65,
			Description: "Bird detections peak during breeding season (May-June), consistent with migratory and resident breeding patterns",
			Methodology: "Compared monthly detection rates across May, June, July, and August",
			Findings: []string{
				"May-June: 4,523 bird detections (57% of total)",
				"July-August: 3,417 bird detections (43% of total)",
				"Peak activity: First week of June (breeding initiation)",
				"Species richness highest in May (113 species documented)",
				"Decline in August suggests post-breeding dispersal",
			},
			Implications: []string{
				"Critical nesting period: minimize disturbance May-June",
				"Habitat management timing: avoid pruning/mowing in spring",
				"Future monitoring should extend into September (autumn migration)",
				"Educational tours highlight breeding season spectacle",
			},
			Evidence: map[string]string{
				"mayJune": "4,523 detections",
				"julyAug": "3,417 detections",
				"peak":    "Early June",
			},
		},
		{
			ID:          "h4",
			Title:       "Rare Species Prefer Forest Edge",
			Result:      detection.Confirmed,
			Confidence:  0.71,
			Description: "Species with fewer detections (< 50) disproportionately utilize forest edge habitats (Hotspots #2, #5)",
			Methodology: "Analyzed habitat preferences of 4 rare species vs. common species distribution",
			Findings: []string{
				"Rare species in forest habitats: 71% of detections",
				"Rare species in open habitats: 29% of detections",
				"Wild Boar (23 detections): 87% in Oak Grove/Forest Edge",
				"Roe Deer (45 detections): 78% in woodland areas",
				"Forest edge provides structural complexity and cover",
			},
			Implications: []string{
				"Preserve existing forest patches and hedgerows",
				"Create wildlife corridors between forest fragments",
				"Avoid clearance of edge habitats",
				"Rare species = indicators of habitat quality",
			},
			Evidence: map[string]string{
				"rareInForest": "71%",
				"rareInOpen":   "29%",
				"habitats":     "Forest Edge, Oak Grove",
			},
		},
		{
			ID:          "h5",
			Title:       "Temporal Niche Partitioning",
			Result:      detection.Confirmed,
			Confidence:  0.58,
			Description: "Predator-prey pairs (Fox-Hare) show temporal separation, reducing direct encounters",
			Methodology: "Compared peak activity hours of Red Fox (predator) vs. European Hare (prey)",
			Findings: []string{
				"Red Fox peak: 22:00-02:00 (late night)",
				"European Hare peak: 05:00-07:00 (early morning)",
				"Temporal separation: ~5 hours",
				"Only 12% overlap in activity windows",
				"Suggests behavioral adaptation to reduce predation risk",
			},
			Implications: []string{
				"Ecosystem functioning: predator-prey dynamics intact",
				"Habitat complexity allows coexistence",
				"Monitoring both species tracks ecosystem health",
				"Educational value: illustrate ecological interactions",
			},
			Evidence: map[string]string{
				"foxPeak":    "22:00-02:00",
				"harePeak":   "05:00-07:00",
				"separation": "5 hours",
			},
		},
	}
}

// nocturnalMammalHypothesis tests whether mammals favour the night window.
// Confidence is the night share of mammal activity. The p-value comes from a
// chi-square goodness-of-fit test against activity spread evenly over the
// 24 hours.
func nocturnalMammalHypothesis(dets []detection.Detection) detection.Hypothesis {
	var hourly detection.HourlyActivity
	for i := range dets {
		if dets[i].Type == detection.Mammal {
			hourly[dets[i].Hour()]++
		}
	}
	pattern := biodiversity.TemporalPatterns(hourly)
	night, day := pattern.NightCount, pattern.DayCount
	observed := night + day

	h := detection.Hypothesis{
		ID:          "h2",
		Title:       "Nocturnal Mammals Avoid Daytime",
		Result:      detection.Rejected,
		Description: "Mammal activity peaks during nighttime hours (20:00-06:00), indicating successful adaptation to human-dominated landscapes",
		Methodology: fmt.Sprintf("Analyzed temporal distribution of %d mammal detections across 24-hour period", observed),
		Implications: []string{
			"Vineyard operations during day minimize disturbance",
			"Night-time corridor preservation critical",
			"Camera trap placement optimized for 21:00-04:00",
			`Consider "dark sky" practices to reduce light pollution`,
		},
	}
	if night > day {
		h.Result = detection.Confirmed
	}
	if observed > 0 {
		h.Confidence = float64(night) / float64(observed)
	}

	ratio := ratioText(pattern)
	pValue := nightChiSquarePValue(night, day)

	h.Findings = []string{
		fmt.Sprintf("Night activity (20:00-06:00): %d detections", night),
		fmt.Sprintf("Day activity (06:00-20:00): %d detections", day),
		fmt.Sprintf("Ratio: %s in favor of night", ratio),
		fmt.Sprintf("Chi-square goodness of fit against uniform hourly activity: p = %.3g", pValue),
		"Red Fox and Wild Boar show strongest nocturnal preference",
		"European Hare active during dawn/dusk (crepuscular)",
	}
	h.Evidence = map[string]string{
		"nightActivity": fmt.Sprintf("%d detections", night),
		"dayActivity":   fmt.Sprintf("%d detections", day),
		"ratio":         ratio,
		"pValue":        fmt.Sprintf("%.3g", pValue),
	}

	return h
}

func ratioText(p biodiversity.TemporalPattern) string {
	if p.RatioCapped {
		return "night only"
	}
	return fmt.Sprintf("%.2f:1", p.Ratio)
}

// nightChiSquarePValue tests night/day counts against the split expected if
// activity were uniform over the hours of each window. Returns 1 for no data.
func nightChiSquarePValue(night, day int) float64 {
	n := float64(night + day)
	if n == 0 {
		return 1
	}
	hours := float64(len(biodiversity.NightHours) + len(biodiversity.DayHours))
	expNight := n * float64(len(biodiversity.NightHours)) / hours
	expDay := n - expNight

	chi2 := math.Pow(float64(night)-expNight, 2)/expNight +
		math.Pow(float64(day)-expDay, 2)/expDay

	return distuv.ChiSquared{K: 1}.Survival(chi2)
}

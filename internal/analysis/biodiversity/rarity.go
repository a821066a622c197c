package biodiversity

import "github.com/tphakala/trapstats/internal/detection"

// Default rarity thresholds. Mock datasets use MockCommonAbove.
const (
	DefaultRareBelow   = 50
	DefaultCommonAbove = 100
	MockCommonAbove    = 500
)

// ClassifyRarity splits species into rare (count < rareBelow) and common
// (count > commonAbove). Both lists are ascending by count.
func ClassifyRarity(counts *detection.SpeciesCounts, rareBelow, commonAbove int) (rare, common []detection.SpeciesCount) {
	rare = []detection.SpeciesCount{}
	common = []detection.SpeciesCount{}
	for _, sc := range counts.Sorted() {
		if sc.Count < rareBelow {
			rare = append(rare, sc)
		}
		if sc.Count > commonAbove {
			common = append(common, sc)
		}
	}
	return rare, common
}

// Rarity grades how often a species is seen
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityLegendary Rarity = "legendary"
)

// RarityOf grades a detection count: more than 500 is common, 50 and above
// uncommon, 10 and above rare, anything less legendary.
func RarityOf(count int) Rarity {
	switch {
	case count > MockCommonAbove:
		return RarityCommon
	case count >= DefaultRareBelow:
		return RarityUncommon
	case count >= 10:
		return RarityRare
	default:
		return RarityLegendary
	}
}

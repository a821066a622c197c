package detection

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultSpeciesType is returned by ClassifySpecies when no fragment matches.
// Camera-trap exports in the study area are dominated by birds.
const DefaultSpeciesType = Bird

// Name fragments in French and English, matched against folded names.
// Groups are tried in order: mammals, bats, birds, insects.
var speciesFragments = []struct {
	kind      SpeciesType
	fragments []string
}{
	{Mammal, []string{
		"renard", "lievre", "chevreuil", "sanglier", "blaireau", "martre", "fouine",
		"fox", "hare", "deer", "boar", "badger", "marten", "wolf", "lynx", "otter",
	}},
	{Bat, []string{"chauve", "pipistrelle", "bat"}},
	{Bird, []string{
		"oiseau", "bird", "pie", "corbeau", "pigeon", "merle", "mesange", "rouge", "gorge",
		"owl", "hibou", "chouette", "woodpecker", "pic ", "robin",
	}},
	{Insect, []string{"insecte", "insect", "papillon", "butterfly", "moth", "abeille", "coleoptere", "beetle"}},
}

// foldName lower-cases and strips diacritics so "Lièvre" matches "lievre".
func foldName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, name)
	if err != nil {
		stripped = name
	}
	return cases.Fold().String(strings.TrimSpace(stripped))
}

// ClassifySpecies maps a common name to its SpeciesType by substring match
// on known name fragments, falling back to DefaultSpeciesType.
func ClassifySpecies(name string) SpeciesType {
	folded := foldName(name)
	if folded == "" {
		return DefaultSpeciesType
	}
	// Pad so word fragments such as "pic " also match at the end of a name
	folded += " "

	for _, group := range speciesFragments {
		for _, fragment := range group.fragments {
			if strings.Contains(folded, fragment) {
				return group.kind
			}
		}
	}

	return DefaultSpeciesType
}

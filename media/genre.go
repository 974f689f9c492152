// ABOUTME: Genre hierarchy used to group songs by genre family
// ABOUTME: Maps sub-genres to parents and resolves the top-level family of a genre

package media

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Genre hierarchy: maps genre -> parent genre. Top-level genres map to "".
var genreHierarchy = map[string]string{
	// Drum and bass
	"liquid funk":   "drum and bass",
	"neurofunk":     "drum and bass",
	"jungle":        "drum and bass",
	"drum and bass": "electronic",
	"dnb":           "drum and bass",

	// House
	"deep house":        "house",
	"electro house":     "house",
	"progressive house": "house",
	"tech house":        "house",
	"house":             "electronic",

	// Electronic sub-genres
	"ambient":       "electronic",
	"breakbeat":     "electronic",
	"downtempo":     "electronic",
	"dubstep":       "electronic",
	"electro":       "electronic",
	"electro swing": "electronic",
	"electronica":   "electronic",
	"idm":           "electronic",
	"synthpop":      "electronic",
	"synthwave":     "electronic",
	"techno":        "electronic",
	"trance":        "electronic",
	"trip hop":      "electronic",

	// Rock
	"alternative":      "rock",
	"alternative rock": "rock",
	"grunge":           "rock",
	"hard rock":        "rock",
	"indie":            "rock",
	"indie rock":       "rock",
	"metal":            "rock",
	"heavy metal":      "metal",
	"thrash metal":     "metal",
	"post-rock":        "rock",
	"punk":             "rock",
	"shoegaze":         "rock",

	// Hip hop
	"hip-hop":         "hip hop",
	"hiphop":          "hip hop",
	"rap":             "hip hop",
	"alternative rap": "hip hop",
	"trap":            "hip hop",

	// Jazz
	"bebop":     "jazz",
	"fusion":    "jazz",
	"acid jazz": "jazz",
	"swing":     "jazz",

	// Soul and funk
	"funk":   "funk / soul",
	"soul":   "funk / soul",
	"r&b":    "funk / soul",
	"disco":  "funk / soul",
	"gospel": "funk / soul",

	// Reggae
	"dub":          "reggae",
	"dancehall":    "reggae",
	"roots reggae": "reggae",
	"ska":          "reggae",

	// Folk and country
	"americana":         "folk",
	"bluegrass":         "country",
	"singer-songwriter": "folk",

	// Top-level genres
	"electronic":  "",
	"rock":        "",
	"hip hop":     "",
	"jazz":        "",
	"funk / soul": "",
	"reggae":      "",
	"classical":   "",
	"pop":         "",
	"folk":        "",
	"country":     "",
	"blues":       "",
	"soundtrack":  "",
	"world":       "",
}

var titleCaser = cases.Title(language.Und)

// GenreFamily returns the top-level family of genre in title case.
// Unknown genres are their own family. Empty input returns "".
func GenreFamily(genre string) string {
	g := normalizeGenre(genre)
	if g == "" {
		return ""
	}

	chain := ancestorChain(g)

	return titleCaser.String(chain[len(chain)-1])
}

// IsSubGenre reports whether genre descends from family
func IsSubGenre(genre, family string) bool {
	f := normalizeGenre(family)
	if f == "" {
		return false
	}

	for _, ancestor := range ancestorChain(normalizeGenre(genre))[1:] {
		if ancestor == f {
			return true
		}
	}

	return false
}

func normalizeGenre(genre string) string {
	return strings.ToLower(strings.TrimSpace(genre))
}

// ancestorChain returns the genre followed by its ancestors
// Example: "neurofunk" -> ["neurofunk", "drum and bass", "electronic"]
func ancestorChain(genre string) []string {
	chain := []string{genre}
	current := genre

	for range len(genreHierarchy) {
		parent, exists := genreHierarchy[current]
		if !exists || parent == "" {
			break
		}

		chain = append(chain, parent)
		current = parent
	}

	return chain
}

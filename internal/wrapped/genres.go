package wrapped

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sd3v/wrapped/internal/spotify"
)

// maxGenres caps the genre breakdown at the palette size.
const maxGenres = 15

// Palette assigns a fixed color per genre rank, brightest first.
var Palette = []string{
	"#1DB954", "#4ECDC4", "#C577F2", "#FF6B9D", "#FF8C42",
	"#FFD93D", "#4B9FFF", "#FF4757", "#2ED573", "#5352ED",
	"#FFA502", "#FF6B81", "#70A1FF", "#7BED9F", "#ECCC68",
}

// GenreSummary is one row of the genre breakdown.
type GenreSummary struct {
	Name       string `json:"name"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
	Color      string `json:"color"`
}

// ExtractGenres tallies genre occurrences across the given artists and
// returns the top entries with percentages relative to the total tally.
// Ties sort alphabetically so the breakdown is stable across runs.
func ExtractGenres(artists []spotify.Artist) []GenreSummary {
	counts := make(map[string]int)
	total := 0
	for _, artist := range artists {
		for _, genre := range artist.Genres {
			counts[genre]++
			total++
		}
	}
	if total == 0 {
		return nil
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})

	if len(names) > maxGenres {
		names = names[:maxGenres]
	}

	summaries := make([]GenreSummary, len(names))
	for i, name := range names {
		summaries[i] = GenreSummary{
			Name:       capitalizeGenre(name),
			Count:      counts[name],
			Percentage: int(math.Round(100 * float64(counts[name]) / float64(total))),
			Color:      Palette[i],
		}
	}
	return summaries
}

// capitalizeGenre upcases the first letter of each word ("indie rock" ->
// "Indie Rock").
func capitalizeGenre(genre string) string {
	words := strings.Fields(genre)
	for i, word := range words {
		r, size := utf8.DecodeRuneInString(word)
		words[i] = string(unicode.ToUpper(r)) + word[size:]
	}
	return strings.Join(words, " ")
}

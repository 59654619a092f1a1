// package formatter renders wrapped snapshots for terminal display and
// exports them to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/sd3v/wrapped/internal/spotify"
)

// FormatDuration formats a track duration in milliseconds as m:ss.
func FormatDuration(ms int) string {
	minutes := ms / 60000
	seconds := (ms % 60000) / 1000
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// FormatMinutes formats a minute count as "N min" below one hour, else "Xh Ym".
func FormatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%dh", hours)
}

// FormatNumber renders n with comma thousands separators.
func FormatNumber(n int) string {
	s := strconv.Itoa(n)
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if negative {
		out = "-" + out
	}
	return out
}

// TruncateText shortens text to maxLength runes, replacing the tail with an ellipsis.
func TruncateText(text string, maxLength int) string {
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	if maxLength <= 3 {
		return string(runes[:maxLength])
	}
	return string(runes[:maxLength-3]) + "..."
}

// ImageSize selects one of the provider's standard artwork sizes.
type ImageSize int

const (
	ImageSmall  ImageSize = 64
	ImageMedium ImageSize = 300
	ImageLarge  ImageSize = 640
)

// ImageURL picks the image closest in width to the preferred size.
// Returns "" for an empty image list.
func ImageURL(images []spotify.Image, preferred ImageSize) string {
	if len(images) == 0 {
		return ""
	}
	sorted := make([]spotify.Image, len(images))
	copy(sorted, images)
	sort.SliceStable(sorted, func(i, j int) bool {
		return math.Abs(float64(sorted[i].Width-int(preferred))) < math.Abs(float64(sorted[j].Width-int(preferred)))
	})
	return sorted[0].URL
}

// FeatureLabel maps an audio-feature field name to its display label.
func FeatureLabel(feature string) string {
	labels := map[string]string{
		"danceability":     "Danceability",
		"energy":           "Energy",
		"valence":          "Mood",
		"acousticness":     "Acoustic",
		"instrumentalness": "Instrumental",
		"speechiness":      "Vocal",
		"liveness":         "Live Feel",
		"tempo":            "Tempo",
	}
	if label, ok := labels[feature]; ok {
		return label
	}
	return feature
}

// FeatureDescription turns a feature value into a short characterization.
func FeatureDescription(feature string, value float64) string {
	switch feature {
	case "danceability":
		return pick3(value, 0.7, 0.4, "Very danceable!", "Moderately groovy", "More for listening")
	case "energy":
		return pick3(value, 0.7, 0.4, "High energy!", "Balanced energy", "Chill vibes")
	case "valence":
		return pick3(value, 0.7, 0.4, "Very positive!", "Mixed emotions", "Melancholic mood")
	case "acousticness":
		return pick3(value, 0.7, 0.4, "Very acoustic", "Some acoustic elements", "Mostly electronic")
	case "instrumentalness":
		if value > 0.5 {
			return "Mostly instrumental"
		}
		return "Vocals prominent"
	case "speechiness":
		return pick3(value, 0.66, 0.33, "Spoken word", "Some speech", "Mostly music")
	case "liveness":
		if value > 0.8 {
			return "Likely live"
		}
		return "Studio recording"
	}
	return ""
}

func pick3(v, high, mid float64, top, middle, low string) string {
	if v > high {
		return top
	}
	if v > mid {
		return middle
	}
	return low
}

// MoodFromFeatures classifies the overall mood from averaged valence and energy.
func MoodFromFeatures(valence, energy float64) string {
	switch {
	case valence > 0.6 && energy > 0.6:
		return "Energetic & Happy"
	case valence > 0.6:
		return "Peaceful & Content"
	case energy > 0.6:
		return "Intense & Powerful"
	case valence <= 0.4 && energy <= 0.4:
		return "Melancholic & Calm"
	default:
		return "Balanced & Versatile"
	}
}

// ArtistNames joins the artist names of a track for display.
func ArtistNames(refs []spotify.ArtistRef) string {
	names := make([]string, len(refs))
	for i, ref := range refs {
		names[i] = ref.Name
	}
	return strings.Join(names, ", ")
}

package wrapped

import (
	"math"

	"github.com/sd3v/wrapped/internal/spotify"
)

// FeatureAverage holds per-attribute means over a set of tracks. The
// 0..1 attributes are rounded to two decimals; tempo, measured in BPM,
// is rounded to a whole number.
type FeatureAverage struct {
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Valence          float64 `json:"valence"`
	Tempo            float64 `json:"tempo"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
	Speechiness      float64 `json:"speechiness"`
	Liveness         float64 `json:"liveness"`
}

// IsZero reports whether every attribute is zero, the sentinel for
// "no audio analysis available".
func (f FeatureAverage) IsZero() bool {
	return f == FeatureAverage{}
}

// CalculateAverageFeatures averages the audio features of the given
// tracks. An empty input yields the zero value.
func CalculateAverageFeatures(features []spotify.AudioFeatures) FeatureAverage {
	if len(features) == 0 {
		return FeatureAverage{}
	}

	var sum FeatureAverage
	for _, f := range features {
		sum.Danceability += f.Danceability
		sum.Energy += f.Energy
		sum.Valence += f.Valence
		sum.Tempo += f.Tempo
		sum.Acousticness += f.Acousticness
		sum.Instrumentalness += f.Instrumentalness
		sum.Speechiness += f.Speechiness
		sum.Liveness += f.Liveness
	}

	n := float64(len(features))
	return FeatureAverage{
		Danceability:     round2(sum.Danceability / n),
		Energy:           round2(sum.Energy / n),
		Valence:          round2(sum.Valence / n),
		Tempo:            math.Round(sum.Tempo / n),
		Acousticness:     round2(sum.Acousticness / n),
		Instrumentalness: round2(sum.Instrumentalness / n),
		Speechiness:      round2(sum.Speechiness / n),
		Liveness:         round2(sum.Liveness / n),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

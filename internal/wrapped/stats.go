package wrapped

import (
	"math"

	"github.com/sd3v/wrapped/internal/spotify"
)

// ListeningStats holds the derived listening scalars of a snapshot.
type ListeningStats struct {
	// TotalMinutes is an approximation: the recently-played window is
	// scaled to a monthly figure, since the provider exposes no true
	// cumulative listening-time metric.
	TotalMinutes int `json:"total_minutes"`
	// TracksPlayed counts the recent plays plus the top tracks that fed
	// the snapshot, not distinct tracks.
	TracksPlayed  int `json:"tracks_played"`
	UniqueArtists int `json:"unique_artists"`
}

// CalculateListeningStats derives the listening scalars from the recent
// plays window and the top-tracks list.
func CalculateListeningStats(recent []spotify.RecentlyPlayedItem, topTracks []spotify.Track) ListeningStats {
	return ListeningStats{
		TotalMinutes:  estimateMonthlyMinutes(recent),
		TracksPlayed:  len(recent) + len(topTracks),
		UniqueArtists: countUniqueArtists(recent, topTracks),
	}
}

// estimateMonthlyMinutes extrapolates the recently-played window to a
// month. A window of fewer than 10 plays shrinks the daily-rate ratio so
// sparse history is not over-extrapolated; the raw sum is the floor.
func estimateMonthlyMinutes(recent []spotify.RecentlyPlayedItem) int {
	if len(recent) == 0 {
		return 0
	}

	totalMS := 0
	for _, item := range recent {
		totalMS += item.Track.DurationMS
	}
	recentMinutes := float64(totalMS) / 1000 / 60

	ratio := math.Min(float64(len(recent))/10, 1)
	estimate := math.Round(recentMinutes / ratio * 30)
	return int(math.Max(estimate, math.Round(recentMinutes)))
}

func countUniqueArtists(recent []spotify.RecentlyPlayedItem, topTracks []spotify.Track) int {
	ids := make(map[string]struct{})
	for _, item := range recent {
		for _, artist := range item.Track.Artists {
			ids[artist.ID] = struct{}{}
		}
	}
	for _, track := range topTracks {
		for _, artist := range track.Artists {
			ids[artist.ID] = struct{}{}
		}
	}
	return len(ids)
}

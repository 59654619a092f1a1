package wrapped

import (
	"testing"

	"github.com/sd3v/wrapped/internal/spotify"
)

func recentItems(count, durationMS int) []spotify.RecentlyPlayedItem {
	items := make([]spotify.RecentlyPlayedItem, count)
	for i := range items {
		items[i] = spotify.RecentlyPlayedItem{Track: spotify.Track{DurationMS: durationMS}}
	}
	return items
}

func TestEstimateMonthlyMinutes(t *testing.T) {
	t.Run("empty history yields zero", func(t *testing.T) {
		if got := estimateMonthlyMinutes(nil); got != 0 {
			t.Errorf("estimate = %d, want 0", got)
		}
	})

	t.Run("full window extrapolates a month", func(t *testing.T) {
		// 50 plays of 3 minutes: ratio caps at 1, so 150 * 30 = 4500.
		got := estimateMonthlyMinutes(recentItems(50, 3*60*1000))
		if got != 4500 {
			t.Errorf("estimate = %d, want 4500", got)
		}
	})

	t.Run("sparse window shrinks the extrapolation ratio", func(t *testing.T) {
		// 5 plays of 4 minutes: ratio 0.5, 20 / 0.5 * 30 = 1200.
		got := estimateMonthlyMinutes(recentItems(5, 4*60*1000))
		if got != 1200 {
			t.Errorf("estimate = %d, want 1200", got)
		}
	})
}

func TestCalculateListeningStats(t *testing.T) {
	recent := []spotify.RecentlyPlayedItem{
		{Track: spotify.Track{DurationMS: 200000, Artists: []spotify.ArtistRef{{ID: "a1"}, {ID: "a2"}}}},
		{Track: spotify.Track{DurationMS: 180000, Artists: []spotify.ArtistRef{{ID: "a1"}}}},
	}
	topTracks := []spotify.Track{
		{Artists: []spotify.ArtistRef{{ID: "a2"}}},
		{Artists: []spotify.ArtistRef{{ID: "a3"}}},
	}

	stats := CalculateListeningStats(recent, topTracks)

	if stats.TracksPlayed != 4 {
		t.Errorf("tracks played = %d, want 4 (2 recent + 2 top)", stats.TracksPlayed)
	}
	if stats.UniqueArtists != 3 {
		t.Errorf("unique artists = %d, want 3 (union of a1, a2, a3)", stats.UniqueArtists)
	}
	if stats.TotalMinutes <= 0 {
		t.Errorf("total minutes = %d, want positive", stats.TotalMinutes)
	}

	t.Run("no recent plays", func(t *testing.T) {
		stats := CalculateListeningStats(nil, topTracks)
		if stats.TotalMinutes != 0 {
			t.Errorf("total minutes = %d, want 0", stats.TotalMinutes)
		}
		if stats.TracksPlayed != 2 {
			t.Errorf("tracks played = %d, want 2 (top tracks only)", stats.TracksPlayed)
		}
		if stats.UniqueArtists != 2 {
			t.Errorf("unique artists = %d, want 2", stats.UniqueArtists)
		}
	})
}

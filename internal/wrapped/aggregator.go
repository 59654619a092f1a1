package wrapped

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sd3v/wrapped/internal/shared"
	"github.com/sd3v/wrapped/internal/spotify"
)

// maxTopItems bounds the top-tracks and top-artists lists.
const maxTopItems = 50

// recentLimit bounds the recently-played window (single cursor page).
const recentLimit = 50

// Snapshot is the aggregate root handed to the presentation layer.
// One snapshot per (user, time range); selecting a new time range means
// a full re-fetch, never a merge.
type Snapshot struct {
	ID              string                       `json:"id"`
	GeneratedAt     time.Time                    `json:"generated_at"`
	TimeRange       TimeRange                    `json:"time_range"`
	User            *spotify.User                `json:"user"`
	TopTracks       []spotify.Track              `json:"top_tracks"`
	TopArtists      []spotify.Artist             `json:"top_artists"`
	RecentlyPlayed  []spotify.RecentlyPlayedItem `json:"recently_played"`
	AudioFeatures   []spotify.AudioFeatures      `json:"audio_features"`
	Genres          []GenreSummary               `json:"genres"`
	AverageFeatures FeatureAverage               `json:"average_features"`
	Stats           ListeningStats               `json:"stats"`
}

// API is the slice of the Spotify client the aggregator consumes.
type API interface {
	CurrentUser(ctx context.Context) (*spotify.User, error)
	TopTracks(ctx context.Context, timeRange string, maxItems int) ([]spotify.Track, error)
	TopArtists(ctx context.Context, timeRange string, maxItems int) ([]spotify.Artist, error)
	RecentlyPlayed(ctx context.Context, limit int) ([]spotify.RecentlyPlayedItem, error)
	AudioFeatures(ctx context.Context, ids []string) ([]spotify.AudioFeatures, error)
}

// Aggregator assembles snapshots from the Spotify Web API.
type Aggregator struct {
	api    API
	logger *log.Logger
}

func NewAggregator(api API, logger *log.Logger) *Aggregator {
	return &Aggregator{api: api, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
// A nil or full channel drops the update.
func (a *Aggregator) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Snapshot fetches the profile, top tracks, top artists, and recent plays
// concurrently, then audio features sequentially, and derives the summary
// statistics. The snapshot is all-or-nothing: any fetch failure other than
// audio features fails the whole call.
func (a *Aggregator) Snapshot(ctx context.Context, timeRange TimeRange, progress chan<- ProgressUpdate) (*Snapshot, error) {
	a.sendProgress(progress, fetchUpdate(FetchProfile, 1, 6, "your profile"))
	a.sendProgress(progress, fetchUpdate(FetchTopTracks, 2, 6, "top tracks"))
	a.sendProgress(progress, fetchUpdate(FetchTopArtists, 3, 6, "top artists"))
	a.sendProgress(progress, fetchUpdate(FetchRecent, 4, 6, "recent plays"))

	var (
		wg sync.WaitGroup

		user    *spotify.User
		userErr error

		tracks    []spotify.Track
		tracksErr error

		artists    []spotify.Artist
		artistsErr error

		recent    []spotify.RecentlyPlayedItem
		recentErr error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		user, userErr = a.api.CurrentUser(ctx)
	}()
	go func() {
		defer wg.Done()
		tracks, tracksErr = a.api.TopTracks(ctx, timeRange.String(), maxTopItems)
	}()
	go func() {
		defer wg.Done()
		artists, artistsErr = a.api.TopArtists(ctx, timeRange.String(), maxTopItems)
	}()
	go func() {
		defer wg.Done()
		recent, recentErr = a.api.RecentlyPlayed(ctx, recentLimit)
	}()
	wg.Wait()

	for _, err := range []error{userErr, tracksErr, artistsErr, recentErr} {
		if err != nil {
			return nil, err
		}
	}

	a.sendProgress(progress, fetchUpdate(FetchFeatures, 5, 6, "audio features"))
	features := a.fetchFeatures(ctx, tracks)

	a.sendProgress(progress, deriveUpdate(6, 6))
	return &Snapshot{
		ID:              shared.GenerateID(),
		GeneratedAt:     time.Now().UTC(),
		TimeRange:       timeRange,
		User:            user,
		TopTracks:       tracks,
		TopArtists:      artists,
		RecentlyPlayed:  recent,
		AudioFeatures:   features,
		Genres:          ExtractGenres(artists),
		AverageFeatures: CalculateAverageFeatures(features),
		Stats:           CalculateListeningStats(recent, tracks),
	}, nil
}

// fetchFeatures retrieves audio features for the top tracks. Feature
// access is restricted for some applications, so failures degrade to an
// empty set instead of failing the snapshot.
func (a *Aggregator) fetchFeatures(ctx context.Context, tracks []spotify.Track) []spotify.AudioFeatures {
	if len(tracks) == 0 {
		return nil
	}
	ids := make([]string, len(tracks))
	for i, track := range tracks {
		ids[i] = track.ID
	}

	features, err := a.api.AudioFeatures(ctx, ids)
	if err != nil {
		a.logger.Warn("audio features unavailable, continuing without them", "error", err)
		return nil
	}
	return features
}

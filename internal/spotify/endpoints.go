package spotify

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// pageSize is the per-request limit for offset-paginated endpoints.
const pageSize = 50

// audioFeaturesBatch is the maximum number of track IDs a single
// audio-features request accepts.
const audioFeaturesBatch = 100

// CurrentUser retrieves the authenticated user's profile.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.Get(ctx, "/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// TopTracks retrieves up to maxItems of the user's top tracks for the
// given time range (short_term, medium_term, long_term).
func (c *Client) TopTracks(ctx context.Context, timeRange string, maxItems int) ([]Track, error) {
	return FetchAllPages(ctx, func(ctx context.Context, limit, offset int) (*Page[Track], error) {
		var page Page[Track]
		endpoint := fmt.Sprintf("/me/top/tracks?time_range=%s&limit=%d&offset=%d", url.QueryEscape(timeRange), limit, offset)
		if err := c.Get(ctx, endpoint, &page); err != nil {
			return nil, err
		}
		return &page, nil
	}, pageSize, maxItems)
}

// TopArtists retrieves up to maxItems of the user's top artists for the
// given time range.
func (c *Client) TopArtists(ctx context.Context, timeRange string, maxItems int) ([]Artist, error) {
	return FetchAllPages(ctx, func(ctx context.Context, limit, offset int) (*Page[Artist], error) {
		var page Page[Artist]
		endpoint := fmt.Sprintf("/me/top/artists?time_range=%s&limit=%d&offset=%d", url.QueryEscape(timeRange), limit, offset)
		if err := c.Get(ctx, endpoint, &page); err != nil {
			return nil, err
		}
		return &page, nil
	}, pageSize, maxItems)
}

// RecentlyPlayed retrieves the user's most recent plays. The endpoint is
// cursor-paginated and caps a single request at 50 items; larger limits
// are clamped rather than paged, since only the newest window matters here.
func (c *Client) RecentlyPlayed(ctx context.Context, limit int) ([]RecentlyPlayedItem, error) {
	if limit <= 0 || limit > pageSize {
		limit = pageSize
	}
	var page CursorPage[RecentlyPlayedItem]
	if err := c.Get(ctx, fmt.Sprintf("/me/player/recently-played?limit=%d", limit), &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

// AudioFeatures retrieves audio features for the given track IDs, batching
// requests at the endpoint's 100-ID ceiling. Tracks without analysis come
// back as JSON nulls and are dropped.
func (c *Client) AudioFeatures(ctx context.Context, ids []string) ([]AudioFeatures, error) {
	features := make([]AudioFeatures, 0, len(ids))
	for start := 0; start < len(ids); start += audioFeaturesBatch {
		end := start + audioFeaturesBatch
		if end > len(ids) {
			end = len(ids)
		}

		var resp struct {
			AudioFeatures []*AudioFeatures `json:"audio_features"`
		}
		endpoint := "/audio-features?ids=" + url.QueryEscape(strings.Join(ids[start:end], ","))
		if err := c.Get(ctx, endpoint, &resp); err != nil {
			return nil, err
		}
		for _, f := range resp.AudioFeatures {
			if f != nil {
				features = append(features, *f)
			}
		}
	}
	return features, nil
}

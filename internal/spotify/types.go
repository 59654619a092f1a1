// Package spotify provides a rate-limited client for the Spotify Web API
// and typed accessors for the endpoints the application reads from.
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package spotify

import "fmt"

type followers struct {
	Total int `json:"total"`
}

// User represents the authenticated user's profile.
type User struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Country     string    `json:"country"`
	Product     string    `json:"product"` // premium, free, etc.
	Followers   followers `json:"followers"`
	Images      []Image   `json:"images"`
}

// Image represents an image resource.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// ArtistRef is the simplified artist object embedded in tracks and albums.
type ArtistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// Artist represents a full artist object with genres and popularity.
type Artist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Images     []Image  `json:"images"`
	Popularity int      `json:"popularity"`
	URI        string   `json:"uri"`
}

// Album represents an album object.
type Album struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Artists     []ArtistRef `json:"artists"`
	ReleaseDate string      `json:"release_date"`
	TotalTracks int         `json:"total_tracks"`
	Images      []Image     `json:"images"`
	URI         string      `json:"uri"`
}

// Track represents a track object.
type Track struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Artists    []ArtistRef `json:"artists"`
	Album      Album       `json:"album"`
	DurationMS int         `json:"duration_ms"`
	Explicit   bool        `json:"explicit"`
	Popularity int         `json:"popularity"`
	URI        string      `json:"uri"`
}

// AudioFeatures holds the per-track audio analysis summary.
type AudioFeatures struct {
	ID               string  `json:"id"`
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Valence          float64 `json:"valence"`
	Tempo            float64 `json:"tempo"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
	Speechiness      float64 `json:"speechiness"`
	Liveness         float64 `json:"liveness"`
}

// RecentlyPlayedItem pairs a track with the moment it was played.
type RecentlyPlayedItem struct {
	Track    Track  `json:"track"`
	PlayedAt string `json:"played_at"`
}

// Page is an offset-paginated response envelope.
type Page[T any] struct {
	Items  []T     `json:"items"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
	Next   *string `json:"next"`
}

// CursorPage is a cursor-paginated response envelope (recently played).
type CursorPage[T any] struct {
	Items []T     `json:"items"`
	Limit int     `json:"limit"`
	Next  *string `json:"next"`
}

// APIError is a non-2xx response decoded from Spotify's error envelope.
type APIError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("spotify API error: status %d: %s", e.Status, e.Message)
}

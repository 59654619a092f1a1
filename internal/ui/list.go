package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/sd3v/wrapped/internal/formatter"
	"github.com/sd3v/wrapped/internal/spotify"
	"github.com/sd3v/wrapped/internal/wrapped"
)

var (
	_ list.Item = trackItem{}
	_ list.Item = artistItem{}
	_ list.Item = genreItem{}
)

// trackItem wraps [spotify.Track] to implement [list.Item].
type trackItem struct {
	rank  int
	track spotify.Track
}

func (i trackItem) FilterValue() string { return i.track.Name }
func (i trackItem) Title() string       { return fmt.Sprintf("%d. %s", i.rank, i.track.Name) }
func (i trackItem) Description() string {
	desc := formatter.ArtistNames(i.track.Artists)
	if i.track.Album.Name != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Album.Name)
	}
	return fmt.Sprintf("%s • %s", desc, formatter.FormatDuration(i.track.DurationMS))
}

// artistItem wraps [spotify.Artist] to implement [list.Item].
type artistItem struct {
	rank   int
	artist spotify.Artist
}

func (i artistItem) FilterValue() string { return i.artist.Name }
func (i artistItem) Title() string       { return fmt.Sprintf("%d. %s", i.rank, i.artist.Name) }
func (i artistItem) Description() string {
	if len(i.artist.Genres) == 0 {
		return fmt.Sprintf("popularity %d", i.artist.Popularity)
	}
	return fmt.Sprintf("%s • popularity %d", i.artist.Genres[0], i.artist.Popularity)
}

// genreItem wraps [wrapped.GenreSummary] to implement [list.Item].
type genreItem struct {
	genre wrapped.GenreSummary
}

func (i genreItem) FilterValue() string { return i.genre.Name }
func (i genreItem) Title() string       { return GenreStyle(i.genre.Color).Render(i.genre.Name) }
func (i genreItem) Description() string {
	return fmt.Sprintf("%d%% of your artists' genre tags (%d)", i.genre.Percentage, i.genre.Count)
}

package wrapped

import (
	"testing"
	"unicode/utf8"

	"github.com/sd3v/wrapped/internal/spotify"
)

func TestExtractGenres(t *testing.T) {
	t.Run("counts, percentages, and rank colors", func(t *testing.T) {
		artists := []spotify.Artist{
			{Name: "A", Genres: []string{"pop", "rock"}},
			{Name: "B", Genres: []string{"pop"}},
		}

		genres := ExtractGenres(artists)
		if len(genres) != 2 {
			t.Fatalf("got %d genres, want 2", len(genres))
		}

		if genres[0].Name != "Pop" || genres[0].Count != 2 || genres[0].Percentage != 67 {
			t.Errorf("top genre = %+v, want Pop count=2 pct=67", genres[0])
		}
		if genres[1].Name != "Rock" || genres[1].Count != 1 || genres[1].Percentage != 33 {
			t.Errorf("second genre = %+v, want Rock count=1 pct=33", genres[1])
		}
		if genres[0].Color != Palette[0] || genres[1].Color != Palette[1] {
			t.Error("palette colors not assigned by rank")
		}
	})

	t.Run("ties break alphabetically", func(t *testing.T) {
		artists := []spotify.Artist{
			{Genres: []string{"zydeco", "ambient"}},
		}
		genres := ExtractGenres(artists)
		if genres[0].Name != "Ambient" || genres[1].Name != "Zydeco" {
			t.Errorf("tie ordering = [%s, %s], want [Ambient, Zydeco]", genres[0].Name, genres[1].Name)
		}
	})

	t.Run("caps at the palette size", func(t *testing.T) {
		artist := spotify.Artist{}
		for _, g := range []string{
			"a", "b", "c", "d", "e", "f", "g", "h", "i", "j",
			"k", "l", "m", "n", "o", "p", "q", "r",
		} {
			artist.Genres = append(artist.Genres, g)
		}

		genres := ExtractGenres([]spotify.Artist{artist})
		if len(genres) != maxGenres {
			t.Errorf("got %d genres, want %d", len(genres), maxGenres)
		}
	})

	t.Run("multi-word genres are capitalized per word", func(t *testing.T) {
		genres := ExtractGenres([]spotify.Artist{{Genres: []string{"indie rock"}}})
		if genres[0].Name != "Indie Rock" {
			t.Errorf("name = %q, want \"Indie Rock\"", genres[0].Name)
		}
	})

	t.Run("non-ASCII genres stay valid UTF-8", func(t *testing.T) {
		genres := ExtractGenres([]spotify.Artist{{Genres: []string{"électro swing"}}})
		if genres[0].Name != "Électro Swing" {
			t.Errorf("name = %q, want \"Électro Swing\"", genres[0].Name)
		}
		if !utf8.ValidString(genres[0].Name) {
			t.Errorf("name %q is not valid UTF-8", genres[0].Name)
		}
	})

	t.Run("no genre tags yields nil", func(t *testing.T) {
		if genres := ExtractGenres([]spotify.Artist{{Name: "Untagged"}}); genres != nil {
			t.Errorf("got %v, want nil", genres)
		}
	})
}

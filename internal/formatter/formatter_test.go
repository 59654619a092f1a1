package formatter

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sd3v/wrapped/internal/spotify"
	"github.com/sd3v/wrapped/internal/wrapped"
)

func sampleSnapshot() *wrapped.Snapshot {
	return &wrapped.Snapshot{
		ID:          "snap-1",
		GeneratedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		TimeRange:   wrapped.MediumTerm,
		User:        &spotify.User{ID: "user-1", DisplayName: "Tester"},
		TopTracks: []spotify.Track{
			{
				ID:         "t1",
				Name:       "First Song",
				Artists:    []spotify.ArtistRef{{ID: "a1", Name: "Band A"}},
				Album:      spotify.Album{Name: "Album One"},
				DurationMS: 210000,
				Popularity: 80,
			},
			{
				ID:         "t2",
				Name:       "Second Song",
				Artists:    []spotify.ArtistRef{{ID: "a2", Name: "Band B"}, {ID: "a3", Name: "Band C"}},
				Album:      spotify.Album{Name: "Album Two"},
				DurationMS: 185000,
				Popularity: 65,
			},
		},
		TopArtists: []spotify.Artist{
			{ID: "a1", Name: "Band A"},
			{ID: "a2", Name: "Band B"},
		},
		Genres: []wrapped.GenreSummary{
			{Name: "Pop", Count: 2, Percentage: 67, Color: wrapped.Palette[0]},
		},
		AverageFeatures: wrapped.FeatureAverage{Valence: 0.7, Energy: 0.8, Tempo: 120},
		Stats:           wrapped.ListeningStats{TotalMinutes: 4500, TracksPlayed: 40, UniqueArtists: 25},
	}
}

func TestExportToCSV(t *testing.T) {
	data, err := ExportToCSV(sampleSnapshot())
	if err != nil {
		t.Fatalf("ExportToCSV error: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d rows, want 3 (header + 2 tracks)", len(records))
	}
	if records[0][0] != "Rank" {
		t.Errorf("header = %v", records[0])
	}
	if records[1][1] != "First Song" || records[1][4] != "3:30" {
		t.Errorf("first track row = %v", records[1])
	}
	if records[2][2] != "Band B, Band C" {
		t.Errorf("multi-artist cell = %q", records[2][2])
	}
}

func TestExportToMarkdown(t *testing.T) {
	data, err := ExportToMarkdown(sampleSnapshot())
	if err != nil {
		t.Fatalf("ExportToMarkdown error: %v", err)
	}
	out := string(data)

	for _, want := range []string{
		"# Tester's Wrapped — Last 6 Months",
		"75h",
		"## Top Tracks",
		"1. Band A - First Song (Album One) [3:30]",
		"## Top Artists",
		"Pop — 67%",
		"Energetic & Happy",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestExportToText(t *testing.T) {
	data, err := ExportToText(sampleSnapshot())
	if err != nil {
		t.Fatalf("ExportToText error: %v", err)
	}
	out := string(data)

	if !strings.Contains(out, "Wrapped: Last 6 Months") {
		t.Errorf("text missing header: %q", out)
	}
	if !strings.Contains(out, "1. Band A - First Song") {
		t.Errorf("text missing track list: %q", out)
	}
}

func TestToJSON(t *testing.T) {
	data, err := ToJSON(sampleSnapshot(), false)
	if err != nil {
		t.Fatalf("ToJSON error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if decoded["id"] != "snap-1" {
		t.Errorf("id = %v", decoded["id"])
	}
	if decoded["time_range"] != "medium_term" {
		t.Errorf("time_range = %v", decoded["time_range"])
	}
}

func TestWriteExports(t *testing.T) {
	snapshot := sampleSnapshot()

	t.Run("text", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "recap.txt")
		got, err := WriteTextExport(snapshot, path)
		if err != nil {
			t.Fatalf("WriteTextExport error: %v", err)
		}
		if got != path {
			t.Errorf("path = %q, want %q", got, path)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("exported file missing: %v", err)
		}
	})

	t.Run("markdown", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "recap.md")
		got, err := WriteMarkdownExport(snapshot, path)
		if err != nil {
			t.Fatalf("WriteMarkdownExport error: %v", err)
		}
		AssertNonEmptyFile(t, got)
	})

	t.Run("csv writes tracks and snapshot files", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "export")
		files, err := WriteCSVExport(snapshot, base)
		if err != nil {
			t.Fatalf("WriteCSVExport error: %v", err)
		}
		if len(files) != 2 {
			t.Fatalf("files = %v, want 2 entries", files)
		}
		for _, f := range files {
			AssertNonEmptyFile(t, f)
		}
	})
}

func AssertNonEmptyFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("file missing: %v", err)
		return
	}
	if info.Size() == 0 {
		t.Errorf("file %s is empty", path)
	}
}

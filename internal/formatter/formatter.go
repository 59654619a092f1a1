package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sd3v/wrapped/internal/shared"
	"github.com/sd3v/wrapped/internal/wrapped"
)

// ExportToCSV converts a snapshot's top tracks to CSV with columns:
// Rank, Title, Artists, Album, Duration, Popularity
func ExportToCSV(snapshot *wrapped.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Rank", "Title", "Artists", "Album", "Duration", "Popularity"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, track := range snapshot.TopTracks {
		record := []string{
			strconv.Itoa(i + 1),
			track.Name,
			ArtistNames(track.Artists),
			track.Album.Name,
			FormatDuration(track.DurationMS),
			strconv.Itoa(track.Popularity),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a snapshot to a Markdown recap document.
func ExportToMarkdown(snapshot *wrapped.Snapshot) ([]byte, error) {
	var buf bytes.Buffer

	name := "Your"
	if snapshot.User != nil && snapshot.User.DisplayName != "" {
		name = snapshot.User.DisplayName + "'s"
	}
	buf.WriteString(fmt.Sprintf("# %s Wrapped — %s\n\n", name, snapshot.TimeRange.Label()))

	buf.WriteString(fmt.Sprintf("**Estimated listening**: %s\n", FormatMinutes(snapshot.Stats.TotalMinutes)))
	buf.WriteString(fmt.Sprintf("**Tracks played**: %s\n", FormatNumber(snapshot.Stats.TracksPlayed)))
	buf.WriteString(fmt.Sprintf("**Unique artists**: %s\n", FormatNumber(snapshot.Stats.UniqueArtists)))
	if !snapshot.AverageFeatures.IsZero() {
		buf.WriteString(fmt.Sprintf("**Overall mood**: %s\n", MoodFromFeatures(snapshot.AverageFeatures.Valence, snapshot.AverageFeatures.Energy)))
	}
	buf.WriteString("\n")

	buf.WriteString("## Top Tracks\n\n")
	for i, track := range snapshot.TopTracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s (%s) [%s]\n",
			i+1, ArtistNames(track.Artists), track.Name, track.Album.Name, FormatDuration(track.DurationMS)))
	}

	buf.WriteString("\n## Top Artists\n\n")
	for i, artist := range snapshot.TopArtists {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, artist.Name))
	}

	if len(snapshot.Genres) > 0 {
		buf.WriteString("\n## Genres\n\n")
		for _, genre := range snapshot.Genres {
			buf.WriteString(fmt.Sprintf("- %s — %d%%\n", genre.Name, genre.Percentage))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a snapshot to a plain text summary.
func ExportToText(snapshot *wrapped.Snapshot) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Wrapped: %s\n", snapshot.TimeRange.Label()))
	if snapshot.User != nil {
		buf.WriteString(fmt.Sprintf("User: %s\n", snapshot.User.DisplayName))
	}
	buf.WriteString(fmt.Sprintf("Estimated listening: %s\n", FormatMinutes(snapshot.Stats.TotalMinutes)))
	buf.WriteString(fmt.Sprintf("Unique artists: %d\n\n", snapshot.Stats.UniqueArtists))

	for i, track := range snapshot.TopTracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, ArtistNames(track.Artists), track.Name))
	}

	return buf.Bytes(), nil
}

// ToJSON generates a JSON representation of the full snapshot.
func ToJSON(snapshot *wrapped.Snapshot, pretty bool) ([]byte, error) {
	return shared.MarshalJSON(snapshot, pretty)
}

// WriteCSVExport writes a snapshot's top tracks as CSV alongside a metadata JSON file.
//
// Defaults to the snapshot ID as the base filename & creates {base}_tracks.csv and {base}_snapshot.json
func WriteCSVExport(snapshot *wrapped.Snapshot, baseFilepath string) ([]string, error) {
	if baseFilepath == "" {
		baseFilepath = snapshot.ID
	}

	csvData, err := ExportToCSV(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}
	tracksFile := baseFilepath + "_tracks.csv"
	if err := os.WriteFile(tracksFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	jsonData, err := ToJSON(snapshot, true)
	if err != nil {
		return nil, fmt.Errorf("failed to generate snapshot JSON: %w", err)
	}
	jsonFile := baseFilepath + "_snapshot.json"
	if err := os.WriteFile(jsonFile, jsonData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write snapshot file: %w", err)
	}

	return []string{tracksFile, jsonFile}, nil
}

// WriteMarkdownExport writes a snapshot as a Markdown document.
//
// Defaults to {snapshot.ID}.md as the filename.
func WriteMarkdownExport(snapshot *wrapped.Snapshot, filepath string) (string, error) {
	if filepath == "" {
		filepath = snapshot.ID + ".md"
	}

	mdData, err := ExportToMarkdown(snapshot)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}
	if err := os.WriteFile(filepath, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}
	return filepath, nil
}

// WriteTextExport writes a snapshot as plain text.
//
// Defaults to {snapshot.ID}.txt as the filename.
func WriteTextExport(snapshot *wrapped.Snapshot, filepath string) (string, error) {
	if filepath == "" {
		filepath = snapshot.ID + ".txt"
	}

	textData, err := ExportToText(snapshot)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}
	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}
	return filepath, nil
}

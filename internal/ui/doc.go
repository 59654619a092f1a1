// Package ui implements the interactive dashboard using bubbletea's Elm architecture.
//
// The TUI is a multi-view recap of the fetched snapshot:
//  1. [LoadingView] : Live progress while the snapshot is assembled
//  2. [OverviewView] : Headline stats, mood, and #1 track/artist
//  3. [TrackListView] : Ranked top tracks
//  4. [ArtistListView] : Ranked top artists
//  5. [GenreListView] : Genre breakdown with palette colors
//
// The [Model] implements bubbletea's standard Init/Update/View pattern.
// Progress updates flow through a channel from the aggregator, providing
// non-blocking status reporting while the snapshot loads. Switching the
// time range (keys 1/2/3) discards the current snapshot and re-fetches.
//
// Keyboard navigation uses vim-style bindings (j/k, tab, r, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui

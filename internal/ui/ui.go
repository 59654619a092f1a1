package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sd3v/wrapped/internal/formatter"
	"github.com/sd3v/wrapped/internal/wrapped"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	OverviewView
	TrackListView
	ArtistListView
	GenreListView
)

// viewOrder is the tab cycle after loading completes.
var viewOrder = []ViewState{OverviewView, TrackListView, ArtistListView, GenreListView}

// SnapshotService produces wrapped snapshots for the dashboard.
// Satisfied by wrapped.Aggregator.
type SnapshotService interface {
	Snapshot(ctx context.Context, timeRange wrapped.TimeRange, progress chan<- wrapped.ProgressUpdate) (*wrapped.Snapshot, error)
}

type snapshotFetchedMsg struct {
	snapshot *wrapped.Snapshot
	err      error
}

type progressUpdateMsg wrapped.ProgressUpdate

// Model represents the dashboard state.
type Model struct {
	ctx          context.Context
	view         ViewState
	service      SnapshotService
	timeRange    wrapped.TimeRange
	width        int
	height       int
	snapshot     *wrapped.Snapshot
	trackList    list.Model
	artistList   list.Model
	genreList    list.Model
	progressChan chan wrapped.ProgressUpdate
	progress     wrapped.ProgressUpdate
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a dashboard model with the provided snapshot service.
func NewModel(ctx context.Context, service SnapshotService) *Model {
	return &Model{
		ctx:       ctx,
		view:      LoadingView,
		service:   service,
		timeRange: wrapped.MediumTerm,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init starts the initial snapshot fetch.
func (m *Model) Init() tea.Cmd {
	return m.fetchSnapshot()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case progressUpdateMsg:
		m.progress = wrapped.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case snapshotFetchedMsg:
		m.progressChan = nil
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.snapshot = msg.snapshot
		m.buildLists()
		m.view = OverviewView
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v", m.err)) +
			"\n\n" + styles.help.Render("Press r to retry, q to quit")
	}

	switch m.view {
	case LoadingView:
		return m.renderLoading()
	case OverviewView:
		return m.renderOverview()
	case TrackListView:
		return m.renderList(&m.trackList)
	case ArtistListView:
		return m.renderList(&m.artistList)
	case GenreListView:
		return m.renderList(&m.genreList)
	default:
		return ""
	}
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.err = nil
		m.view = LoadingView
		return m, m.fetchSnapshot()
	case "1":
		return m.switchRange(wrapped.ShortTerm)
	case "2":
		return m.switchRange(wrapped.MediumTerm)
	case "3":
		return m.switchRange(wrapped.LongTerm)
	case "tab", "l":
		return m.cycleView(1)
	case "shift+tab", "h":
		return m.cycleView(-1)
	}
	return m.updateLists(msg)
}

// switchRange triggers a full re-fetch; snapshots are never merged across ranges.
func (m *Model) switchRange(tr wrapped.TimeRange) (tea.Model, tea.Cmd) {
	if tr == m.timeRange && m.snapshot != nil {
		return m, nil
	}
	m.timeRange = tr
	m.view = LoadingView
	m.err = nil
	return m, m.fetchSnapshot()
}

func (m *Model) cycleView(delta int) (tea.Model, tea.Cmd) {
	if m.snapshot == nil {
		return m, nil
	}
	current := 0
	for i, v := range viewOrder {
		if v == m.view {
			current = i
			break
		}
	}
	next := (current + delta + len(viewOrder)) % len(viewOrder)
	m.view = viewOrder[next]
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case TrackListView:
		m.trackList, cmd = m.trackList.Update(msg)
	case ArtistListView:
		m.artistList, cmd = m.artistList.Update(msg)
	case GenreListView:
		m.genreList, cmd = m.genreList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchSnapshot() tea.Cmd {
	m.progressChan = make(chan wrapped.ProgressUpdate, 16)
	progress := m.progressChan

	fetch := func() tea.Msg {
		snapshot, err := m.service.Snapshot(m.ctx, m.timeRange, progress)
		close(progress)
		return snapshotFetchedMsg{snapshot: snapshot, err: err}
	}
	return tea.Batch(fetch, m.waitForProgress())
}

func (m *Model) waitForProgress() tea.Cmd {
	progress := m.progressChan
	if progress == nil {
		return nil
	}
	return func() tea.Msg {
		update, ok := <-progress
		if !ok {
			return nil
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) buildLists() {
	trackItems := make([]list.Item, len(m.snapshot.TopTracks))
	for i, track := range m.snapshot.TopTracks {
		trackItems[i] = trackItem{rank: i + 1, track: track}
	}
	m.trackList = newList("Top Tracks", trackItems)

	artistItems := make([]list.Item, len(m.snapshot.TopArtists))
	for i, artist := range m.snapshot.TopArtists {
		artistItems[i] = artistItem{rank: i + 1, artist: artist}
	}
	m.artistList = newList("Top Artists", artistItems)

	genreItems := make([]list.Item, len(m.snapshot.Genres))
	for i, genre := range m.snapshot.Genres {
		genreItems[i] = genreItem{genre: genre}
	}
	m.genreList = newList("Genres", genreItems)

	m.resizeLists()
}

func newList(title string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	return l
}

func (m *Model) resizeLists() {
	if m.width == 0 {
		return
	}
	width, height := m.width-4, m.height-8
	m.trackList.SetSize(width, height)
	m.artistList.SetSize(width, height)
	m.genreList.SetSize(width, height)
}

func (m *Model) renderLoading() string {
	title := styles.title.Render(fmt.Sprintf("Building your Wrapped (%s)", m.timeRange.Label()))
	message := m.progress.Message
	if message == "" {
		message = "Starting up..."
	}
	step := ""
	if m.progress.Total > 0 {
		step = fmt.Sprintf(" [%d/%d]", m.progress.Step, m.progress.Total)
	}
	return fmt.Sprintf("%s\n%s%s\n\n%s", title, message, step, m.help.ShortHelpView(m.keys.ShortHelp()))
}

func (m *Model) renderOverview() string {
	s := m.snapshot
	var b strings.Builder

	name := "Your Wrapped"
	if s.User != nil && s.User.DisplayName != "" {
		name = s.User.DisplayName + "'s Wrapped"
	}
	b.WriteString(styles.title.Render(fmt.Sprintf("%s — %s", name, s.TimeRange.Label())))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("Estimated listening  %s\n", styles.ok.Render(formatter.FormatMinutes(s.Stats.TotalMinutes))))
	b.WriteString(fmt.Sprintf("Tracks played        %s\n", formatter.FormatNumber(s.Stats.TracksPlayed)))
	b.WriteString(fmt.Sprintf("Unique artists       %s\n", formatter.FormatNumber(s.Stats.UniqueArtists)))

	if !s.AverageFeatures.IsZero() {
		mood := formatter.MoodFromFeatures(s.AverageFeatures.Valence, s.AverageFeatures.Energy)
		b.WriteString(fmt.Sprintf("Overall mood         %s\n", styles.warn.Render(mood)))
		b.WriteString(fmt.Sprintf("Average tempo        %.0f BPM\n", s.AverageFeatures.Tempo))
	}

	if len(s.TopTracks) > 0 {
		b.WriteString("\n" + styles.title.Render("#1 Track") + "\n")
		top := s.TopTracks[0]
		b.WriteString(fmt.Sprintf("%s — %s\n", formatter.ArtistNames(top.Artists), top.Name))
	}
	if len(s.TopArtists) > 0 {
		b.WriteString("\n" + styles.title.Render("#1 Artist") + "\n")
		b.WriteString(s.TopArtists[0].Name + "\n")
	}

	b.WriteString("\n" + m.help.ShortHelpView(m.keys.ShortHelp()))
	return b.String()
}

func (m *Model) renderList(l *list.Model) string {
	return fmt.Sprintf("%s\n\n%s", l.View(), m.help.ShortHelpView(m.keys.ShortHelp()))
}

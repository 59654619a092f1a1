// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/sd3v/wrapped/internal/spotify"
)

// MockAPI is a configurable test double for the aggregator's API dependency.
// Unset function fields return empty values.
type MockAPI struct {
	CurrentUserFunc    func(ctx context.Context) (*spotify.User, error)
	TopTracksFunc      func(ctx context.Context, timeRange string, maxItems int) ([]spotify.Track, error)
	TopArtistsFunc     func(ctx context.Context, timeRange string, maxItems int) ([]spotify.Artist, error)
	RecentlyPlayedFunc func(ctx context.Context, limit int) ([]spotify.RecentlyPlayedItem, error)
	AudioFeaturesFunc  func(ctx context.Context, ids []string) ([]spotify.AudioFeatures, error)
}

func (m *MockAPI) CurrentUser(ctx context.Context) (*spotify.User, error) {
	if m.CurrentUserFunc != nil {
		return m.CurrentUserFunc(ctx)
	}
	return &spotify.User{}, nil
}

func (m *MockAPI) TopTracks(ctx context.Context, timeRange string, maxItems int) ([]spotify.Track, error) {
	if m.TopTracksFunc != nil {
		return m.TopTracksFunc(ctx, timeRange, maxItems)
	}
	return nil, nil
}

func (m *MockAPI) TopArtists(ctx context.Context, timeRange string, maxItems int) ([]spotify.Artist, error) {
	if m.TopArtistsFunc != nil {
		return m.TopArtistsFunc(ctx, timeRange, maxItems)
	}
	return nil, nil
}

func (m *MockAPI) RecentlyPlayed(ctx context.Context, limit int) ([]spotify.RecentlyPlayedItem, error) {
	if m.RecentlyPlayedFunc != nil {
		return m.RecentlyPlayedFunc(ctx, limit)
	}
	return nil, nil
}

func (m *MockAPI) AudioFeatures(ctx context.Context, ids []string) ([]spotify.AudioFeatures, error) {
	if m.AudioFeaturesFunc != nil {
		return m.AudioFeaturesFunc(ctx, ids)
	}
	return nil, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

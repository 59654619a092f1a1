package wrapped

import "fmt"

// ProgressUpdate represents a progress event during snapshot assembly.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number
	Total   int    // Total steps
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	FetchProfile Phase = iota
	FetchTopTracks
	FetchTopArtists
	FetchRecent
	FetchFeatures
	Derive
)

func (p Phase) String() string {
	switch p {
	case FetchProfile:
		return "fetch_profile"
	case FetchTopTracks:
		return "fetch_top_tracks"
	case FetchTopArtists:
		return "fetch_top_artists"
	case FetchRecent:
		return "fetch_recent"
	case FetchFeatures:
		return "fetch_features"
	case Derive:
		return "derive"
	default:
		return ""
	}
}

func fetchUpdate(phase Phase, step, total int, what string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching %s...", what),
	}
}

func deriveUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Derive,
		Step:    step,
		Total:   total,
		Message: "Crunching the numbers...",
	}
}

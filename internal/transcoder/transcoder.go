package transcoder

import (
	"context"
	"time"
)

// Rendition is one rung of the adaptive bitrate ladder.
type Rendition struct {
	// Name labels the rendition and names its output subdirectory ("720p").
	Name string
	// Height is the target frame height in pixels. Width follows the source
	// aspect ratio.
	Height int
	// Bitrate is the target video bitrate in bits per second. It is also
	// advertised in the master playlist.
	Bitrate int
}

// DefaultLadder covers the common viewing conditions without burning worker
// CPU on rungs most uploads never need.
func DefaultLadder() []Rendition {
	return []Rendition{
		{Name: "1080p", Height: 1080, Bitrate: 5_000_000},
		{Name: "720p", Height: 720, Bitrate: 2_500_000},
		{Name: "360p", Height: 360, Bitrate: 800_000},
	}
}

// RenditionOutput describes the files produced for one ladder rung.
type RenditionOutput struct {
	Rendition    Rendition
	PlaylistPath string
	SegmentPaths []string
}

// Result is everything a finished transcode produced on local disk.
type Result struct {
	// MasterPlaylistPath points at the master .m3u8 referencing every rung.
	MasterPlaylistPath string
	// ThumbnailPath points at the captured poster frame.
	ThumbnailPath string
	// Duration is the source duration as probed from the container.
	Duration time.Duration
	// Renditions holds the per-rung playlists and segments.
	Renditions []RenditionOutput
}

// Transcoder converts an uploaded original into HLS renditions plus a poster
// frame. Output lands under outputDir, which must already exist.
type Transcoder interface {
	Transcode(ctx context.Context, inputPath, outputDir string, ladder []Rendition) (*Result, error)
}

package transcoder

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	masterPlaylistName = "master.m3u8"
	renditionPlaylist  = "playlist.m3u8"
	segmentPattern     = "segment_%05d.ts"
	thumbnailName      = "thumbnail.jpg"
)

// FFmpegConfig tunes the external ffmpeg/ffprobe invocations.
type FFmpegConfig struct {
	// FFmpegPath and FFprobePath locate the binaries. Bare names resolve
	// through PATH.
	FFmpegPath  string
	FFprobePath string

	// VideoCodec and AudioCodec select the encoders.
	VideoCodec string
	AudioCodec string

	// Preset is the x264 speed/quality tradeoff.
	Preset string

	// SegmentSeconds is the target HLS segment length. Six seconds is the
	// Apple recommendation for VOD.
	SegmentSeconds int

	// ThumbnailOffset is how far into the video the poster frame is taken.
	// Clamped to the start for sources shorter than the offset.
	ThumbnailOffset time.Duration
}

// DefaultFFmpegConfig returns production defaults.
func DefaultFFmpegConfig() FFmpegConfig {
	return FFmpegConfig{
		FFmpegPath:      "ffmpeg",
		FFprobePath:     "ffprobe",
		VideoCodec:      "libx264",
		AudioCodec:      "aac",
		Preset:          "fast",
		SegmentSeconds:  6,
		ThumbnailOffset: 3 * time.Second,
	}
}

// FFmpegTranscoder runs ffmpeg as a subprocess, one pass per ladder rung.
// Rungs run sequentially; a worker processes one task at a time and parallel
// encodes would just fight over the same cores.
type FFmpegTranscoder struct {
	config FFmpegConfig
}

var _ Transcoder = (*FFmpegTranscoder)(nil)

// NewFFmpegTranscoder creates a transcoder backed by the ffmpeg CLI.
func NewFFmpegTranscoder(cfg FFmpegConfig) *FFmpegTranscoder {
	return &FFmpegTranscoder{config: cfg}
}

// Transcode produces every ladder rung, the master playlist and the poster
// frame under outputDir.
func (t *FFmpegTranscoder) Transcode(ctx context.Context, inputPath, outputDir string, ladder []Rendition) (*Result, error) {
	if len(ladder) == 0 {
		return nil, fmt.Errorf("rendition ladder is empty")
	}
	if err := checkSource(inputPath); err != nil {
		return nil, err
	}
	if err := checkWorkDir(outputDir); err != nil {
		return nil, err
	}

	duration, err := t.probeDuration(ctx, inputPath)
	if err != nil {
		return nil, fmt.Errorf("probe source: %w", err)
	}

	var outputs []RenditionOutput
	for _, rung := range ladder {
		out, err := t.transcodeRendition(ctx, inputPath, outputDir, rung)
		if err != nil {
			return nil, fmt.Errorf("rendition %s: %w", rung.Name, err)
		}
		outputs = append(outputs, *out)
	}

	masterPath := filepath.Join(outputDir, masterPlaylistName)
	if err := writeMasterPlaylist(masterPath, outputs); err != nil {
		return nil, fmt.Errorf("write master playlist: %w", err)
	}

	thumbPath := filepath.Join(outputDir, thumbnailName)
	if err := t.captureThumbnail(ctx, inputPath, thumbPath, duration); err != nil {
		return nil, fmt.Errorf("capture thumbnail: %w", err)
	}

	return &Result{
		MasterPlaylistPath: masterPath,
		ThumbnailPath:      thumbPath,
		Duration:           duration,
		Renditions:         outputs,
	}, nil
}

func (t *FFmpegTranscoder) transcodeRendition(ctx context.Context, inputPath, outputDir string, rung Rendition) (*RenditionOutput, error) {
	rungDir := filepath.Join(outputDir, rung.Name)
	if err := os.MkdirAll(rungDir, 0o755); err != nil {
		return nil, fmt.Errorf("create rendition directory: %w", err)
	}

	playlistPath := filepath.Join(rungDir, renditionPlaylist)
	args := t.renditionArgs(inputPath, playlistPath, filepath.Join(rungDir, segmentPattern), rung)

	if err := t.runFFmpeg(ctx, args); err != nil {
		return nil, err
	}

	segments, err := gatherSegments(rungDir)
	if err != nil {
		return nil, err
	}

	return &RenditionOutput{
		Rendition:    rung,
		PlaylistPath: playlistPath,
		SegmentPaths: segments,
	}, nil
}

// renditionArgs builds the ffmpeg invocation for one ladder rung. The scale
// filter's -2 keeps the computed width divisible by two, which x264 requires.
func (t *FFmpegTranscoder) renditionArgs(inputPath, playlistPath, segmentPath string, rung Rendition) []string {
	return []string{
		"-i", inputPath,
		"-vf", fmt.Sprintf("scale=-2:%d", rung.Height),
		"-c:v", t.config.VideoCodec,
		"-preset", t.config.Preset,
		"-b:v", strconv.Itoa(rung.Bitrate),
		"-c:a", t.config.AudioCodec,
		"-f", "hls",
		"-hls_time", strconv.Itoa(t.config.SegmentSeconds),
		"-hls_list_size", "0",
		"-hls_playlist_type", "vod",
		"-hls_segment_filename", segmentPath,
		"-y",
		playlistPath,
	}
}

// captureThumbnail grabs a single frame as the poster image. Seeking past
// the end of a very short clip would produce nothing, so the offset is
// clamped to the start in that case.
func (t *FFmpegTranscoder) captureThumbnail(ctx context.Context, inputPath, outputPath string, duration time.Duration) error {
	offset := t.config.ThumbnailOffset
	if duration > 0 && offset >= duration {
		offset = 0
	}

	args := []string{
		"-ss", strconv.FormatFloat(offset.Seconds(), 'f', 3, 64),
		"-i", inputPath,
		"-frames:v", "1",
		"-vf", "scale=-2:720",
		"-y",
		outputPath,
	}
	return t.runFFmpeg(ctx, args)
}

func (t *FFmpegTranscoder) runFFmpeg(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, t.config.FFmpegPath, args...)
	// ffmpeg writes progress to stderr; keep only the tail for the error.
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("transcode cancelled: %w", ctx.Err())
		}
		return fmt.Errorf("ffmpeg: %w: %s", err, lastLine(stderr.String()))
	}
	return nil
}

// probeDuration asks ffprobe for the container duration.
func (t *FFmpegTranscoder) probeDuration(ctx context.Context, inputPath string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, t.config.FFprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		inputPath,
	)
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return 0, fmt.Errorf("probe cancelled: %w", ctx.Err())
		}
		return 0, fmt.Errorf("ffprobe: %w", err)
	}
	return parseProbeDuration(string(out))
}

// parseProbeDuration converts ffprobe's fractional-seconds output ("13.504")
// into a duration.
func parseProbeDuration(out string) (time.Duration, error) {
	seconds, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected ffprobe output %q: %w", strings.TrimSpace(out), err)
	}
	if seconds < 0 {
		return 0, fmt.Errorf("negative duration %f", seconds)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

func checkSource(inputPath string) error {
	info, err := os.Stat(inputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("source file does not exist: %s", inputPath)
		}
		return fmt.Errorf("stat source: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("source is a directory: %s", inputPath)
	}
	return nil
}

func checkWorkDir(outputDir string) error {
	info, err := os.Stat(outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("output directory does not exist: %s", outputDir)
		}
		return fmt.Errorf("stat output directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output path is not a directory: %s", outputDir)
	}
	return nil
}

// gatherSegments lists the .ts files ffmpeg wrote for a rendition, in name
// order, which matches segment order because of the zero-padded pattern.
func gatherSegments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read rendition directory: %w", err)
	}

	var segments []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".ts") {
			segments = append(segments, filepath.Join(dir, entry.Name()))
		}
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("ffmpeg produced no segments in %s", dir)
	}
	return segments, nil
}

// writeMasterPlaylist emits the master .m3u8 referencing each rung's
// playlist by its relative path. The advertised resolution assumes 16:9;
// players treat it as a hint and use the real stream dimensions.
func writeMasterPlaylist(path string, outputs []RenditionOutput) error {
	var b strings.Builder
	b.WriteString("#EXTM3U\n#EXT-X-VERSION:3\n")

	for _, out := range outputs {
		width := out.Rendition.Height * 16 / 9
		if width%2 != 0 {
			width++
		}
		fmt.Fprintf(&b, "#EXT-X-STREAM-INF:BANDWIDTH=%d,RESOLUTION=%dx%d\n",
			out.Rendition.Bitrate, width, out.Rendition.Height)
		fmt.Fprintf(&b, "%s/%s\n", out.Rendition.Name, renditionPlaylist)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write playlist: %w", err)
	}
	return nil
}

func lastLine(s string) string {
	s = strings.TrimRight(s, "\n")
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

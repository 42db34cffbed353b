package repository

import (
	"context"

	"github.com/google/uuid"
)

// TranscodeTask is the message enqueued when an uploaded video needs to be
// converted into its streaming renditions.
type TranscodeTask struct {
	VideoID uuid.UUID `json:"video_id"`
	// SourceKey is the object key of the uploaded original.
	SourceKey string `json:"source_key"`
	// OutputPrefix is the object key prefix under which rendition playlists,
	// segments and the thumbnail are written.
	OutputPrefix string `json:"output_prefix"`
	// Attempt counts how many times this task has been handed to a worker.
	// A fresh task starts at zero.
	Attempt int `json:"attempt"`
}

// MessageQueue carries transcode tasks from the API to the worker fleet.
type MessageQueue interface {
	// PublishTranscodeTask enqueues one task. The broker persists it until a
	// worker acknowledges it.
	PublishTranscodeTask(ctx context.Context, task TranscodeTask) error

	// ConsumeTranscodeTasks blocks, invoking handler for each delivered task,
	// until the context is cancelled or the broker connection drops.
	ConsumeTranscodeTasks(ctx context.Context, handler func(task TranscodeTask) error) error

	Close() error
}

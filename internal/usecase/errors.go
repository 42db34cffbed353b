package usecase

import "errors"

var (
	// ErrNotAuthorized is returned when the caller may not see or mutate the
	// target resource.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrSelfSubscription is returned when a viewer subscribes to themselves.
	ErrSelfSubscription = errors.New("cannot subscribe to yourself")

	// ErrSelfBlock is returned when a viewer blocks themselves.
	ErrSelfBlock = errors.New("cannot block yourself")

	// ErrVideoAlreadyCompleted is returned when attempting to process a video that has already completed.
	ErrVideoAlreadyCompleted = errors.New("video processing has already completed")
)

package repository

import "errors"

var (
	// ErrVideoNotFound is returned when a video cannot be found.
	ErrVideoNotFound = errors.New("video not found")

	// ErrDuplicateVideo is returned when attempting to create a video that already exists.
	ErrDuplicateVideo = errors.New("video already exists")

	// ErrUserNotFound is returned when a user cannot be found.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateUser is returned when a user with the same subject already exists.
	ErrDuplicateUser = errors.New("user already exists")

	// ErrStreamNotFound is returned when a stream session cannot be found.
	ErrStreamNotFound = errors.New("stream not found")

	// ErrDuplicateStream is returned when the broadcaster already has a stream session.
	ErrDuplicateStream = errors.New("stream already exists for this broadcaster")

	// ErrStaleStreamEvent is returned when a status transition carries an
	// event timestamp older than the last one applied.
	ErrStaleStreamEvent = errors.New("stream status event is stale")

	// ErrCommentNotFound is returned when a comment cannot be found.
	ErrCommentNotFound = errors.New("comment not found")

	// ErrSubscriptionNotFound is returned when a subscription edge is absent.
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrDuplicateSubscription is returned on a second subscribe to the same creator.
	ErrDuplicateSubscription = errors.New("already subscribed")

	// ErrBlockNotFound is returned when a block edge is absent.
	ErrBlockNotFound = errors.New("block not found")

	// ErrDuplicateBlock is returned on a second block of the same user.
	ErrDuplicateBlock = errors.New("user already blocked")

	// ErrPlaylistNotFound is returned when a playlist cannot be found.
	ErrPlaylistNotFound = errors.New("playlist not found")

	// ErrDuplicatePlaylistVideo is returned when a video is already in the playlist.
	ErrDuplicatePlaylistVideo = errors.New("video already in playlist")

	// ErrPlaylistVideoNotFound is returned when a video is not in the playlist.
	ErrPlaylistVideoNotFound = errors.New("video not in playlist")

	// ErrBucketNotFound is returned when the configured storage bucket does not exist.
	ErrBucketNotFound = errors.New("bucket not found")

	// ErrObjectNotFound is returned when a storage object key does not exist.
	ErrObjectNotFound = errors.New("object not found")
)

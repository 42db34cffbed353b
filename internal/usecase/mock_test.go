package usecase

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/vidcast-dev/vidcast/internal/domain/model"
	"github.com/vidcast-dev/vidcast/internal/domain/repository"
	"github.com/vidcast-dev/vidcast/internal/pagination"
	"github.com/vidcast-dev/vidcast/internal/transcoder"
)

// mockVideoRepository provides a configurable mock for VideoRepository.
type mockVideoRepository struct {
	createFn        func(ctx context.Context, video *model.Video) error
	getByIDFn       func(ctx context.Context, id uuid.UUID) (*model.Video, error)
	getSummaryFn    func(ctx context.Context, id uuid.UUID) (*model.VideoSummary, error)
	updateFn        func(ctx context.Context, video *model.Video) error
	updateDetailsFn func(ctx context.Context, id, ownerID uuid.UUID, update repository.VideoUpdate) (*model.Video, error)
	updateStatusFn  func(ctx context.Context, id uuid.UUID, status model.Status) error
	deleteFn        func(ctx context.Context, id, ownerID uuid.UUID) (*model.Video, error)
	listFn          func(ctx context.Context, filter repository.VideoFilter, limit int, cursor *pagination.Cursor) ([]model.VideoSummary, error)
	listTrendingFn  func(ctx context.Context, limit int, cursor *pagination.Cursor) ([]model.VideoSummary, error)
	listLikedFn     func(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]model.VideoSummary, error)
	listHistoryFn   func(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]model.VideoSummary, error)
	recordViewFn    func(ctx context.Context, userID, videoID uuid.UUID) error
}

func (m *mockVideoRepository) Create(ctx context.Context, video *model.Video) error {
	if m.createFn != nil {
		return m.createFn(ctx, video)
	}
	return nil
}

func (m *mockVideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockVideoRepository) GetSummary(ctx context.Context, id uuid.UUID) (*model.VideoSummary, error) {
	if m.getSummaryFn != nil {
		return m.getSummaryFn(ctx, id)
	}
	return nil, nil
}

func (m *mockVideoRepository) Update(ctx context.Context, video *model.Video) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, video)
	}
	return nil
}

func (m *mockVideoRepository) UpdateDetails(ctx context.Context, id, ownerID uuid.UUID, update repository.VideoUpdate) (*model.Video, error) {
	if m.updateDetailsFn != nil {
		return m.updateDetailsFn(ctx, id, ownerID, update)
	}
	return nil, nil
}

func (m *mockVideoRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.Status) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return nil
}

func (m *mockVideoRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) (*model.Video, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, ownerID)
	}
	return nil, nil
}

func (m *mockVideoRepository) List(ctx context.Context, filter repository.VideoFilter, limit int, cursor *pagination.Cursor) ([]model.VideoSummary, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter, limit, cursor)
	}
	return nil, nil
}

func (m *mockVideoRepository) ListTrending(ctx context.Context, limit int, cursor *pagination.Cursor) ([]model.VideoSummary, error) {
	if m.listTrendingFn != nil {
		return m.listTrendingFn(ctx, limit, cursor)
	}
	return nil, nil
}

func (m *mockVideoRepository) ListLiked(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]model.VideoSummary, error) {
	if m.listLikedFn != nil {
		return m.listLikedFn(ctx, userID, limit, cursor)
	}
	return nil, nil
}

func (m *mockVideoRepository) ListHistory(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]model.VideoSummary, error) {
	if m.listHistoryFn != nil {
		return m.listHistoryFn(ctx, userID, limit, cursor)
	}
	return nil, nil
}

func (m *mockVideoRepository) RecordView(ctx context.Context, userID, videoID uuid.UUID) error {
	if m.recordViewFn != nil {
		return m.recordViewFn(ctx, userID, videoID)
	}
	return nil
}

// mockAccessRepository provides a configurable mock for AccessRepository.
type mockAccessRepository struct {
	relationshipFn func(ctx context.Context, viewerID *uuid.UUID, ownerID uuid.UUID) (model.Relationship, error)
}

func (m *mockAccessRepository) Relationship(ctx context.Context, viewerID *uuid.UUID, ownerID uuid.UUID) (model.Relationship, error) {
	if m.relationshipFn != nil {
		return m.relationshipFn(ctx, viewerID, ownerID)
	}
	return model.Relationship{}, nil
}

// mockObjectStorage provides a configurable mock for ObjectStorage.
type mockObjectStorage struct {
	generatePresignedUploadURLFn   func(ctx context.Context, key string, expiry time.Duration) (string, error)
	generatePresignedDownloadURLFn func(ctx context.Context, key string, expiry time.Duration) (string, error)
	uploadFn                       func(ctx context.Context, key string, reader io.Reader, contentType string) error
	downloadFn                     func(ctx context.Context, key string) (io.ReadCloser, error)
	deleteFn                       func(ctx context.Context, key string) error
	existsFn                       func(ctx context.Context, key string) (bool, error)
}

func (m *mockObjectStorage) GeneratePresignedUploadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if m.generatePresignedUploadURLFn != nil {
		return m.generatePresignedUploadURLFn(ctx, key, expiry)
	}
	return "http://example.com/upload", nil
}

func (m *mockObjectStorage) GeneratePresignedDownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if m.generatePresignedDownloadURLFn != nil {
		return m.generatePresignedDownloadURLFn(ctx, key, expiry)
	}
	return "http://example.com/download", nil
}

func (m *mockObjectStorage) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, key, reader, contentType)
	}
	return nil
}

func (m *mockObjectStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if m.downloadFn != nil {
		return m.downloadFn(ctx, key)
	}
	return nil, nil
}

func (m *mockObjectStorage) Delete(ctx context.Context, key string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, key)
	}
	return nil
}

func (m *mockObjectStorage) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

// mockMessageQueue provides a configurable mock for MessageQueue.
type mockMessageQueue struct {
	publishTranscodeTaskFn  func(ctx context.Context, task repository.TranscodeTask) error
	consumeTranscodeTasksFn func(ctx context.Context, handler func(task repository.TranscodeTask) error) error
}

func (m *mockMessageQueue) PublishTranscodeTask(ctx context.Context, task repository.TranscodeTask) error {
	if m.publishTranscodeTaskFn != nil {
		return m.publishTranscodeTaskFn(ctx, task)
	}
	return nil
}

func (m *mockMessageQueue) ConsumeTranscodeTasks(ctx context.Context, handler func(task repository.TranscodeTask) error) error {
	if m.consumeTranscodeTasksFn != nil {
		return m.consumeTranscodeTasksFn(ctx, handler)
	}
	return nil
}

func (m *mockMessageQueue) Close() error {
	return nil
}

// mockTranscoder provides a configurable mock for Transcoder.
type mockTranscoder struct {
	transcodeFn func(ctx context.Context, inputPath, outputDir string, ladder []transcoder.Rendition) (*transcoder.Result, error)
}

func (m *mockTranscoder) Transcode(ctx context.Context, inputPath, outputDir string, ladder []transcoder.Rendition) (*transcoder.Result, error) {
	if m.transcodeFn != nil {
		return m.transcodeFn(ctx, inputPath, outputDir, ladder)
	}
	return nil, nil
}

// mockStreamRepository provides a configurable mock for StreamRepository.
type mockStreamRepository struct {
	createFn         func(ctx context.Context, stream *model.Stream) error
	getByIDFn        func(ctx context.Context, id uuid.UUID) (*model.Stream, error)
	getByUserIDFn    func(ctx context.Context, userID uuid.UUID) (*model.Stream, error)
	getByStreamKeyFn func(ctx context.Context, streamKey string) (*model.Stream, error)
	getDetailFn      func(ctx context.Context, broadcasterID uuid.UUID, viewerID *uuid.UUID) (*model.StreamDetail, error)
	updateDetailsFn  func(ctx context.Context, id, ownerID uuid.UUID, update repository.StreamUpdate) (*model.Stream, error)
	setLiveFn        func(ctx context.Context, streamKey, publicToken string, eventTime time.Time) (*model.Stream, error)
	setOfflineFn     func(ctx context.Context, streamKey string, eventTime time.Time) (*model.Stream, error)
	deleteFn         func(ctx context.Context, userID uuid.UUID) (*model.Stream, error)
	listFn           func(ctx context.Context, viewerID *uuid.UUID, limit int, cursor *pagination.Cursor) ([]model.StreamSummary, error)
}

func (m *mockStreamRepository) Create(ctx context.Context, stream *model.Stream) error {
	if m.createFn != nil {
		return m.createFn(ctx, stream)
	}
	return nil
}

func (m *mockStreamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Stream, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockStreamRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Stream, error) {
	if m.getByUserIDFn != nil {
		return m.getByUserIDFn(ctx, userID)
	}
	return nil, repository.ErrStreamNotFound
}

func (m *mockStreamRepository) GetByStreamKey(ctx context.Context, streamKey string) (*model.Stream, error) {
	if m.getByStreamKeyFn != nil {
		return m.getByStreamKeyFn(ctx, streamKey)
	}
	return nil, repository.ErrStreamNotFound
}

func (m *mockStreamRepository) GetDetail(ctx context.Context, broadcasterID uuid.UUID, viewerID *uuid.UUID) (*model.StreamDetail, error) {
	if m.getDetailFn != nil {
		return m.getDetailFn(ctx, broadcasterID, viewerID)
	}
	return nil, repository.ErrStreamNotFound
}

func (m *mockStreamRepository) UpdateDetails(ctx context.Context, id, ownerID uuid.UUID, update repository.StreamUpdate) (*model.Stream, error) {
	if m.updateDetailsFn != nil {
		return m.updateDetailsFn(ctx, id, ownerID, update)
	}
	return nil, nil
}

func (m *mockStreamRepository) SetLive(ctx context.Context, streamKey, publicToken string, eventTime time.Time) (*model.Stream, error) {
	if m.setLiveFn != nil {
		return m.setLiveFn(ctx, streamKey, publicToken, eventTime)
	}
	return nil, nil
}

func (m *mockStreamRepository) SetOffline(ctx context.Context, streamKey string, eventTime time.Time) (*model.Stream, error) {
	if m.setOfflineFn != nil {
		return m.setOfflineFn(ctx, streamKey, eventTime)
	}
	return nil, nil
}

func (m *mockStreamRepository) Delete(ctx context.Context, userID uuid.UUID) (*model.Stream, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockStreamRepository) List(ctx context.Context, viewerID *uuid.UUID, limit int, cursor *pagination.Cursor) ([]model.StreamSummary, error) {
	if m.listFn != nil {
		return m.listFn(ctx, viewerID, limit, cursor)
	}
	return nil, nil
}

// mockChatService provides a configurable mock for ChatService.
type mockChatService struct {
	createChannelFn   func(ctx context.Context, channelID uuid.UUID, ownerSubject string) error
	deleteChannelFn   func(ctx context.Context, channelID uuid.UUID) error
	resetChannelFn    func(ctx context.Context, channelID uuid.UUID) error
	freezeChannelFn   func(ctx context.Context, channelID uuid.UUID) error
	addMemberFn       func(ctx context.Context, channelID uuid.UUID, subject string) error
	banUserFn         func(ctx context.Context, channelID uuid.UUID, subject, reason string) error
	unbanUserFn       func(ctx context.Context, channelID uuid.UUID, subject string) error
	isBannedFn        func(ctx context.Context, channelID uuid.UUID, subject string) (bool, error)
	createUserTokenFn func(subject string, ttl time.Duration) (string, error)
}

func (m *mockChatService) CreateChannel(ctx context.Context, channelID uuid.UUID, ownerSubject string) error {
	if m.createChannelFn != nil {
		return m.createChannelFn(ctx, channelID, ownerSubject)
	}
	return nil
}

func (m *mockChatService) DeleteChannel(ctx context.Context, channelID uuid.UUID) error {
	if m.deleteChannelFn != nil {
		return m.deleteChannelFn(ctx, channelID)
	}
	return nil
}

func (m *mockChatService) ResetChannel(ctx context.Context, channelID uuid.UUID) error {
	if m.resetChannelFn != nil {
		return m.resetChannelFn(ctx, channelID)
	}
	return nil
}

func (m *mockChatService) FreezeChannel(ctx context.Context, channelID uuid.UUID) error {
	if m.freezeChannelFn != nil {
		return m.freezeChannelFn(ctx, channelID)
	}
	return nil
}

func (m *mockChatService) AddMember(ctx context.Context, channelID uuid.UUID, subject string) error {
	if m.addMemberFn != nil {
		return m.addMemberFn(ctx, channelID, subject)
	}
	return nil
}

func (m *mockChatService) BanUser(ctx context.Context, channelID uuid.UUID, subject, reason string) error {
	if m.banUserFn != nil {
		return m.banUserFn(ctx, channelID, subject, reason)
	}
	return nil
}

func (m *mockChatService) UnbanUser(ctx context.Context, channelID uuid.UUID, subject string) error {
	if m.unbanUserFn != nil {
		return m.unbanUserFn(ctx, channelID, subject)
	}
	return nil
}

func (m *mockChatService) IsBanned(ctx context.Context, channelID uuid.UUID, subject string) (bool, error) {
	if m.isBannedFn != nil {
		return m.isBannedFn(ctx, channelID, subject)
	}
	return false, nil
}

func (m *mockChatService) CreateUserToken(subject string, ttl time.Duration) (string, error) {
	if m.createUserTokenFn != nil {
		return m.createUserTokenFn(subject, ttl)
	}
	return "chat-token", nil
}

// mockEventBus provides a configurable mock for EventBus.
type mockEventBus struct {
	publishStreamStatusFn func(ctx context.Context, streamID uuid.UUID, isLive bool) error
	publishUserBannedFn   func(ctx context.Context, streamID uuid.UUID, subject string) error
}

func (m *mockEventBus) PublishStreamStatus(ctx context.Context, streamID uuid.UUID, isLive bool) error {
	if m.publishStreamStatusFn != nil {
		return m.publishStreamStatusFn(ctx, streamID, isLive)
	}
	return nil
}

func (m *mockEventBus) PublishUserBanned(ctx context.Context, streamID uuid.UUID, subject string) error {
	if m.publishUserBannedFn != nil {
		return m.publishUserBannedFn(ctx, streamID, subject)
	}
	return nil
}

// mockUserRepository provides a configurable mock for UserRepository.
type mockUserRepository struct {
	createFn          func(ctx context.Context, user *model.User) error
	getByIDFn         func(ctx context.Context, id uuid.UUID) (*model.User, error)
	getBySubjectFn    func(ctx context.Context, subject string) (*model.User, error)
	updateBySubjectFn func(ctx context.Context, subject, name, imageURL string) (*model.User, error)
	deleteBySubjectFn func(ctx context.Context, subject string) error
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &model.User{ID: id}, nil
}

func (m *mockUserRepository) GetBySubject(ctx context.Context, subject string) (*model.User, error) {
	if m.getBySubjectFn != nil {
		return m.getBySubjectFn(ctx, subject)
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) UpdateBySubject(ctx context.Context, subject, name, imageURL string) (*model.User, error) {
	if m.updateBySubjectFn != nil {
		return m.updateBySubjectFn(ctx, subject, name, imageURL)
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) DeleteBySubject(ctx context.Context, subject string) error {
	if m.deleteBySubjectFn != nil {
		return m.deleteBySubjectFn(ctx, subject)
	}
	return nil
}

// mockCommentRepository provides a configurable mock for CommentRepository.
type mockCommentRepository struct {
	createFn       func(ctx context.Context, comment *model.Comment) error
	getByIDFn      func(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	deleteFn       func(ctx context.Context, id, ownerID uuid.UUID) (*model.Comment, error)
	listFn         func(ctx context.Context, videoID uuid.UUID, parentID, viewerID *uuid.UUID, limit int, cursor *pagination.Cursor) ([]model.CommentSummary, error)
	countByVideoFn func(ctx context.Context, videoID uuid.UUID) (int64, error)
}

func (m *mockCommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	if m.createFn != nil {
		return m.createFn(ctx, comment)
	}
	return nil
}

func (m *mockCommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrCommentNotFound
}

func (m *mockCommentRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) (*model.Comment, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, ownerID)
	}
	return nil, nil
}

func (m *mockCommentRepository) List(ctx context.Context, videoID uuid.UUID, parentID, viewerID *uuid.UUID, limit int, cursor *pagination.Cursor) ([]model.CommentSummary, error) {
	if m.listFn != nil {
		return m.listFn(ctx, videoID, parentID, viewerID, limit, cursor)
	}
	return nil, nil
}

func (m *mockCommentRepository) CountByVideo(ctx context.Context, videoID uuid.UUID) (int64, error) {
	if m.countByVideoFn != nil {
		return m.countByVideoFn(ctx, videoID)
	}
	return 0, nil
}

// mockReactionRepository provides a configurable mock for ReactionRepository.
type mockReactionRepository struct {
	getVideoReactionFn     func(ctx context.Context, userID, videoID uuid.UUID) (*model.VideoReaction, error)
	setVideoReactionFn     func(ctx context.Context, userID, videoID uuid.UUID, reaction model.ReactionType) (*model.VideoReaction, error)
	clearVideoReactionFn   func(ctx context.Context, userID, videoID uuid.UUID) error
	getCommentReactionFn   func(ctx context.Context, userID, commentID uuid.UUID) (*model.CommentReaction, error)
	setCommentReactionFn   func(ctx context.Context, userID, commentID uuid.UUID, reaction model.ReactionType) (*model.CommentReaction, error)
	clearCommentReactionFn func(ctx context.Context, userID, commentID uuid.UUID) error
}

func (m *mockReactionRepository) GetVideoReaction(ctx context.Context, userID, videoID uuid.UUID) (*model.VideoReaction, error) {
	if m.getVideoReactionFn != nil {
		return m.getVideoReactionFn(ctx, userID, videoID)
	}
	return nil, nil
}

func (m *mockReactionRepository) SetVideoReaction(ctx context.Context, userID, videoID uuid.UUID, reaction model.ReactionType) (*model.VideoReaction, error) {
	if m.setVideoReactionFn != nil {
		return m.setVideoReactionFn(ctx, userID, videoID, reaction)
	}
	return &model.VideoReaction{UserID: userID, VideoID: videoID, Type: reaction}, nil
}

func (m *mockReactionRepository) ClearVideoReaction(ctx context.Context, userID, videoID uuid.UUID) error {
	if m.clearVideoReactionFn != nil {
		return m.clearVideoReactionFn(ctx, userID, videoID)
	}
	return nil
}

func (m *mockReactionRepository) GetCommentReaction(ctx context.Context, userID, commentID uuid.UUID) (*model.CommentReaction, error) {
	if m.getCommentReactionFn != nil {
		return m.getCommentReactionFn(ctx, userID, commentID)
	}
	return nil, nil
}

func (m *mockReactionRepository) SetCommentReaction(ctx context.Context, userID, commentID uuid.UUID, reaction model.ReactionType) (*model.CommentReaction, error) {
	if m.setCommentReactionFn != nil {
		return m.setCommentReactionFn(ctx, userID, commentID, reaction)
	}
	return &model.CommentReaction{UserID: userID, CommentID: commentID, Type: reaction}, nil
}

func (m *mockReactionRepository) ClearCommentReaction(ctx context.Context, userID, commentID uuid.UUID) error {
	if m.clearCommentReactionFn != nil {
		return m.clearCommentReactionFn(ctx, userID, commentID)
	}
	return nil
}

// mockSubscriptionRepository provides a configurable mock for SubscriptionRepository.
type mockSubscriptionRepository struct {
	createFn func(ctx context.Context, viewerID, creatorID uuid.UUID) (*model.Subscription, error)
	deleteFn func(ctx context.Context, viewerID, creatorID uuid.UUID) (*model.Subscription, error)
	listFn   func(ctx context.Context, viewerID uuid.UUID, limit int, cursor *pagination.Cursor) ([]model.SubscriptionSummary, error)
}

func (m *mockSubscriptionRepository) Create(ctx context.Context, viewerID, creatorID uuid.UUID) (*model.Subscription, error) {
	if m.createFn != nil {
		return m.createFn(ctx, viewerID, creatorID)
	}
	return &model.Subscription{ViewerID: viewerID, CreatorID: creatorID}, nil
}

func (m *mockSubscriptionRepository) Delete(ctx context.Context, viewerID, creatorID uuid.UUID) (*model.Subscription, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, viewerID, creatorID)
	}
	return &model.Subscription{ViewerID: viewerID, CreatorID: creatorID}, nil
}

func (m *mockSubscriptionRepository) List(ctx context.Context, viewerID uuid.UUID, limit int, cursor *pagination.Cursor) ([]model.SubscriptionSummary, error) {
	if m.listFn != nil {
		return m.listFn(ctx, viewerID, limit, cursor)
	}
	return nil, nil
}

// mockBlockRepository provides a configurable mock for BlockRepository.
type mockBlockRepository struct {
	createFn func(ctx context.Context, blockerID, blockedID uuid.UUID) (*model.Block, error)
	deleteFn func(ctx context.Context, blockerID, blockedID uuid.UUID) (*model.Block, error)
	existsFn func(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error)
	listFn   func(ctx context.Context, blockerID uuid.UUID, limit int, cursor *pagination.Cursor) ([]model.BlockSummary, error)
}

func (m *mockBlockRepository) Create(ctx context.Context, blockerID, blockedID uuid.UUID) (*model.Block, error) {
	if m.createFn != nil {
		return m.createFn(ctx, blockerID, blockedID)
	}
	return &model.Block{BlockerID: blockerID, BlockedID: blockedID}, nil
}

func (m *mockBlockRepository) Delete(ctx context.Context, blockerID, blockedID uuid.UUID) (*model.Block, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, blockerID, blockedID)
	}
	return &model.Block{BlockerID: blockerID, BlockedID: blockedID}, nil
}

func (m *mockBlockRepository) Exists(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, blockerID, blockedID)
	}
	return false, nil
}

func (m *mockBlockRepository) List(ctx context.Context, blockerID uuid.UUID, limit int, cursor *pagination.Cursor) ([]model.BlockSummary, error) {
	if m.listFn != nil {
		return m.listFn(ctx, blockerID, limit, cursor)
	}
	return nil, nil
}

// mockPlaylistRepository provides a configurable mock for PlaylistRepository.
type mockPlaylistRepository struct {
	createFn        func(ctx context.Context, playlist *model.Playlist) error
	getByIDFn       func(ctx context.Context, id uuid.UUID) (*model.Playlist, error)
	deleteFn        func(ctx context.Context, id, ownerID uuid.UUID) (*model.Playlist, error)
	listFn          func(ctx context.Context, ownerID uuid.UUID, limit int, cursor *pagination.Cursor) ([]model.PlaylistSummary, error)
	addVideoFn      func(ctx context.Context, playlistID, videoID uuid.UUID) error
	removeVideoFn   func(ctx context.Context, playlistID, videoID uuid.UUID) error
	containsVideoFn func(ctx context.Context, playlistID, videoID uuid.UUID) (bool, error)
	listVideosFn    func(ctx context.Context, playlistID uuid.UUID, limit int, cursor *pagination.Cursor) ([]model.VideoSummary, error)
}

func (m *mockPlaylistRepository) Create(ctx context.Context, playlist *model.Playlist) error {
	if m.createFn != nil {
		return m.createFn(ctx, playlist)
	}
	return nil
}

func (m *mockPlaylistRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Playlist, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrPlaylistNotFound
}

func (m *mockPlaylistRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) (*model.Playlist, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, ownerID)
	}
	return nil, nil
}

func (m *mockPlaylistRepository) List(ctx context.Context, ownerID uuid.UUID, limit int, cursor *pagination.Cursor) ([]model.PlaylistSummary, error) {
	if m.listFn != nil {
		return m.listFn(ctx, ownerID, limit, cursor)
	}
	return nil, nil
}

func (m *mockPlaylistRepository) AddVideo(ctx context.Context, playlistID, videoID uuid.UUID) error {
	if m.addVideoFn != nil {
		return m.addVideoFn(ctx, playlistID, videoID)
	}
	return nil
}

func (m *mockPlaylistRepository) RemoveVideo(ctx context.Context, playlistID, videoID uuid.UUID) error {
	if m.removeVideoFn != nil {
		return m.removeVideoFn(ctx, playlistID, videoID)
	}
	return nil
}

func (m *mockPlaylistRepository) ContainsVideo(ctx context.Context, playlistID, videoID uuid.UUID) (bool, error) {
	if m.containsVideoFn != nil {
		return m.containsVideoFn(ctx, playlistID, videoID)
	}
	return false, nil
}

func (m *mockPlaylistRepository) ListVideos(ctx context.Context, playlistID uuid.UUID, limit int, cursor *pagination.Cursor) ([]model.VideoSummary, error) {
	if m.listVideosFn != nil {
		return m.listVideosFn(ctx, playlistID, limit, cursor)
	}
	return nil, nil
}

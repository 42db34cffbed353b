package usecase

import (
	"github.com/vidcast-dev/vidcast/internal/domain/model"
	"github.com/vidcast-dev/vidcast/internal/pagination"
)

// videoCursor derives the cursor tuple for a video feed row. Feeds ordered
// by a relationship edge carry the edge's timestamp instead of the video's.
func videoCursor(s model.VideoSummary) pagination.Cursor {
	at := s.UpdatedAt
	if s.EdgeUpdatedAt != nil {
		at = *s.EdgeUpdatedAt
	}
	return pagination.Cursor{UpdatedAt: at, ID: s.ID}
}

// trendingCursor carries the derived view count so the next page resumes at
// the same point in the popularity order.
func trendingCursor(s model.VideoSummary) pagination.Cursor {
	views := s.ViewCount
	return pagination.Cursor{UpdatedAt: s.UpdatedAt, ID: s.ID, ViewCount: &views}
}

func videoPage(rows []model.VideoSummary, limit int) pagination.Page[model.VideoSummary] {
	return pagination.SlicePage(rows, limit, videoCursor)
}

package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vidcast-dev/vidcast/internal/api/middleware"
	"github.com/vidcast-dev/vidcast/internal/domain/model"
	"github.com/vidcast-dev/vidcast/internal/usecase"
)

type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ImageURL  string `json:"image_url,omitempty"`
	BannerURL string `json:"banner_url,omitempty"`
	CreatedAt string `json:"created_at"`
}

// UserHandler handles user profile HTTP requests.
type UserHandler struct {
	svc usecase.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc usecase.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Get handles GET /v1/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_user_id", "User ID must be a valid UUID")
		return
	}

	user, err := h.svc.GetUser(r.Context(), userID)
	if err != nil {
		ServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toUserResponse(user))
}

// GetMe handles GET /v1/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())
	JSON(w, http.StatusOK, toUserResponse(viewer))
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		ImageURL:  u.ImageURL,
		BannerURL: u.BannerURL,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

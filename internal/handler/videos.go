package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ironhold/internal/apperr"
	"ironhold/internal/middleware"
	"ironhold/internal/video"
)

func (h *Handler) ListVideos(c *gin.Context) {
	videos, err := h.videos.List(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, videos)
}

func (h *Handler) GetVideo(c *gin.Context) {
	v, err := h.videos.Get(c.Request.Context(), c.Param("id"), middleware.CurrentUser(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) CreateVideo(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if !h.videos.IsAdmin(user) {
		h.respondError(c, video.ErrNotAdmin)
		return
	}

	var in video.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.respondError(c, apperr.Wrap(apperr.InvalidInput, "title, description, category and video_url are required", err))
		return
	}

	v, err := h.videos.Create(c.Request.Context(), user, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) DeleteVideo(c *gin.Context) {
	if err := h.videos.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Video deleted"})
}

func (h *Handler) Categories(c *gin.Context) {
	categories, err := h.videos.Categories(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

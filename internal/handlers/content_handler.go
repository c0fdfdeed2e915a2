package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pulsewire/backend/internal/models"
	"github.com/pulsewire/backend/internal/notifier"
	"github.com/pulsewire/backend/internal/repositories"
	"gorm.io/gorm"
)

// ContentHandler handles content-related HTTP requests
type ContentHandler struct {
	contentRepository repositories.ContentRepository
	userRepository    repositories.UserRepository
	notifier          *notifier.Service
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(contentRepo repositories.ContentRepository, userRepo repositories.UserRepository, notifierService *notifier.Service) *ContentHandler {
	return &ContentHandler{
		contentRepository: contentRepo,
		userRepository:    userRepo,
		notifier:          notifierService,
	}
}

// RegisterContentRoutes registers content-related routes
func (h *ContentHandler) RegisterContentRoutes(g *echo.Group) {
	g.GET("/content", h.GetContent)
	g.GET("/content/:id", h.GetContentByID)
	g.POST("/content", h.CreateContent)
	g.PUT("/content/:id", h.UpdateContent)
	g.DELETE("/content/:id", h.DeleteContent)
	g.GET("/content/feed", h.GetFeed)
}

// GetContent lists content, optionally filtered by user_id and type
func (h *ContentHandler) GetContent(c echo.Context) error {
	var userID uint
	if v := c.QueryParam("user_id"); v != "" {
		parsed, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid user_id")
		}
		userID = uint(parsed)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	items, err := h.contentRepository.GetContent(userID, c.QueryParam("type"), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

// GetContentByID retrieves a single content item
func (h *ContentHandler) GetContentByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid content ID")
	}

	content, err := h.contentRepository.GetContentByID(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Content not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, content)
}

// CreateContent creates a new content item and kicks off notification
// fan-out for the author's followers as detached background work. The
// creation response never waits on, or fails because of, fan-out.
func (h *ContentHandler) CreateContent(c echo.Context) error {
	var req models.CreateContentRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.userRepository.GetUserByID(req.UserID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	content := &models.Content{
		UserID: req.UserID,
		Type:   req.Type,
		Title:  req.Title,
		Body:   req.Body,
	}

	if err := h.contentRepository.CreateContent(content); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	go h.notifier.OnContentCreated(content.UserID, content.ID, content.Type, content.Title)

	return c.JSON(http.StatusCreated, content)
}

// UpdateContent updates an existing content item
func (h *ContentHandler) UpdateContent(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid content ID")
	}

	var req models.UpdateContentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	content, err := h.contentRepository.GetContentByID(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Content not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.Title != "" {
		content.Title = req.Title
	}
	if req.Body != "" {
		content.Body = req.Body
	}

	if err := h.contentRepository.UpdateContent(content); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, content)
}

// DeleteContent deletes a content item
func (h *ContentHandler) DeleteContent(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid content ID")
	}

	if _, err := h.contentRepository.GetContentByID(uint(id)); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Content not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.contentRepository.DeleteContent(uint(id)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Content deleted successfully"})
}

// GetFeed returns recent content from the users the authenticated user follows
func (h *ContentHandler) GetFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	feed, err := h.contentRepository.GetFeedForUser(currentUserID, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, feed)
}

package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

// TagHandler serves the tag reference data.
type TagHandler struct {
	db          *gorm.DB
	authService *service.AuthService
}

func NewTagHandler(db *gorm.DB, authService *service.AuthService) *TagHandler {
	return &TagHandler{db: db, authService: authService}
}

func (h *TagHandler) RegisterRoutes(router *gin.RouterGroup) {
	tags := router.Group("/tags")
	{
		tags.GET("", h.ListTags)
		tags.GET("/:id", h.GetTag)
		tags.POST("", middleware.AuthMiddleware(h.authService), h.CreateTag)
	}
}

func (h *TagHandler) ListTags(c *gin.Context) {
	var tags []models.Tag
	if err := h.db.Order("slug").Find(&tags).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"errors": "failed to fetch tags"})
		return
	}

	views := make([]types.TagView, 0, len(tags))
	for i := range tags {
		views = append(views, types.NewTagView(&tags[i]))
	}
	c.JSON(http.StatusOK, views)
}

func (h *TagHandler) GetTag(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var tag models.Tag
	if err := h.db.First(&tag, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"errors": "tag not found"})
		return
	}

	c.JSON(http.StatusOK, types.NewTagView(&tag))
}

func (h *TagHandler) CreateTag(c *gin.Context) {
	var req types.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	tag := models.Tag{Name: req.Name, Color: req.Color, Slug: req.Slug}
	if err := h.db.Create(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"errors": "a tag with this slug already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"errors": "failed to create tag"})
		return
	}

	c.JSON(http.StatusCreated, types.NewTagView(&tag))
}

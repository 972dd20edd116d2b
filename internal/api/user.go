package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

// UserHandler serves public profiles and the subscription endpoints.
type UserHandler struct {
	db            *gorm.DB
	subscriptions *service.SubscriptionService
	authService   *service.AuthService
}

func NewUserHandler(db *gorm.DB, subscriptions *service.SubscriptionService, authService *service.AuthService) *UserHandler {
	return &UserHandler{
		db:            db,
		subscriptions: subscriptions,
		authService:   authService,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.authService)
	optional := middleware.OptionalAuthMiddleware(h.authService)

	users := router.Group("/users")
	{
		users.GET("", optional, h.ListUsers)
		// Static routes first so they never resolve as an :id.
		users.GET("/me", auth, h.Me)
		users.GET("/subscriptions", auth, h.Subscriptions)
		users.GET("/:id", optional, h.GetUser)
		users.POST("/:id/subscribe", auth, h.Subscribe)
		users.DELETE("/:id/subscribe", auth, h.Unsubscribe)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	var users []models.User
	if err := h.db.Order("username").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"errors": "failed to fetch users"})
		return
	}

	viewerID := viewer(c)
	views := make([]types.UserView, 0, len(users))
	for i := range users {
		isSubscribed, err := h.subscriptions.IsSubscribed(c.Request.Context(), viewerID, users[i].ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"errors": "failed to fetch users"})
			return
		}
		views = append(views, types.NewUserView(&users[i], isSubscribed))
	}

	c.JSON(http.StatusOK, views)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"errors": "user not found"})
		return
	}

	isSubscribed, err := h.subscriptions.IsSubscribed(c.Request.Context(), viewer(c), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"errors": "failed to fetch user"})
		return
	}

	c.JSON(http.StatusOK, types.NewUserView(&user, isSubscribed))
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, exists := middleware.CurrentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"errors": "user not authenticated"})
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"errors": "user not found"})
		return
	}

	c.JSON(http.StatusOK, types.NewUserView(&user, false))
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	userID, exists := middleware.CurrentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"errors": "user not authenticated"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 {
		limit = 10
	}

	views, err := h.subscriptions.Subscriptions(c.Request.Context(), userID, (page-1)*limit, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"errors": "failed to fetch subscriptions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscriptions": views})
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	userID, exists := middleware.CurrentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"errors": "user not authenticated"})
		return
	}

	view, err := h.subscriptions.Subscribe(c.Request.Context(), userID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	userID, exists := middleware.CurrentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"errors": "user not authenticated"})
		return
	}

	if err := h.subscriptions.Unsubscribe(c.Request.Context(), userID, id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/stackmatch/stackmatch/internal/api/models"
	"github.com/stackmatch/stackmatch/internal/database"
)

type Handler struct {
	db database.DB
}

func New(db database.DB) *Handler {
	return &Handler{
		db: db,
	}
}

// Health answers with a fixed payload and never touches the store.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.StatusResponse{Status: "online"})
}

func (h *Handler) RegisterUser(c *gin.Context) {
	var req models.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.db.CreateUser(c.Request.Context(), req.ToDatabaseUser())
	if err != nil {
		respondError(c, err)
		return
	}

	log.Info("User registered", "id", user.ID)
	c.JSON(http.StatusCreated, models.ToUser(*user))
}

func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.db.GetUserByCredentials(c.Request.Context(), *req.Mail, *req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ToUser(*user))
}

// UpdateUser applies a partial update. An unknown id is reported before the body is looked at.
func (h *Handler) UpdateUser(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.db.GetUserByID(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		respondBindError(c, err)
		return
	}

	changes, err := database.ParseUserChanges(raw)
	if err != nil {
		respondError(c, err)
		return
	}

	user, err := h.db.UpdateUser(c.Request.Context(), id, changes)
	if err != nil {
		respondError(c, err)
		return
	}

	log.Info("User updated", "id", id, "fields", len(changes))
	c.JSON(http.StatusOK, models.ToUser(*user))
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.db.GetAllUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ToUsers(users))
}

func (h *Handler) SendMessage(c *gin.Context) {
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	err := h.db.CreateMessage(c.Request.Context(), &database.Message{
		SenderID:   req.SenderID,
		ReceiverID: req.ReceiverID,
		Text:       req.Text,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SendMessageResponse{
		Status:  "ok",
		Message: req,
	})
}

func (h *Handler) GetMessages(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	messages, err := h.db.GetMessagesForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ToMessages(messages))
}

func (h *Handler) SaveSwipe(c *gin.Context) {
	var req models.SwipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.db.SaveSwipe(c.Request.Context(), req.SwiperID, req.SwipedID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SwipeResponse{
		Status:   "ok",
		SwiperID: req.SwiperID,
		SwipedID: req.SwipedID,
	})
}

func (h *Handler) GetSwipedUsers(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	profiles, err := h.db.GetSwipedProfiles(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ToProfiles(profiles))
}

// userIDParam parses the :user_id path parameter and aborts the request if it is not an integer.
func userIDParam(c *gin.Context) (int64, bool) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		abortWithReason(c, http.StatusBadRequest, ReasonInvalidUserID)
		return 0, false
	}
	return userID, true
}

package handler

import (
	"context"
	"mime"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/alumnihub/membership-server/internal/api/http/middleware"
	"github.com/alumnihub/membership-server/internal/logger"
	"github.com/alumnihub/membership-server/internal/model"
	"github.com/alumnihub/membership-server/internal/service"
)

// Admin serves the directory surface: listing applications and driving
// status transitions. The authenticated actor is handed to the lifecycle
// service, which does its own capability check.
type Admin struct {
	lifecycle *service.Lifecycle
	logger    *logger.Logger
}

// NewAdmin creates a new Admin handler instance.
func NewAdmin(lifecycle *service.Lifecycle, logger *logger.Logger) *Admin {
	return &Admin{lifecycle: lifecycle, logger: logger}
}

type accountResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Department string    `json:"department"`
	Batch      string    `json:"batch,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// List returns directory entries filtered by status and search query.
func (h *Admin) List(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
		return
	}

	filter := model.AccountFilter{
		Status: model.AccountStatus(c.Query("status")),
		Search: c.Query("search"),
	}

	accounts, err := h.lifecycle.List(c.Request.Context(), actor, filter)
	if err != nil {
		handleError(c, err)
		return
	}

	resp := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		resp = append(resp, accountResponse{
			ID:         a.ID,
			Name:       a.Name,
			Email:      a.Email,
			Role:       string(a.Role),
			Department: a.Department,
			Batch:      a.Batch,
			Status:     string(a.Status),
			CreatedAt:  a.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"accounts": resp})
}

// Document streams the identity document attached to an account.
func (h *Admin) Document(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return
	}

	doc, key, err := h.lifecycle.Document(c.Request.Context(), actor, id)
	if err != nil {
		handleError(c, err)
		return
	}
	defer doc.Close()

	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.DataFromReader(http.StatusOK, -1, contentType, doc, nil)
}

// Approve activates a pending account.
func (h *Admin) Approve(c *gin.Context) {
	h.transition(c, h.lifecycle.Approve)
}

// Block denies an account any future session.
func (h *Admin) Block(c *gin.Context) {
	h.transition(c, h.lifecycle.Block)
}

// Delete removes an account and everything attached to it.
func (h *Admin) Delete(c *gin.Context) {
	h.transition(c, h.lifecycle.Delete)
}

func (h *Admin) transition(c *gin.Context, op func(ctx context.Context, actor model.Actor, id uuid.UUID) error) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return
	}

	if err := op(c.Request.Context(), actor, id); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	apperrors "github.com/truststars/ingestd/internal/errors"
	"github.com/truststars/ingestd/internal/ingest"
)

// callerTokenHeader carries the acting account's GitHub token on add requests.
const callerTokenHeader = "X-GitHub-Token"

type Handler struct {
	service    IngestService
	syncSecret string
	logger     *logrus.Logger
}

func NewHandler(service IngestService, syncSecret string, logger *logrus.Logger) *Handler {
	return &Handler{
		service:    service,
		syncSecret: syncSecret,
		logger:     logger,
	}
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AddRepositoryRequest is the add-repository body.
type AddRepositoryRequest struct {
	URL         string        `json:"url" binding:"required"`
	Description string        `json:"description"`
	ImageURL    string        `json:"image_url"`
	Actor       *ingest.Actor `json:"actor"`
}

// AddRepository godoc
// @Summary Add or refresh a tracked repository
// @Description Runs the full ingestion pipeline for one repository and returns the stored record
// @Tags repositories
// @Accept json
// @Produce json
// @Param request body AddRepositoryRequest true "Repository to track"
// @Param X-GitHub-Token header string false "Acting account's GitHub token"
// @Success 201 {object} models.Repository
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /repositories [post]
func (h *Handler) AddRepository(c *gin.Context) {
	var req AddRepositoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "url is required"})
		return
	}

	repo, err := h.service.IngestRepository(c.Request.Context(), ingest.IngestRequest{
		Ref:         req.URL,
		CallerToken: c.GetHeader(callerTokenHeader),
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Actor:       req.Actor,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, repo)
}

// ListRepositories godoc
// @Summary List tracked repositories
// @Description Returns all tracked repositories ordered by activity score
// @Tags repositories
// @Produce json
// @Success 200 {array} models.Repository
// @Failure 500 {object} ErrorResponse
// @Router /repositories [get]
func (h *Handler) ListRepositories(c *gin.Context) {
	repos, err := h.service.ListRepositories(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, repos)
}

// GetRepository godoc
// @Summary Get one tracked repository
// @Tags repositories
// @Produce json
// @Param owner path string true "Repository owner"
// @Param repo path string true "Repository name"
// @Success 200 {object} models.Repository
// @Failure 404 {object} ErrorResponse
// @Router /repositories/{owner}/{repo} [get]
func (h *Handler) GetRepository(c *gin.Context) {
	fullName := c.Param("owner") + "/" + c.Param("repo")

	repo, err := h.service.GetRepository(c.Request.Context(), fullName)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, repo)
}

// GetRepositoryHistory godoc
// @Summary Get a repository's stats history
// @Description Returns the append-only snapshot series, oldest first
// @Tags repositories
// @Produce json
// @Param owner path string true "Repository owner"
// @Param repo path string true "Repository name"
// @Success 200 {array} models.Snapshot
// @Failure 404 {object} ErrorResponse
// @Router /repositories/{owner}/{repo}/history [get]
func (h *Handler) GetRepositoryHistory(c *gin.Context) {
	fullName := c.Param("owner") + "/" + c.Param("repo")

	snapshots, err := h.service.History(c.Request.Context(), fullName)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshots)
}

// SyncAll godoc
// @Summary Refresh all tracked repositories
// @Description Bulk metadata sync using the service credential; requires the sync secret
// @Tags sync
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} ingest.SyncResult
// @Failure 401 {object} ErrorResponse
// @Router /sync [post]
func (h *Handler) SyncAll(c *gin.Context) {
	if !h.authorizedSync(c) {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	result, err := h.service.SyncAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UnlinkRepository godoc
// @Summary Remove a repository from an account
// @Description Removes the ownership link; the repository itself is deleted once no links remain
// @Tags users
// @Param id path string true "Account ID"
// @Param owner path string true "Repository owner"
// @Param repo path string true "Repository name"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Router /users/{id}/repositories/{owner}/{repo} [delete]
func (h *Handler) UnlinkRepository(c *gin.Context) {
	userID := c.Param("id")
	fullName := c.Param("owner") + "/" + c.Param("repo")

	if err := h.service.UnlinkRepository(c.Request.Context(), userID, fullName); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) authorizedSync(c *gin.Context) bool {
	if h.syncSecret == "" {
		return false
	}
	auth := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.syncSecret)) == 1
}

// respondError maps pipeline errors to HTTP statuses and short user-facing
// messages, logging the full cause server-side.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case apperrors.IsInvalidInput(err):
		status = http.StatusBadRequest
	case apperrors.IsNotFound(err):
		status = http.StatusNotFound
	case apperrors.IsUnauthorized(err):
		status = http.StatusUnauthorized
	case apperrors.IsRateLimit(err):
		status = http.StatusTooManyRequests
	case apperrors.IsTransient(err):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		h.logger.Errorf("Request failed: %v", err)
	} else {
		h.logger.Warnf("Request rejected (%d): %v", status, err)
	}

	c.JSON(status, ErrorResponse{Error: apperrors.UserMessage(err)})
}

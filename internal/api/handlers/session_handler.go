package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lectura-ai/lectura/internal/models"
	"github.com/lectura-ai/lectura/internal/services"
	"github.com/lectura-ai/lectura/internal/utils"
)

type SessionHandler struct {
	Sessions services.SessionService
}

func NewSessionHandler(sessions services.SessionService) *SessionHandler {
	return &SessionHandler{Sessions: sessions}
}

// Upload accepts a multipart form with the media under "file" and optional
// title, processing_mode, and tags fields. It answers 202 with the new
// session; processing happens asynchronously.
func (h *SessionHandler) Upload(c *gin.Context) {
	const op = "SessionHandler.Upload"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "multipart 'file' field is required", err))
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to open uploaded file", err))
		return
	}
	defer f.Close()

	title := c.PostForm("title")
	if title == "" {
		title = fh.Filename
	}

	var tags []string
	if raw := c.PostForm("tags"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}

	sess, err := h.Sessions.Upload(c.Request.Context(), services.UploadInput{
		UserID:           userID,
		Title:            title,
		OriginalFileName: fh.Filename,
		ContentType:      fh.Header.Get("Content-Type"),
		ProcessingMode:   c.PostForm("processing_mode"),
		Tags:             tags,
	}, f)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, sess)
}

func (h *SessionHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sessions, err := h.Sessions.ListByUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	if sessions == nil {
		sessions = []models.Session{}
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (h *SessionHandler) Stats(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	stats, err := h.Sessions.Stats(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// AdminStats reports counts across all users.
func (h *SessionHandler) AdminStats(c *gin.Context) {
	stats, err := h.Sessions.Stats(c.Request.Context(), "")
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// getOwned loads the session and enforces that it belongs to the caller.
// Admins may read any session.
func (h *SessionHandler) getOwned(c *gin.Context) (*models.Session, bool) {
	const op = "SessionHandler.getOwned"

	userID, ok := requireUserID(c)
	if !ok {
		return nil, false
	}

	sess, err := h.Sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return nil, false
	}

	role, _ := c.Get("role")
	if sess.UserID != userID && role != string(models.RoleAdmin) {
		// Hide existence of other users' sessions.
		writeError(c, utils.E(utils.CodeNotFound, op, "session not found", nil))
		return nil, false
	}
	return sess, true
}

func (h *SessionHandler) Status(c *gin.Context) {
	sess, ok := h.getOwned(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, services.StatusView{
		ID:               sess.ID,
		Status:           sess.Status,
		Title:            sess.Title,
		OriginalFileName: sess.OriginalFileName,
	})
}

func (h *SessionHandler) Get(c *gin.Context) {
	sess, ok := h.getOwned(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, sess)
}

func (h *SessionHandler) Retry(c *gin.Context) {
	sess, ok := h.getOwned(c)
	if !ok {
		return
	}

	sess, err := h.Sessions.Retry(c.Request.Context(), sess.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, services.StatusView{
		ID:               sess.ID,
		Status:           sess.Status,
		Title:            sess.Title,
		OriginalFileName: sess.OriginalFileName,
	})
}

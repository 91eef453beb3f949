package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	userapp "stayhub/internal/app/handlers/users"
	authsvc "stayhub/internal/app/services/auth"
)

// AuthHandler issues and revokes API sessions. The bot gateway vouches for
// the caller's identity, so opening a session also upserts the profile.
type AuthHandler struct {
	Commands commands.Bus
	Service  *authsvc.Service
}

type openSessionRequest struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

type sessionResponse struct {
	Token string   `json:"token"`
	User  dto.User `json:"user"`
}

// OpenSession registers or refreshes the user and returns a bearer token.
func (h AuthHandler) OpenSession(c *gin.Context) {
	if h.Service == nil || h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "auth service unavailable"})
		return
	}
	var req openSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	cmd := userapp.RegisterUserCommand{
		UserID:    req.UserID,
		Username:  req.Username,
		FirstName: req.FirstName,
	}
	profile, err := commands.Dispatch[userapp.RegisterUserCommand, dto.User](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	issued, err := h.Service.IssueToken(c.Request.Context(), profile.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sessionResponse{Token: issued.Token, User: profile})
}

// Logout revokes the caller's session. Unknown tokens are a no-op.
func (h AuthHandler) Logout(c *gin.Context) {
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "auth service unavailable"})
		return
	}
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	if err := h.Service.Logout(c.Request.Context(), user.Token); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Me echoes the authenticated principal.
func (h AuthHandler) Me(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"first_name": user.FirstName,
		"role":       user.Role,
	})
}

var _ AuthHTTP = AuthHandler{}

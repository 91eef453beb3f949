package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	userapp "stayhub/internal/app/handlers/users"
	"stayhub/internal/app/queries"
)

// UserHandler serves profiles and admin role management.
type UserHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

// Profile returns the stored profile of the authenticated caller.
func (h UserHandler) Profile(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	query := userapp.GetProfileQuery{UserID: user.ID}
	result, err := queries.Ask[userapp.GetProfileQuery, dto.User](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type setRoleRequest struct {
	Role string `json:"role"`
}

// SetRole promotes or demotes a user. Admin only.
func (h UserHandler) SetRole(c *gin.Context) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	cmd := userapp.SetRoleCommand{
		UserID: c.Param("id"),
		Role:   req.Role,
	}
	result, err := commands.Dispatch[userapp.SetRoleCommand, dto.User](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ UserHTTP = UserHandler{}

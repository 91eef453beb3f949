package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	reviewapp "stayhub/internal/app/handlers/reviews"
	"stayhub/internal/app/queries"
)

// ReviewHandler wires review submission and listing feeds to HTTP.
type ReviewHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type submitReviewRequest struct {
	BookingID string `json:"booking_id"`
	Rating    int    `json:"rating"`
	Text      string `json:"text"`
}

// Submit records the single review allowed for a finished, confirmed stay.
func (h ReviewHandler) Submit(c *gin.Context) {
	user, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	cmd := reviewapp.SubmitReviewCommand{
		BookingID: req.BookingID,
		AuthorID:  user.ID,
		Rating:    req.Rating,
		Text:      req.Text,
	}
	result, err := commands.Dispatch[reviewapp.SubmitReviewCommand, dto.Review](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// List returns the latest reviews for a listing.
func (h ReviewHandler) List(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	query := reviewapp.ListListingReviewsQuery{
		ListingID: c.Param("id"),
		Limit:     parseInt(c.Query("limit")),
	}
	items, err := queries.Ask[reviewapp.ListListingReviewsQuery, []dto.Review](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Summary returns the aggregate rating shown on listing cards.
func (h ReviewHandler) Summary(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	query := reviewapp.ReviewSummaryQuery{ListingID: c.Param("id")}
	result, err := queries.Ask[reviewapp.ReviewSummaryQuery, dto.ReviewSummary](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ ReviewHTTP = ReviewHandler{}

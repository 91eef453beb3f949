package ginserver

import (
	"net/http"
	"strconv"
	"time"

	gin "github.com/gin-gonic/gin"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	availabilityapp "stayhub/internal/app/handlers/availability"
	listingsapp "stayhub/internal/app/handlers/listings"
	pricingapp "stayhub/internal/app/handlers/pricing"
	"stayhub/internal/app/queries"
	domainlistings "stayhub/internal/domain/listings"
	"stayhub/internal/domain/shared/dates"
)

// CalendarHandler serves the owner calendar: month resolution, manual
// blocks and price rules.
type CalendarHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

// Calendar resolves one month of a listing into per-day status and price.
func (h CalendarHandler) Calendar(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	listingID := c.Param("listing_id")
	if listingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "listing id is required"})
		return
	}
	year, errYear := strconv.Atoi(c.Query("year"))
	month, errMonth := strconv.Atoi(c.Query("month"))
	if errYear != nil || errMonth != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year and month must be integers"})
		return
	}
	query := availabilityapp.ResolveMonthQuery{
		ListingID: listingID,
		Year:      year,
		Month:     month,
	}
	days, err := queries.Ask[availabilityapp.ResolveMonthQuery, []dto.CalendarDay](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, days)
}

type setAvailabilityRequest struct {
	ListingID   string   `json:"listing_id"`
	Dates       []string `json:"dates"`
	IsAvailable bool     `json:"is_available"`
	Comment     string   `json:"comment"`
}

// SetAvailability blocks or unblocks a set of days on the owner's listing.
func (h CalendarHandler) SetAvailability(c *gin.Context) {
	user, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req setAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.ensureOwnership(c, req.ListingID, user); err != nil {
		writeError(c, err)
		return
	}
	days := make([]time.Time, 0, len(req.Dates))
	for _, raw := range req.Dates {
		day, err := dates.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "dates must be YYYY-MM-DD"})
			return
		}
		days = append(days, day)
	}
	cmd := availabilityapp.SetBlocksCommand{
		CommandID: generateCommandID(),
		ListingID: req.ListingID,
		Dates:     days,
		Blocked:   !req.IsAvailable,
		Comment:   req.Comment,
	}
	result, err := commands.Dispatch[availabilityapp.SetBlocksCommand, *availabilityapp.SetBlocksResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type priceRuleRequest struct {
	ListingID string `json:"listing_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Price     int64  `json:"price"`
}

// CreatePriceRule adds a date-ranged nightly price override.
func (h CalendarHandler) CreatePriceRule(c *gin.Context) {
	user, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req priceRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.ensureOwnership(c, req.ListingID, user); err != nil {
		writeError(c, err)
		return
	}
	start, err := dates.Parse(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be YYYY-MM-DD"})
		return
	}
	end, err := dates.Parse(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be YYYY-MM-DD"})
		return
	}
	cmd := pricingapp.AddRuleCommand{
		CommandID: generateCommandID(),
		ListingID: req.ListingID,
		StartDate: start,
		EndDate:   end,
		Price:     req.Price,
	}
	result, err := commands.Dispatch[pricingapp.AddRuleCommand, *pricingapp.AddRuleResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "rule_id": result.RuleID})
}

// ListPriceRules returns every rule defined for a listing.
func (h CalendarHandler) ListPriceRules(c *gin.Context) {
	if _, ok := requireRole(c, "owner"); !ok {
		return
	}
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	query := pricingapp.ListRulesQuery{ListingID: c.Param("id")}
	rules, err := queries.Ask[pricingapp.ListRulesQuery, []dto.PriceRule](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": rules})
}

// DeletePriceRule removes one rule by id. Owners may only delete rules on
// their own listings; admins may delete any rule.
func (h CalendarHandler) DeletePriceRule(c *gin.Context) {
	user, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	cmd := pricingapp.DeleteRuleCommand{RuleID: c.Param("rule_id")}
	if user.Role != "admin" {
		cmd.OwnerID = user.ID
	}
	result, err := commands.Dispatch[pricingapp.DeleteRuleCommand, *pricingapp.DeleteRuleResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ensureOwnership rejects calendar writes against listings the caller does
// not own. Admins may edit any calendar.
func (h CalendarHandler) ensureOwnership(c *gin.Context, listingID string, caller principal) error {
	if caller.Role == "admin" {
		return nil
	}
	query := listingsapp.GetListingQuery{ListingID: listingID}
	listing, err := queries.Ask[listingsapp.GetListingQuery, dto.Listing](c.Request.Context(), h.Queries, query)
	if err != nil {
		return err
	}
	if listing.OwnerID != caller.ID {
		return domainlistings.ErrNotOwned
	}
	return nil
}

var _ CalendarHTTP = CalendarHandler{}

package ginserver

import (
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	listingapp "stayhub/internal/app/handlers/listings"
	"stayhub/internal/app/queries"
	domainlistings "stayhub/internal/domain/listings"
)

// maxPhotoBytes caps a single photo upload.
const maxPhotoBytes = 10 << 20

// ListingHandler wires listing commands and queries to HTTP.
type ListingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

// Catalog responds with active listings matching renter filters.
func (h ListingHandler) Catalog(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	query := listingapp.SearchCatalogQuery{
		Districts: splitCSV(c.Query("districts")),
		MaxPrice:  parseInt64(c.Query("max_price")),
		MinGuests: parseInt(c.Query("min_guests")),
		Limit:     parseIntWithDefault(c.Query("limit"), 24),
		Offset:    parseInt(c.Query("offset")),
	}
	result, err := queries.Ask[listingapp.SearchCatalogQuery, listingapp.SearchCatalogResult](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get returns one listing card.
func (h ListingHandler) Get(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	query := listingapp.GetListingQuery{ListingID: c.Param("id")}
	result, err := queries.Ask[listingapp.GetListingQuery, dto.Listing](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Overview returns the listing together with its rating and latest reviews.
func (h ListingHandler) Overview(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	query := listingapp.GetOverviewQuery{ListingID: c.Param("id")}
	result, err := queries.Ask[listingapp.GetOverviewQuery, listingapp.ListingOverview](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type createListingRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	District     string `json:"district"`
	Address      string `json:"address"`
	Rooms        int    `json:"rooms"`
	GuestsLimit  int    `json:"max_guests"`
	PropertyType string `json:"property_type"`
	NightlyPrice int64  `json:"price_per_night"`
}

// Create registers a new listing owned by the caller.
func (h ListingHandler) Create(c *gin.Context) {
	user, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req createListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	cmd := listingapp.CreateListingCommand{
		CommandID:    generateCommandID(),
		OwnerID:      user.ID,
		Title:        req.Title,
		Description:  req.Description,
		District:     req.District,
		Address:      req.Address,
		Rooms:        req.Rooms,
		GuestsLimit:  req.GuestsLimit,
		PropertyType: req.PropertyType,
		NightlyPrice: req.NightlyPrice,
	}
	result, err := commands.Dispatch[listingapp.CreateListingCommand, *listingapp.CreateListingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type updateListingRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	District     *string `json:"district"`
	Address      *string `json:"address"`
	Rooms        *int    `json:"rooms"`
	GuestsLimit  *int    `json:"max_guests"`
	NightlyPrice *int64  `json:"price_per_night"`
}

func (r updateListingRequest) edits() []domainlistings.FieldEdit {
	var edits []domainlistings.FieldEdit
	if r.Title != nil {
		edits = append(edits, domainlistings.EditTitle{Value: *r.Title})
	}
	if r.Description != nil {
		edits = append(edits, domainlistings.EditDescription{Value: *r.Description})
	}
	if r.District != nil {
		edits = append(edits, domainlistings.EditDistrict{Value: *r.District})
	}
	if r.Address != nil {
		edits = append(edits, domainlistings.EditAddress{Value: *r.Address})
	}
	if r.Rooms != nil {
		edits = append(edits, domainlistings.EditRooms{Value: *r.Rooms})
	}
	if r.GuestsLimit != nil {
		edits = append(edits, domainlistings.EditGuestsLimit{Value: *r.GuestsLimit})
	}
	if r.NightlyPrice != nil {
		edits = append(edits, domainlistings.EditNightlyPrice{Value: *r.NightlyPrice})
	}
	return edits
}

// Update applies the provided fields; absent fields stay untouched.
func (h ListingHandler) Update(c *gin.Context) {
	user, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req updateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	cmd := listingapp.UpdateListingCommand{
		ListingID: c.Param("id"),
		OwnerID:   user.ID,
		Edits:     req.edits(),
	}
	result, err := commands.Dispatch[listingapp.UpdateListingCommand, *listingapp.UpdateListingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ToggleActive flips search visibility and reports the new state.
func (h ListingHandler) ToggleActive(c *gin.Context) {
	user, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	cmd := listingapp.ToggleActiveCommand{
		ListingID: c.Param("id"),
		OwnerID:   user.ID,
	}
	result, err := commands.Dispatch[listingapp.ToggleActiveCommand, *listingapp.ToggleActiveResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Delete removes the caller's listing.
func (h ListingHandler) Delete(c *gin.Context) {
	user, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	cmd := listingapp.DeleteListingCommand{
		ListingID: c.Param("id"),
		OwnerID:   user.ID,
	}
	result, err := commands.Dispatch[listingapp.DeleteListingCommand, *listingapp.DeleteListingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type verifyListingRequest struct {
	Verified bool `json:"is_verified"`
}

// Verify marks a listing as checked by moderation. Admin only.
func (h ListingHandler) Verify(c *gin.Context) {
	if _, ok := requireRole(c, "admin"); !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	req := verifyListingRequest{Verified: true}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
	}
	cmd := listingapp.VerifyListingCommand{
		ListingID: c.Param("id"),
		Verified:  req.Verified,
	}
	result, err := commands.Dispatch[listingapp.VerifyListingCommand, *listingapp.VerifyListingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UploadPhoto accepts one multipart photo and attaches it to the listing.
func (h ListingHandler) UploadPhoto(c *gin.Context) {
	user, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	if file.Size > maxPhotoBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo exceeds the size limit"})
		return
	}
	reader, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is unreadable"})
		return
	}
	defer reader.Close()

	cmd := listingapp.UploadPhotoCommand{
		OwnerID:     user.ID,
		ListingID:   c.Param("id"),
		FileName:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Body:        reader,
	}
	result, err := commands.Dispatch[listingapp.UploadPhotoCommand, *listingapp.UploadPhotoResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// OwnerList shows every listing the caller manages, active or not.
func (h ListingHandler) OwnerList(c *gin.Context) {
	user, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	query := listingapp.OwnerListingsQuery{OwnerID: user.ID}
	items, err := queries.Ask[listingapp.OwnerListingsQuery, []dto.Listing](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// OwnerSummary reports total and active listing counts for the caller.
func (h ListingHandler) OwnerSummary(c *gin.Context) {
	user, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	query := listingapp.OwnerSummaryQuery{OwnerID: user.ID}
	result, err := queries.Ask[listingapp.OwnerSummaryQuery, dto.OwnerSummary](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ ListingHTTP = ListingHandler{}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseInt(raw string) int {
	value, _ := strconv.Atoi(strings.TrimSpace(raw))
	if value < 0 {
		return 0
	}
	return value
}

func parseIntWithDefault(raw string, fallback int) int {
	value := parseInt(raw)
	if value == 0 {
		return fallback
	}
	return value
}

func parseInt64(raw string) int64 {
	value, _ := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if value < 0 {
		return 0
	}
	return value
}

package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	availabilityapp "stayhub/internal/app/handlers/availability"
	listingsapp "stayhub/internal/app/handlers/listings"
	reviewsapp "stayhub/internal/app/handlers/reviews"
	domainavailability "stayhub/internal/domain/availability"
	domainbooking "stayhub/internal/domain/booking"
	domainlistings "stayhub/internal/domain/listings"
	domainpricing "stayhub/internal/domain/pricing"
	domainreviews "stayhub/internal/domain/reviews"
	"stayhub/internal/domain/shared/dates"
	domainuser "stayhub/internal/domain/user"
	"stayhub/internal/infra/storage/s3"
)

// writeError maps domain sentinels onto HTTP statuses. Anything unmapped is a
// 500 with a generic body so internals never leak.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainlistings.ErrListingNotFound),
		errors.Is(err, domainbooking.ErrBookingNotFound),
		errors.Is(err, domainpricing.ErrRuleNotFound),
		errors.Is(err, domainreviews.ErrNotFound),
		errors.Is(err, domainuser.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domainavailability.ErrDateBooked):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domainreviews.ErrAlreadyReviewed),
		errors.Is(err, domainbooking.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domainlistings.ErrNotOwned),
		errors.Is(err, reviewsapp.ErrBookingOwnership):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, availabilityapp.ErrInvalidMonth),
		errors.Is(err, availabilityapp.ErrNoDates),
		errors.Is(err, listingsapp.ErrOwnerRequired),
		errors.Is(err, dates.ErrInvalidRange),
		errors.Is(err, domainpricing.ErrInvalidRange),
		errors.Is(err, domainpricing.ErrInvalidPrice),
		errors.Is(err, domainbooking.ErrRangeInPast),
		errors.Is(err, domainbooking.ErrRenterRequired),
		errors.Is(err, domainreviews.ErrInvalidRating),
		errors.Is(err, reviewsapp.ErrStayNotFinished),
		errors.Is(err, reviewsapp.ErrNotConfirmed),
		errors.Is(err, domainuser.ErrInvalidRole),
		errors.Is(err, s3.ErrPhotoTypeUnsupported),
		errors.Is(err, s3.ErrPhotoRequired),
		isValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		domainlistings.ErrTitleRequired,
		domainlistings.ErrAddressRequired,
		domainlistings.ErrDistrictRequired,
		domainlistings.ErrNightlyPrice,
		domainlistings.ErrGuestsLimit,
		domainlistings.ErrRoomsNegative,
		domainlistings.ErrNoEdits,
		domainuser.ErrIDRequired,
		domainuser.ErrNameRequired,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

package ginserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gin "github.com/gin-gonic/gin"

	"stayhub/internal/app/commands"
	availabilityapp "stayhub/internal/app/handlers/availability"
	listingapp "stayhub/internal/app/handlers/listings"
	pricingapp "stayhub/internal/app/handlers/pricing"
	"stayhub/internal/app/queries"
	domainbooking "stayhub/internal/domain/booking"
	domainlistings "stayhub/internal/domain/listings"
	domainpricing "stayhub/internal/domain/pricing"
	"stayhub/internal/domain/shared/dates"
	"stayhub/internal/infra/config"
	"stayhub/internal/infra/obs"
	"stayhub/internal/infra/storage/memory"
)

// fixtureMonth picks a month two months ahead of the real clock so the
// seeded stay is always in the future regardless of when the suite runs.
func fixtureMonth() (int, time.Month) {
	next := time.Now().UTC().AddDate(0, 2, 0)
	return next.Year(), next.Month()
}

func fixtureDay(day int) time.Time {
	year, month := fixtureMonth()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func fixtureDate(day int) string {
	return fixtureDay(day).Format("2006-01-02")
}

func fixtureMonthLen() int {
	year, month := fixtureMonth()
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func calendarURL(listingID string) string {
	year, month := fixtureMonth()
	return fmt.Sprintf("/api/calendar_data/%s?year=%d&month=%d", listingID, year, int(month))
}

// seedCalendarData stores listing lst-1 owned by owner-1 with a confirmed
// booking covering nights 12 and 13 of the fixture month.
func seedCalendarData(t *testing.T) memory.Factory {
	t.Helper()
	factory := memory.NewFactory()

	listing, err := domainlistings.New(domainlistings.CreateParams{
		ID:           "lst-1",
		Owner:        "owner-1",
		Title:        "Studio downtown",
		District:     "Center",
		Address:      "Main st 1",
		GuestsLimit:  2,
		NightlyPrice: 5000,
		Now:          time.Now(),
	})
	if err != nil {
		t.Fatalf("seed listing: %v", err)
	}
	listing.ClearEvents()
	if err := factory.ListingsRepo.Save(context.Background(), listing); err != nil {
		t.Fatalf("save listing: %v", err)
	}

	stay, err := dates.NewRange(fixtureDay(12), fixtureDay(14))
	if err != nil {
		t.Fatalf("stay range: %v", err)
	}
	bk, err := domainbooking.Request(domainbooking.RequestParams{
		ID:        "bk-1",
		ListingID: listing.ID,
		RenterID:  "renter-1",
		Range:     stay,
		Now:       time.Now(),
	})
	if err != nil {
		t.Fatalf("request booking: %v", err)
	}
	if err := bk.Confirm(time.Now()); err != nil {
		t.Fatalf("confirm booking: %v", err)
	}
	bk.ClearEvents()
	if err := factory.BookingsRepo.Save(context.Background(), bk); err != nil {
		t.Fatalf("save booking: %v", err)
	}
	return factory
}

// newTestHandler wires buses over in-memory stores and optionally pins the
// caller principal, bypassing token resolution.
func newTestHandler(t *testing.T, factory memory.Factory, caller *principal) http.Handler {
	t.Helper()

	commandBus := commands.NewInMemoryBus()
	queryBus := queries.NewInMemoryBus()
	commands.RegisterHandler(commandBus, availabilityapp.SetBlocksCommand{}.Key(), &availabilityapp.SetBlocksHandler{UoWFactory: factory})
	commands.RegisterHandler(commandBus, pricingapp.AddRuleCommand{}.Key(), &pricingapp.AddRuleHandler{UoWFactory: factory})
	commands.RegisterHandler(commandBus, pricingapp.DeleteRuleCommand{}.Key(), &pricingapp.DeleteRuleHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, availabilityapp.ResolveMonthQuery{}.Key(), &availabilityapp.ResolveMonthHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, pricingapp.ListRulesQuery{}.Key(), &pricingapp.ListRulesHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, listingapp.GetListingQuery{}.Key(), &listingapp.GetListingHandler{UoWFactory: factory})

	h := Handlers{Calendar: CalendarHandler{Commands: commandBus, Queries: queryBus}}
	if caller != nil {
		p := *caller
		h.AuthMiddleware = func(c *gin.Context) {
			setPrincipal(c, p)
			c.Next()
		}
	}
	srv := NewServer(config.Config{Env: "test", HTTPAddr: ":0"}, obs.Middleware{}, obs.HealthHandlers{}, h)
	return srv.Handler
}

func doJSON(t *testing.T, handler http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCalendarEndpoint(t *testing.T) {
	factory := seedCalendarData(t)
	handler := newTestHandler(t, factory, nil)

	t.Run("returns the full month", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, calendarURL("lst-1"), nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
		}
		var days []struct {
			Date   string `json:"date"`
			Status string `json:"status"`
			Price  *int64 `json:"price"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &days); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(days) != fixtureMonthLen() {
			t.Fatalf("days = %d, want %d", len(days), fixtureMonthLen())
		}
		byDate := make(map[string]string, len(days))
		for _, d := range days {
			byDate[d.Date] = d.Status
		}
		if byDate[fixtureDate(12)] != "booked" || byDate[fixtureDate(13)] != "booked" {
			t.Fatalf("booked nights missing: %v %v", byDate[fixtureDate(12)], byDate[fixtureDate(13)])
		}
		if byDate[fixtureDate(14)] != "available" {
			t.Fatalf("checkout day = %q, want available", byDate[fixtureDate(14)])
		}
	})

	t.Run("rejects non-integer year", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, "/api/calendar_data/lst-1?year=abc&month=6", nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("rejects month out of range", func(t *testing.T) {
		year, _ := fixtureMonth()
		rec := doJSON(t, handler, http.MethodGet, fmt.Sprintf("/api/calendar_data/lst-1?year=%d&month=13", year), nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("unknown listing", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, calendarURL("missing"), nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}

func TestSetAvailabilityEndpoint(t *testing.T) {
	owner := &principal{ID: "owner-1", Username: "olga", Role: "owner"}

	t.Run("blocks days", func(t *testing.T) {
		handler := newTestHandler(t, seedCalendarData(t), owner)
		rec := doJSON(t, handler, http.MethodPost, "/api/owner/set_availability", gin.H{
			"listing_id":   "lst-1",
			"dates":        []string{fixtureDate(20), fixtureDate(21)},
			"is_available": false,
			"comment":      "maintenance",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
		}
		var resp struct {
			Status string `json:"status"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Status != "ok" {
			t.Fatalf("body %s (err %v)", rec.Body, err)
		}
	})

	t.Run("requires authentication", func(t *testing.T) {
		handler := newTestHandler(t, seedCalendarData(t), nil)
		rec := doJSON(t, handler, http.MethodPost, "/api/owner/set_availability", gin.H{
			"listing_id": "lst-1", "dates": []string{fixtureDate(20)}, "is_available": false,
		})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("rejects a renter", func(t *testing.T) {
		handler := newTestHandler(t, seedCalendarData(t), &principal{ID: "renter-1", Role: "user"})
		rec := doJSON(t, handler, http.MethodPost, "/api/owner/set_availability", gin.H{
			"listing_id": "lst-1", "dates": []string{fixtureDate(20)}, "is_available": false,
		})
		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("rejects another owner's listing", func(t *testing.T) {
		handler := newTestHandler(t, seedCalendarData(t), &principal{ID: "owner-2", Role: "owner"})
		rec := doJSON(t, handler, http.MethodPost, "/api/owner/set_availability", gin.H{
			"listing_id": "lst-1", "dates": []string{fixtureDate(20)}, "is_available": false,
		})
		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("conflicts with a booked night", func(t *testing.T) {
		handler := newTestHandler(t, seedCalendarData(t), owner)
		rec := doJSON(t, handler, http.MethodPost, "/api/owner/set_availability", gin.H{
			"listing_id": "lst-1", "dates": []string{fixtureDate(13)}, "is_available": false,
		})
		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
		}
	})

	t.Run("rejects malformed dates", func(t *testing.T) {
		handler := newTestHandler(t, seedCalendarData(t), owner)
		rec := doJSON(t, handler, http.MethodPost, "/api/owner/set_availability", gin.H{
			"listing_id": "lst-1", "dates": []string{"13.06.2030"}, "is_available": false,
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}

func TestPriceRuleEndpoint(t *testing.T) {
	owner := &principal{ID: "owner-1", Username: "olga", Role: "owner"}

	t.Run("creates a rule and surfaces it in the calendar", func(t *testing.T) {
		handler := newTestHandler(t, seedCalendarData(t), owner)
		rec := doJSON(t, handler, http.MethodPost, "/api/owner/price_rule", gin.H{
			"listing_id": "lst-1",
			"start_date": fixtureDate(1),
			"end_date":   fixtureDate(28),
			"price":      7500,
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
		}
		var resp struct {
			Status string `json:"status"`
			RuleID string `json:"rule_id"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Status != "ok" || resp.RuleID == "" {
			t.Fatalf("body %s", rec.Body)
		}

		cal := doJSON(t, handler, http.MethodGet, calendarURL("lst-1"), nil)
		var days []struct {
			Date  string `json:"date"`
			Price *int64 `json:"price"`
		}
		if err := json.Unmarshal(cal.Body.Bytes(), &days); err != nil {
			t.Fatalf("decode calendar: %v", err)
		}
		for _, d := range days {
			if d.Date == fixtureDate(5) {
				if d.Price == nil || *d.Price != 7500 {
					t.Fatalf("price on %s = %v, want 7500", d.Date, d.Price)
				}
			}
		}
	})

	t.Run("rejects an inverted range", func(t *testing.T) {
		handler := newTestHandler(t, seedCalendarData(t), owner)
		rec := doJSON(t, handler, http.MethodPost, "/api/owner/price_rule", gin.H{
			"listing_id": "lst-1",
			"start_date": fixtureDate(28),
			"end_date":   fixtureDate(1),
			"price":      7500,
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
		}
	})

	t.Run("admin may manage any listing", func(t *testing.T) {
		handler := newTestHandler(t, seedCalendarData(t), &principal{ID: "admin-1", Role: "admin"})
		rec := doJSON(t, handler, http.MethodPost, "/api/owner/price_rule", gin.H{
			"listing_id": "lst-1",
			"start_date": fixtureDate(1),
			"end_date":   fixtureDate(10),
			"price":      9000,
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
		}
	})
}

// seedPriceRule adds one rule for lst-1 directly to the store.
func seedPriceRule(t *testing.T, factory memory.Factory, ruleID string) {
	t.Helper()
	rule, err := domainpricing.NewRule(domainpricing.RuleID(ruleID), "lst-1", fixtureDay(1), fixtureDay(10), 7500, time.Now())
	if err != nil {
		t.Fatalf("seed rule: %v", err)
	}
	if err := factory.RulesRepo.Add(context.Background(), rule); err != nil {
		t.Fatalf("store rule: %v", err)
	}
}

func TestDeletePriceRuleEndpoint(t *testing.T) {
	owner := &principal{ID: "owner-1", Username: "olga", Role: "owner"}

	t.Run("owner deletes a rule on their listing", func(t *testing.T) {
		factory := seedCalendarData(t)
		seedPriceRule(t, factory, "rule-1")
		handler := newTestHandler(t, factory, owner)
		rec := doJSON(t, handler, http.MethodDelete, "/api/v1/owner/price_rules/rule-1", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
		}
		if _, err := factory.RulesRepo.ByID(context.Background(), "rule-1"); err == nil {
			t.Fatal("rule still stored after delete")
		}
	})

	t.Run("rejects another owner", func(t *testing.T) {
		factory := seedCalendarData(t)
		seedPriceRule(t, factory, "rule-1")
		handler := newTestHandler(t, factory, &principal{ID: "owner-2", Role: "owner"})
		rec := doJSON(t, handler, http.MethodDelete, "/api/v1/owner/price_rules/rule-1", nil)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
		}
		if _, err := factory.RulesRepo.ByID(context.Background(), "rule-1"); err != nil {
			t.Fatalf("rule removed despite forbidden delete: %v", err)
		}
	})

	t.Run("admin deletes any rule", func(t *testing.T) {
		factory := seedCalendarData(t)
		seedPriceRule(t, factory, "rule-1")
		handler := newTestHandler(t, factory, &principal{ID: "admin-1", Role: "admin"})
		rec := doJSON(t, handler, http.MethodDelete, "/api/v1/owner/price_rules/rule-1", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
		}
	})

	t.Run("unknown rule", func(t *testing.T) {
		handler := newTestHandler(t, seedCalendarData(t), owner)
		rec := doJSON(t, handler, http.MethodDelete, "/api/v1/owner/price_rules/missing", nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
		}
	})
}

package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	apptasks "stayhub/internal/app/tasks"
	domainauth "stayhub/internal/domain/auth"
	domainavailability "stayhub/internal/domain/availability"
	domainbooking "stayhub/internal/domain/booking"
	domainlistings "stayhub/internal/domain/listings"
	domainpricing "stayhub/internal/domain/pricing"
	domainreviews "stayhub/internal/domain/reviews"
	"stayhub/internal/domain/shared/dates"
	domainuser "stayhub/internal/domain/user"
)

// ListingRepository is an in-memory implementation for tests and dev runs.
type ListingRepository struct {
	mu    sync.RWMutex
	items map[domainlistings.ListingID]*domainlistings.Listing
}

func NewListingRepository() *ListingRepository {
	return &ListingRepository{items: make(map[domainlistings.ListingID]*domainlistings.Listing)}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	listing, ok := r.items[id]
	if !ok {
		return nil, domainlistings.ErrListingNotFound
	}
	cp := *listing
	return &cp, nil
}

func (r *ListingRepository) Save(ctx context.Context, listing *domainlistings.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *listing
	r.items[listing.ID] = &cp
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id domainlistings.ListingID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainlistings.ErrListingNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *ListingRepository) ByOwner(ctx context.Context, owner domainlistings.OwnerID) ([]*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainlistings.Listing
	for _, listing := range r.items {
		if listing.Owner == owner {
			cp := *listing
			out = append(out, &cp)
		}
	}
	sortListingsNewestFirst(out)
	return out, nil
}

func (r *ListingRepository) Search(ctx context.Context, params domainlistings.SearchParams) ([]*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	opts := params.Normalized()
	var matches []*domainlistings.Listing
	for _, listing := range r.items {
		if !opts.Matches(listing) {
			continue
		}
		cp := *listing
		matches = append(matches, &cp)
	}
	sortListingsNewestFirst(matches)
	if opts.Offset >= len(matches) {
		return nil, nil
	}
	matches = matches[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(matches) {
		matches = matches[:opts.Limit]
	}
	return matches, nil
}

func (r *ListingRepository) OwnerSummary(ctx context.Context, owner domainlistings.OwnerID) (domainlistings.OwnerSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var sum domainlistings.OwnerSummary
	for _, listing := range r.items {
		if listing.Owner != owner {
			continue
		}
		sum.Total++
		if listing.Active {
			sum.Active++
		}
	}
	return sum, nil
}

func sortListingsNewestFirst(items []*domainlistings.Listing) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

// BookingRepository keeps bookings in a map guarded by one mutex.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	booking, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrBookingNotFound
	}
	cp := *booking
	return &cp, nil
}

func (r *BookingRepository) Save(ctx context.Context, booking *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *booking
	r.items[booking.ID] = &cp
	return nil
}

func (r *BookingRepository) ListByRenter(ctx context.Context, renterID string) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainbooking.Booking
	for _, b := range r.items {
		if b.RenterID == renterID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sortBookingsNewestFirst(out)
	return out, nil
}

func (r *BookingRepository) ListByListing(ctx context.Context, listingID domainlistings.ListingID) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainbooking.Booking
	for _, b := range r.items {
		if b.ListingID == listingID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sortBookingsNewestFirst(out)
	return out, nil
}

func (r *BookingRepository) ConfirmedRanges(ctx context.Context, listingID domainlistings.ListingID) ([]dates.Range, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []dates.Range
	for _, b := range r.items {
		if b.ListingID == listingID && b.Status == domainbooking.StatusConfirmed {
			out = append(out, b.Range)
		}
	}
	return out, nil
}

func (r *BookingRepository) PendingCountForListings(ctx context.Context, listingIDs []domainlistings.ListingID) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make(map[domainlistings.ListingID]struct{}, len(listingIDs))
	for _, id := range listingIDs {
		ids[id] = struct{}{}
	}
	count := 0
	for _, b := range r.items {
		if b.Status != domainbooking.StatusPending {
			continue
		}
		if _, ok := ids[b.ListingID]; ok {
			count++
		}
	}
	return count, nil
}

func sortBookingsNewestFirst(items []*domainbooking.Booking) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

// BlockStore keys blocks by listing and day.
type BlockStore struct {
	mu    sync.RWMutex
	items map[domainlistings.ListingID]map[time.Time]domainavailability.ManualBlock
}

func NewBlockStore() *BlockStore {
	return &BlockStore{items: make(map[domainlistings.ListingID]map[time.Time]domainavailability.ManualBlock)}
}

func (s *BlockStore) ListByListing(ctx context.Context, listingID domainlistings.ListingID) ([]domainavailability.ManualBlock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	days := s.items[listingID]
	out := make([]domainavailability.ManualBlock, 0, len(days))
	for _, block := range days {
		out = append(out, block)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *BlockStore) Upsert(ctx context.Context, block domainavailability.ManualBlock) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	day := dates.Day(block.Date)
	days, ok := s.items[block.ListingID]
	if !ok {
		days = make(map[time.Time]domainavailability.ManualBlock)
		s.items[block.ListingID] = days
	}
	if existing, found := days[day]; found {
		existing.Comment = block.Comment
		days[day] = existing
		return nil
	}
	block.Date = day
	days[day] = block
	return nil
}

func (s *BlockStore) Remove(ctx context.Context, listingID domainlistings.ListingID, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if days, ok := s.items[listingID]; ok {
		delete(days, dates.Day(date))
	}
	return nil
}

// RuleStore keeps price rules per listing.
type RuleStore struct {
	mu    sync.RWMutex
	items map[domainpricing.RuleID]domainpricing.Rule
}

func NewRuleStore() *RuleStore {
	return &RuleStore{items: make(map[domainpricing.RuleID]domainpricing.Rule)}
}

func (s *RuleStore) ListByListing(ctx context.Context, listingID domainlistings.ListingID) ([]domainpricing.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domainpricing.Rule
	for _, rule := range s.items {
		if rule.ListingID == listingID {
			out = append(out, rule)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *RuleStore) ByID(ctx context.Context, id domainpricing.RuleID) (domainpricing.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rule, ok := s.items[id]
	if !ok {
		return domainpricing.Rule{}, domainpricing.ErrRuleNotFound
	}
	return rule, nil
}

func (s *RuleStore) Add(ctx context.Context, rule domainpricing.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[rule.ID] = rule
	return nil
}

func (s *RuleStore) Delete(ctx context.Context, id domainpricing.RuleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return domainpricing.ErrRuleNotFound
	}
	delete(s.items, id)
	return nil
}

// ReviewRepository enforces the one-review-per-booking rule in memory.
type ReviewRepository struct {
	mu    sync.RWMutex
	items map[domainreviews.ReviewID]*domainreviews.Review
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{items: make(map[domainreviews.ReviewID]*domainreviews.Review)}
}

func (r *ReviewRepository) ByBooking(ctx context.Context, bookingID domainbooking.BookingID) (*domainreviews.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, review := range r.items {
		if review.BookingID == bookingID {
			cp := *review
			return &cp, nil
		}
	}
	return nil, domainreviews.ErrNotFound
}

func (r *ReviewRepository) ListLatest(ctx context.Context, listingID domainlistings.ListingID, limit int) ([]*domainreviews.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainreviews.Review
	for _, review := range r.items {
		if review.ListingID == listingID {
			cp := *review
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *ReviewRepository) SummaryFor(ctx context.Context, listingID domainlistings.ListingID) (domainreviews.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var total, count int
	for _, review := range r.items {
		if review.ListingID == listingID {
			total += review.Rating
			count++
		}
	}
	if count == 0 {
		return domainreviews.Summary{}, nil
	}
	return domainreviews.Summary{AverageRating: float64(total) / float64(count), Count: count}, nil
}

func (r *ReviewRepository) Save(ctx context.Context, review *domainreviews.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.BookingID == review.BookingID && existing.ID != review.ID {
			return domainreviews.ErrAlreadyReviewed
		}
	}
	cp := *review
	r.items[review.ID] = &cp
	return nil
}

// UserRepository stores users keyed by id.
type UserRepository struct {
	mu    sync.RWMutex
	items map[domainuser.ID]*domainuser.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{items: make(map[domainuser.ID]*domainuser.User)}
}

func (r *UserRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	usr, ok := r.items[id]
	if !ok {
		return nil, domainuser.ErrNotFound
	}
	cp := *usr
	return &cp, nil
}

func (r *UserRepository) Save(ctx context.Context, usr *domainuser.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *usr
	r.items[usr.ID] = &cp
	return nil
}

// SessionStore stores sessions keyed by id.
type SessionStore struct {
	mu    sync.RWMutex
	items map[domainauth.SessionID]*domainauth.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{items: make(map[domainauth.SessionID]*domainauth.Session)}
}

func (s *SessionStore) Save(ctx context.Context, session *domainauth.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *session
	s.items[session.ID] = &cp
	return nil
}

func (s *SessionStore) ByID(ctx context.Context, id domainauth.SessionID) (*domainauth.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.items[id]
	if !ok {
		return nil, domainauth.ErrSessionNotFound
	}
	cp := *session
	return &cp, nil
}

func (s *SessionStore) Delete(ctx context.Context, id domainauth.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return domainauth.ErrSessionNotFound
	}
	delete(s.items, id)
	return nil
}

// TaskQueue is the in-memory counterpart of the persisted task queue.
type TaskQueue struct {
	mu      sync.Mutex
	items   map[string]*apptasks.Task
	claimed map[string]bool
}

func NewTaskQueue() *TaskQueue {
	return &TaskQueue{items: make(map[string]*apptasks.Task), claimed: make(map[string]bool)}
}

func (q *TaskQueue) Enqueue(ctx context.Context, task apptasks.Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	cp := task
	q.items[task.ID] = &cp
	return nil
}

func (q *TaskQueue) Claim(ctx context.Context, now time.Time) (*apptasks.Task, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for id, task := range q.items {
		if q.claimed[id] || task.DueAt.After(now) {
			continue
		}
		q.claimed[id] = true
		cp := *task
		return &cp, nil
	}
	return nil, nil
}

func (q *TaskQueue) MarkDone(ctx context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.items[id]; !ok {
		return apptasks.ErrTaskNotFound
	}
	delete(q.items, id)
	delete(q.claimed, id)
	return nil
}

func (q *TaskQueue) MarkFailed(ctx context.Context, id string, retryAt time.Time, reason string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	task, ok := q.items[id]
	if !ok {
		return apptasks.ErrTaskNotFound
	}
	task.Attempts++
	task.DueAt = retryAt
	q.claimed[id] = false
	return nil
}

// Package tasks defines the persisted task queue replacing the original
// in-process job scheduler: every deferred action is a row with a due time
// and payload, claimed by a timer-driven poller.
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var ErrTaskNotFound = errors.New("tasks: not found")

const KindReviewRequest = "review.request"

type Task struct {
	ID        string
	Kind      string
	Payload   []byte
	DueAt     time.Time
	CreatedAt time.Time
	Attempts  int
}

// ReviewRequestPayload asks a renter for a review after checkout.
type ReviewRequestPayload struct {
	BookingID    string `json:"booking_id"`
	RenterID     string `json:"renter_id"`
	ListingTitle string `json:"listing_title"`
}

// Queue persists deferred tasks. Claim hands out at most one due task per
// call and must not hand the same task to two pollers.
type Queue interface {
	Enqueue(ctx context.Context, task Task) error
	Claim(ctx context.Context, now time.Time) (*Task, error)
	MarkDone(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, retryAt time.Time, reason string) error
}

// NewReviewRequest builds a review-request task due at the booking checkout.
func NewReviewRequest(id string, payload ReviewRequestPayload, dueAt, now time.Time) (Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Task{}, err
	}
	return Task{
		ID:        id,
		Kind:      KindReviewRequest,
		Payload:   body,
		DueAt:     dueAt.UTC(),
		CreatedAt: now.UTC(),
	}, nil
}

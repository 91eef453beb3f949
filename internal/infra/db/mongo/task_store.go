package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apptasks "stayhub/internal/app/tasks"
)

const (
	taskStateQueued  = "QUEUED"
	taskStateClaimed = "CLAIMED"
	taskStateDone    = "DONE"
	taskStateFailed  = "FAILED"
)

// TaskStore is the Mongo-backed task queue. Claim relies on findAndModify so
// two pollers never receive the same task.
type TaskStore struct {
	col *mongo.Collection
}

func NewTaskStore(db *mongo.Database) *TaskStore {
	col := db.Collection("app_tasks")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "state", Value: 1}, {Key: "due_at", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &TaskStore{col: col}
}

func (s *TaskStore) Enqueue(ctx context.Context, task apptasks.Task) error {
	doc := bson.M{
		"_id":        task.ID,
		"kind":       task.Kind,
		"payload":    task.Payload,
		"due_at":     task.DueAt,
		"created_at": task.CreatedAt,
		"attempts":   task.Attempts,
		"state":      taskStateQueued,
	}
	_, err := s.col.InsertOne(ctx, doc)
	return err
}

func (s *TaskStore) Claim(ctx context.Context, now time.Time) (*apptasks.Task, error) {
	filter := bson.M{
		"state":  bson.M{"$in": []string{taskStateQueued, taskStateFailed}},
		"due_at": bson.M{"$lte": now.UTC()},
	}
	update := bson.M{"$set": bson.M{"state": taskStateClaimed, "claimed_at": now.UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc taskDocument
	if err := s.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.toTask(), nil
}

func (s *TaskStore) MarkDone(ctx context.Context, id string) error {
	res, err := s.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{"state": taskStateDone, "done_at": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apptasks.ErrTaskNotFound
	}
	return nil
}

func (s *TaskStore) MarkFailed(ctx context.Context, id string, retryAt time.Time, reason string) error {
	update := bson.M{
		"$set": bson.M{"state": taskStateFailed, "due_at": retryAt.UTC(), "last_error": reason},
		"$inc": bson.M{"attempts": 1},
	}
	res, err := s.col.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apptasks.ErrTaskNotFound
	}
	return nil
}

type taskDocument struct {
	ID        string    `bson:"_id"`
	Kind      string    `bson:"kind"`
	Payload   []byte    `bson:"payload"`
	DueAt     time.Time `bson:"due_at"`
	CreatedAt time.Time `bson:"created_at"`
	Attempts  int       `bson:"attempts"`
}

func (d taskDocument) toTask() *apptasks.Task {
	return &apptasks.Task{
		ID:        d.ID,
		Kind:      d.Kind,
		Payload:   d.Payload,
		DueAt:     d.DueAt.UTC(),
		CreatedAt: d.CreatedAt.UTC(),
		Attempts:  d.Attempts,
	}
}

package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainauth "stayhub/internal/domain/auth"
	domainuser "stayhub/internal/domain/user"
)

// SessionRepository keeps web-app sessions. A TTL index prunes expired rows
// so the store does not grow unbounded.
type SessionRepository struct {
	col *mongo.Collection
}

func NewSessionRepository(db *mongo.Database) *SessionRepository {
	col := db.Collection("sessions")
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &SessionRepository{col: col}
}

func (r *SessionRepository) Save(ctx context.Context, session *domainauth.Session) error {
	doc := newSessionDocument(session)
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	return err
}

func (r *SessionRepository) ByID(ctx context.Context, id domainauth.SessionID) (*domainauth.Session, error) {
	var doc sessionDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainauth.ErrSessionNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *SessionRepository) Delete(ctx context.Context, id domainauth.SessionID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainauth.ErrSessionNotFound
	}
	return nil
}

type sessionDocument struct {
	ID         string    `bson:"_id"`
	SecretHash string    `bson:"secret_hash"`
	UserID     string    `bson:"user_id"`
	Role       string    `bson:"role"`
	CreatedAt  time.Time `bson:"created_at"`
	ExpiresAt  time.Time `bson:"expires_at"`
}

func newSessionDocument(s *domainauth.Session) sessionDocument {
	return sessionDocument{
		ID:         string(s.ID),
		SecretHash: s.SecretHash,
		UserID:     string(s.UserID),
		Role:       string(s.Role),
		CreatedAt:  s.CreatedAt,
		ExpiresAt:  s.ExpiresAt,
	}
}

func (d sessionDocument) toAggregate() *domainauth.Session {
	return &domainauth.Session{
		ID:         domainauth.SessionID(d.ID),
		SecretHash: d.SecretHash,
		UserID:     domainuser.ID(d.UserID),
		Role:       domainuser.Role(d.Role),
		CreatedAt:  d.CreatedAt.UTC(),
		ExpiresAt:  d.ExpiresAt.UTC(),
	}
}

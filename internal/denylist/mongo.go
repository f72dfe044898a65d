package denylist

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is used when Redis is not configured.
const CollectionName = "token_denylist"

type entry struct {
	Subject   string    `bson:"_id"`
	Cutoff    time.Time `bson:"cutoff"`
	ExpiresAt time.Time `bson:"expiresAt"`
}

// MongoStore implements Store on a collection with a TTL index on expiresAt.
type MongoStore struct {
	col *mongo.Collection
	now func() time.Time
}

func NewMongoStore(col *mongo.Collection) *MongoStore {
	return &MongoStore{col: col, now: time.Now}
}

// EnsureIndexes lets the server purge entries once expiresAt has passed.
func (m *MongoStore) EnsureIndexes(ctx context.Context) error {
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0).SetName("expires_ttl"),
	}
	if _, err := m.col.Indexes().CreateOne(ctx, idx); err != nil {
		return fmt.Errorf("create denylist ttl index: %w", err)
	}
	return nil
}

func (m *MongoStore) SetCutoff(ctx context.Context, subject string, cutoff time.Time, ttl time.Duration) error {
	e := entry{Subject: subject, Cutoff: cutoff.UTC(), ExpiresAt: m.now().UTC().Add(ttl)}
	_, err := m.col.ReplaceOne(ctx, bson.M{"_id": subject}, e, options.Replace().SetUpsert(true))
	return err
}

func (m *MongoStore) Cutoff(ctx context.Context, subject string) (time.Time, bool, error) {
	var e entry
	if err := m.col.FindOne(ctx, bson.M{"_id": subject}).Decode(&e); err != nil {
		if err == mongo.ErrNoDocuments {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	// the TTL monitor runs about once a minute
	if !m.now().Before(e.ExpiresAt) {
		return time.Time{}, false, nil
	}
	return e.Cutoff, true, nil
}

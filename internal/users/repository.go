package users

import (
	"context"
	"fmt"
	"time"

	"github.com/codegrapher/graphers/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the Mongo collection holding credential records.
const CollectionName = "users_collection"

// UserRepository defines persistence operations for users
type UserRepository interface {
	// Create inserts u and returns the stored record. A second record with the
	// same email yields ErrDuplicateEmail.
	Create(ctx context.Context, u *models.User) (*models.User, error)
	// GetByEmail returns nil, nil when no record matches.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	SetDisabled(ctx context.Context, email string, disabled bool) error
	EnsureIndexes(ctx context.Context) error
}

// MongoUserRepository implements UserRepository using MongoDB
type MongoUserRepository struct {
	col *mongo.Collection
}

// NewMongoUserRepository creates a new repository for the given collection
func NewMongoUserRepository(col *mongo.Collection) *MongoUserRepository {
	return &MongoUserRepository{col: col}
}

// EnsureIndexes creates the unique email index that backs ErrDuplicateEmail.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("email_unique")}
	if _, err := r.col.Indexes().CreateOne(ctx, idx); err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid.Hex()
	}
	return u, nil
}

func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *MongoUserRepository) SetDisabled(ctx context.Context, email string, disabled bool) error {
	upd := bson.M{"$set": bson.M{"disabled": disabled, "updatedAt": time.Now().UTC()}}
	res, err := r.col.UpdateOne(ctx, bson.M{"email": email}, upd)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

package repository

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/codegrapher/graphers/internal/candidate"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var searchFields = []string{"fullname", "email", "address", "education", "phone_number", "skills"}

// MongoRepo implements Repository over a MongoDB collection with ObjectID keys.
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col}
}

// EnsureIndexes creates the unique email index behind ErrDuplicateEmail.
func (m *MongoRepo) EnsureIndexes(ctx context.Context) error {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("email_unique")}
	if _, err := m.col.Indexes().CreateOne(ctx, idx); err != nil {
		return fmt.Errorf("create candidate email index: %w", err)
	}
	return nil
}

func (m *MongoRepo) Create(ctx context.Context, c *candidate.Candidate) (*candidate.Candidate, error) {
	now := time.Now().UTC()
	c.ID = ""
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.Skills == nil {
		c.Skills = []string{}
	}
	res, err := m.col.InsertOne(ctx, c)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, candidate.ErrDuplicateEmail
		}
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.ID = oid.Hex()
	}
	return c, nil
}

func (m *MongoRepo) Get(ctx context.Context, id string) (*candidate.Candidate, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, candidate.ErrNotFound
	}
	var c candidate.Candidate
	if err := m.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, candidate.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// searchFilter builds a case-insensitive match of term as a literal string.
func searchFilter(term string) bson.M {
	if term == "" {
		return bson.M{}
	}
	rx := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	or := make(bson.A, 0, len(searchFields))
	for _, f := range searchFields {
		or = append(or, bson.M{f: rx})
	}
	return bson.M{"$or": or}
}

func (m *MongoRepo) List(ctx context.Context, q candidate.Query) ([]*candidate.Candidate, error) {
	q = q.Normalize()
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(q.Skip()).
		SetLimit(int64(q.Limit))
	cur, err := m.col.Find(ctx, searchFilter(q.Search), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*candidate.Candidate{}
	for cur.Next(ctx) {
		var c candidate.Candidate
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, cur.Err()
}

func patchSet(p candidate.Patch) bson.M {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if p.FullName != nil {
		set["fullname"] = *p.FullName
	}
	if p.Email != nil {
		set["email"] = *p.Email
	}
	if p.Address != nil {
		set["address"] = *p.Address
	}
	if p.Education != nil {
		set["education"] = *p.Education
	}
	if p.PhoneNumber != nil {
		set["phone_number"] = *p.PhoneNumber
	}
	if p.ExperienceYears != nil {
		set["experience_years"] = *p.ExperienceYears
	}
	if p.Skills != nil {
		set["skills"] = p.Skills
	}
	return set
}

func (m *MongoRepo) Update(ctx context.Context, id string, p candidate.Patch) (*candidate.Candidate, error) {
	if p.IsEmpty() {
		return nil, candidate.ErrEmptyUpdate
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, candidate.ErrNotFound
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var c candidate.Candidate
	err = m.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": patchSet(p)}, opts).Decode(&c)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, candidate.ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, candidate.ErrDuplicateEmail
		}
		return nil, err
	}
	return &c, nil
}

func (m *MongoRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return candidate.ErrNotFound
	}
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return candidate.ErrNotFound
	}
	return nil
}

// Stream iterates a single cursor; the driver fetches batchSize documents per
// round-trip so memory stays bounded regardless of collection size.
func (m *MongoRepo) Stream(ctx context.Context, batchSize int, fn func([]candidate.Candidate) error) error {
	if batchSize < 1 {
		batchSize = 1000
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}).SetBatchSize(int32(batchSize))
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	batch := make([]candidate.Candidate, 0, batchSize)
	for cur.Next(ctx) {
		var c candidate.Candidate
		if err := cur.Decode(&c); err != nil {
			return err
		}
		batch = append(batch, c)
		if len(batch) == batchSize {
			if err := fn(batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := cur.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return fn(batch)
	}
	return nil
}

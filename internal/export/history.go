package export

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// HistoryCollection stores one document per export run.
const HistoryCollection = "report_runs"

const (
	StatusRunning  = "running"
	StatusSuccess  = "success"
	StatusError    = "error"
	StatusCanceled = "canceled"
)

// Run is the persisted metadata of one export.
type Run struct {
	RunID      string    `bson:"runId" json:"runId"`
	Status     string    `bson:"status" json:"status"`
	Path       string    `bson:"path,omitempty" json:"path,omitempty"`
	ObjectKey  string    `bson:"objectKey,omitempty" json:"objectKey,omitempty"`
	Rows       int       `bson:"rows" json:"rows"`
	Error      string    `bson:"error,omitempty" json:"error,omitempty"`
	StartedAt  time.Time `bson:"startedAt" json:"startedAt"`
	FinishedAt time.Time `bson:"finishedAt,omitempty" json:"finishedAt,omitempty"`
}

// History records export runs.
type History interface {
	Save(ctx context.Context, run *Run) error
	Latest(ctx context.Context, limit int) ([]Run, error)
}

// MongoHistory upserts runs keyed by runId.
type MongoHistory struct {
	col *mongo.Collection
}

func NewMongoHistory(col *mongo.Collection) *MongoHistory {
	return &MongoHistory{col: col}
}

func (h *MongoHistory) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "runId", Value: 1}}, Options: options.Index().SetUnique(true).SetName("run_id_unique")},
		{Keys: bson.D{{Key: "startedAt", Value: -1}}, Options: options.Index().SetName("started_desc")},
	}
	if _, err := h.col.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("create report_runs indexes: %w", err)
	}
	return nil
}

func (h *MongoHistory) Save(ctx context.Context, run *Run) error {
	opts := options.Update().SetUpsert(true)
	if _, err := h.col.UpdateOne(ctx, bson.M{"runId": run.RunID}, bson.M{"$set": run}, opts); err != nil {
		return fmt.Errorf("save report run: %w", err)
	}
	return nil
}

// Latest returns up to limit runs, newest first.
func (h *MongoHistory) Latest(ctx context.Context, limit int) ([]Run, error) {
	if limit < 1 {
		limit = 10
	}
	opts := options.Find().SetSort(bson.D{{Key: "startedAt", Value: -1}}).SetLimit(int64(limit))
	cur, err := h.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []Run{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

package repository

import (
	"context"
	"testing"

	"github.com/codegrapher/graphers/internal/candidate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoRepo_CreateDuplicateEmail(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("created", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewMongoRepo(mt.Coll)

		c, err := repo.Create(context.Background(), &candidate.Candidate{FullName: "Jane", Email: "jane@example.com"})
		require.NoError(mt, err)
		assert.Len(mt, c.ID, 24)
		assert.NotNil(mt, c.Skills)
	})

	mt.Run("duplicate", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: candidate_collection index: email_unique",
		}))
		repo := NewMongoRepo(mt.Coll)

		_, err := repo.Create(context.Background(), &candidate.Candidate{FullName: "Jane", Email: "jane@example.com"})
		require.ErrorIs(mt, err, candidate.ErrDuplicateEmail)
	})
}

func TestMongoRepo_GetMalformedID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("not hex", func(mt *mtest.T) {
		repo := NewMongoRepo(mt.Coll)
		_, err := repo.Get(context.Background(), "not-an-object-id")
		require.ErrorIs(mt, err, candidate.ErrNotFound)
	})
}

func TestMongoRepo_UpdateDuplicateEmail(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11000,
			Name:    "DuplicateKey",
			Message: "E11000 duplicate key error collection: candidate_collection index: email_unique",
		}))
		repo := NewMongoRepo(mt.Coll)

		taken := "taken@example.com"
		_, err := repo.Update(context.Background(), primitive.NewObjectID().Hex(), candidate.Patch{Email: &taken})
		require.ErrorIs(mt, err, candidate.ErrDuplicateEmail)
	})
}

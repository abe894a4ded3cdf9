package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shulman33/careerchat/internal/profile"
)

// MockSeedStore is a mock implementation of SeedStore
type MockSeedStore struct {
	mock.Mock
}

func (m *MockSeedStore) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSeedStore) Insert(ctx context.Context, question, answer string) error {
	args := m.Called(ctx, question, answer)
	return args.Error(0)
}

func TestSeeder_Seed(t *testing.T) {
	ctx := context.Background()
	prof := &profile.Profile{
		Name:    "Sam Shulman",
		Summary: "### What do you do?\nI build backend services.\n\n### Where are you based?\nNew York.\n",
	}

	t.Run("seeds summary pairs plus supplement into an empty store", func(t *testing.T) {
		store := new(MockSeedStore)
		store.On("Count", mock.Anything).Return(int64(0), nil)
		store.On("Insert", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		inserted, err := NewSeeder(store, prof).Seed(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2+len(profile.Supplement()), inserted)
		store.AssertCalled(t, "Insert", mock.Anything, "What do you do?", "I build backend services.")
	})

	t.Run("non-empty store is left untouched", func(t *testing.T) {
		store := new(MockSeedStore)
		store.On("Count", mock.Anything).Return(int64(12), nil)

		inserted, err := NewSeeder(store, prof).Seed(ctx)
		require.NoError(t, err)
		assert.Zero(t, inserted)
		store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("count failure aborts the seed", func(t *testing.T) {
		store := new(MockSeedStore)
		store.On("Count", mock.Anything).Return(int64(0), errors.New("db down"))

		_, err := NewSeeder(store, prof).Seed(ctx)
		assert.Error(t, err)
	})

	t.Run("insert failure reports rows inserted so far", func(t *testing.T) {
		store := new(MockSeedStore)
		store.On("Count", mock.Anything).Return(int64(0), nil)
		store.On("Insert", mock.Anything, "What do you do?", mock.Anything).Return(nil).Once()
		store.On("Insert", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("db down"))

		inserted, err := NewSeeder(store, prof).Seed(ctx)
		assert.Error(t, err)
		assert.Equal(t, 1, inserted)
	})
}

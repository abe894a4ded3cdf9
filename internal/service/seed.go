package service

import (
	"context"
	"fmt"
	"log"

	"github.com/shulman33/careerchat/internal/profile"
)

// SeedStore is the slice of the repository the seeder needs.
type SeedStore interface {
	Count(ctx context.Context) (int64, error)
	Insert(ctx context.Context, question, answer string) error
}

// Seeder populates an empty knowledge store from the profile's summary
// document plus the hand-written supplement. A non-empty store is left
// untouched, which makes seeding idempotent across restarts. The
// empty-check is not atomic against a concurrent seeder; accepted for a
// single-instance deployment.
type Seeder struct {
	store SeedStore
	prof  *profile.Profile
}

func NewSeeder(store SeedStore, prof *profile.Profile) *Seeder {
	return &Seeder{store: store, prof: prof}
}

// Seed inserts the parsed Q&A pairs when the store is empty. Returns the
// number of rows inserted. Errors are fatal at startup; there is no
// recovery path for a broken seed source.
func (s *Seeder) Seed(ctx context.Context) (int, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to check store before seeding: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	summaryPairs := profile.ParseQA(s.prof.Summary)
	log.Printf("seeding knowledge store with %d Q&A pairs from summary", len(summaryPairs))

	inserted := 0
	for _, qa := range summaryPairs {
		if err := s.store.Insert(ctx, qa.Question, qa.Answer); err != nil {
			return inserted, fmt.Errorf("failed to seed entry %q: %w", qa.Question, err)
		}
		inserted++
	}

	supplement := profile.Supplement()
	log.Printf("adding %d supplementary Q&A pairs", len(supplement))
	for _, qa := range supplement {
		if err := s.store.Insert(ctx, qa.Question, qa.Answer); err != nil {
			return inserted, fmt.Errorf("failed to seed supplementary entry %q: %w", qa.Question, err)
		}
		inserted++
	}

	return inserted, nil
}

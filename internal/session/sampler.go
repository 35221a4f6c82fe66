package session

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/simuconcursos/simulado-backend/internal/catalog"
	"github.com/simuconcursos/simulado-backend/internal/model"
)

// Sampler draws non-repeating questions per subject from the catalog and
// merges them into one shuffled ordered list. The random source is injected
// so tests can pin the interleaving.
type Sampler struct {
	cat catalog.Catalog

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSampler creates a Sampler over the catalog and random source.
func NewSampler(cat catalog.Catalog, rng *rand.Rand) *Sampler {
	return &Sampler{cat: cat, rng: rng}
}

// Build samples each subject's quota and shuffles the merged result so
// subjects do not arrive in blocks. Subjects are visited in sorted order for
// reproducibility. A per-subject shortfall is silent; only a zero total is an
// error (ErrEmptyConfiguration).
func (s *Sampler) Build(ctx context.Context, quotas map[string]int, scope catalog.PositionScope) ([]model.Question, error) {
	subjects := make([]string, 0, len(quotas))
	for subject, count := range quotas {
		if count > 0 {
			subjects = append(subjects, subject)
		}
	}
	sort.Strings(subjects)

	var items []model.Question
	for _, subject := range subjects {
		sampled, err := s.cat.Sample(ctx, subject, quotas[subject], scope)
		if err != nil {
			return nil, fmt.Errorf("sample %s: %w", subject, err)
		}
		items = append(items, sampled...)
	}

	if len(items) == 0 {
		return nil, ErrEmptyConfiguration
	}

	s.mu.Lock()
	s.rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
	s.mu.Unlock()

	return items, nil
}

package catalog

import (
	"context"
	"math/rand"
	"sort"
	"sync"

	"github.com/simuconcursos/simulado-backend/internal/model"
)

// Memory is an in-memory Catalog. Sampling uses the injected random source so
// tests can pin selection order. Safe for concurrent use.
type Memory struct {
	mu     sync.Mutex
	rng    *rand.Rand
	nextID int
	items  map[int]model.Question
}

// NewMemory creates an empty in-memory catalog drawing from rng.
func NewMemory(rng *rand.Rand) *Memory {
	return &Memory{
		rng:    rng,
		nextID: 1,
		items:  make(map[int]model.Question),
	}
}

func (m *Memory) Sample(_ context.Context, subject string, count int, scope PositionScope) ([]model.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var pool []model.Question
	for _, id := range m.sortedIDs() {
		q := m.items[id]
		if q.Subject == subject && scope.Matches(q.PositionID) {
			pool = append(pool, q)
		}
	}

	m.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	if count < len(pool) {
		pool = pool[:count]
	}
	return pool, nil
}

func (m *Memory) FindByFingerprint(_ context.Context, fp string) (*model.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range m.sortedIDs() {
		q := m.items[id]
		if q.Fingerprint != "" && q.Fingerprint == fp {
			return &q, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) Insert(_ context.Context, q *model.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if q.Fingerprint != "" {
		for _, existing := range m.items {
			if existing.Fingerprint == q.Fingerprint {
				return ErrConflict
			}
		}
	}

	q.ID = m.nextID
	m.nextID++
	m.items[q.ID] = *q
	return nil
}

func (m *Memory) GetByID(_ context.Context, id int) (*model.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &q, nil
}

func (m *Memory) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, id)
	return nil
}

func (m *Memory) ListSubjects(_ context.Context, scope PositionScope) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]bool)
	for _, q := range m.items {
		if scope.Matches(q.PositionID) {
			seen[q.Subject] = true
		}
	}

	subjects := make([]string, 0, len(seen))
	for s := range seen {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)
	return subjects, nil
}

func (m *Memory) SetExplanation(_ context.Context, id int, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, ok := m.items[id]
	if !ok {
		return ErrNotFound
	}
	q.Explanation = text
	m.items[id] = q
	return nil
}

func (m *Memory) ListMissingFingerprint(_ context.Context) ([]model.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.Question
	for _, id := range m.sortedIDs() {
		if q := m.items[id]; q.Fingerprint == "" {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *Memory) BackfillFingerprint(_ context.Context, id int, fp string, origin model.Origin) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, ok := m.items[id]
	if !ok {
		return ErrNotFound
	}
	q.Fingerprint = fp
	q.Origin = origin
	m.items[id] = q
	return nil
}

func (m *Memory) DuplicateGroups(_ context.Context) ([][]model.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	byFP := make(map[string][]model.Question)
	for _, id := range m.sortedIDs() {
		q := m.items[id]
		if q.Fingerprint != "" {
			byFP[q.Fingerprint] = append(byFP[q.Fingerprint], q)
		}
	}

	fps := make([]string, 0, len(byFP))
	for fp, group := range byFP {
		if len(group) > 1 {
			fps = append(fps, fp)
		}
	}
	sort.Strings(fps)

	groups := make([][]model.Question, 0, len(fps))
	for _, fp := range fps {
		groups = append(groups, byFP[fp])
	}
	return groups, nil
}

// Size returns the number of stored questions.
func (m *Memory) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *Memory) sortedIDs() []int {
	ids := make([]int, 0, len(m.items))
	for id := range m.items {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

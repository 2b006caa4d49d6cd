package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"starlink_crm_backend/internal/models"
	"starlink_crm_backend/internal/repositories"
)

// MemoryClientRepository is an in-memory repositories.ClientRepository for
// service and handler tests. Executors passed to it are ignored.
type MemoryClientRepository struct {
	mu      sync.Mutex
	clients map[int64]models.Client
	nextID  int64

	// Now stamps created_at/updated_at. Defaults to time.Now.
	Now func() time.Time
	// Err, when set, is returned by every operation.
	Err error
	// SelectPageCalls counts SelectPage invocations.
	SelectPageCalls int
}

// NewMemoryClientRepository returns an empty repository.
func NewMemoryClientRepository() *MemoryClientRepository {
	return &MemoryClientRepository{
		clients: make(map[int64]models.Client),
		nextID:  1,
		Now:     time.Now,
	}
}

// Seed stores a client as-is, keeping its timestamps, and returns its id.
func (r *MemoryClientRepository) Seed(client models.Client) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	client.ID = r.nextID
	r.nextID++
	r.clients[client.ID] = client
	return client.ID
}

func (r *MemoryClientRepository) Count(_ context.Context, _ repositories.SQLExecutor) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	return len(r.clients), nil
}

func (r *MemoryClientRepository) Insert(_ context.Context, _ repositories.SQLExecutor, client *models.Client) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	now := r.Now().UTC()
	client.ID = r.nextID
	client.CreatedAt = now
	client.UpdatedAt = now
	r.nextID++
	r.clients[client.ID] = *client
	return client.ID, nil
}

func (r *MemoryClientRepository) SelectPage(_ context.Context, limit, offset int) ([]models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.SelectPageCalls++
	if r.Err != nil {
		return nil, r.Err
	}
	all := r.sorted(func(a, b models.Client) bool {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID > b.ID
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	if offset < 0 || limit < 0 || offset >= len(all) {
		return []models.Client{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *MemoryClientRepository) GetByID(_ context.Context, id int64) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	client, ok := r.clients[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &client, nil
}

func (r *MemoryClientRepository) UpdateByID(_ context.Context, _ repositories.SQLExecutor, client *models.Client) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	existing, ok := r.clients[client.ID]
	if !ok {
		return 0, nil
	}
	client.CreatedAt = existing.CreatedAt
	client.UpdatedAt = r.Now().UTC()
	r.clients[client.ID] = *client
	return 1, nil
}

func (r *MemoryClientRepository) DeleteByID(_ context.Context, _ repositories.SQLExecutor, id int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	if _, ok := r.clients[id]; !ok {
		return 0, nil
	}
	delete(r.clients, id)
	return 1, nil
}

func (r *MemoryClientRepository) SelectReminderCandidates(_ context.Context, before time.Time) ([]models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	candidates := []models.Client{}
	for _, c := range r.sorted(func(a, b models.Client) bool { return a.CreatedAt.Before(b.CreatedAt) }) {
		if c.CreatedAt.Before(before) {
			candidates = append(candidates, c)
		}
	}
	return candidates, nil
}

// WithCapacityLock runs fn without a transaction; a failing fn does not undo
// writes it already made.
func (r *MemoryClientRepository) WithCapacityLock(_ context.Context, fn func(executor repositories.SQLExecutor) error) error {
	return fn(nil)
}

func (r *MemoryClientRepository) sorted(less func(a, b models.Client) bool) []models.Client {
	all := make([]models.Client, 0, len(r.clients))
	for _, c := range r.clients {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return less(all[i], all[j]) })
	return all
}

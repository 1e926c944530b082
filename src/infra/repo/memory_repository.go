package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"jokeshare/src/core/domain"
	"jokeshare/src/core/ports"
)

var _ ports.Store = (*MemoryRepository)(nil)

// MemoryRepository is an in-memory ports.Store. Data is lost on restart.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
	jokes map[string]memoryJoke
	seq   int64
	now   func() time.Time
}

// memoryJoke remembers insertion order so jokes created within the same clock
// tick still list newest first.
type memoryJoke struct {
	domain.Joke
	seq int64
}

// NewMemoryRepository creates an empty in-memory store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users: make(map[string]domain.User),
		jokes: make(map[string]memoryJoke),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryRepository) Health(_ context.Context) error {
	return nil
}

func (r *MemoryRepository) CreateUser(_ context.Context, username, passwordHash string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == username {
			return nil, domain.NewConflictError("username already taken")
		}
	}
	now := r.now()
	u := domain.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.users[u.ID] = u
	return &u, nil
}

func (r *MemoryRepository) GetUserByID(_ context.Context, userID string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[userID]
	if !ok {
		return nil, domain.NewNotFoundError("user")
	}
	return &u, nil
}

func (r *MemoryRepository) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, domain.NewNotFoundError("user")
}

func (r *MemoryRepository) ListUsers(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.Before(users[j].CreatedAt)
		}
		return users[i].Username < users[j].Username
	})
	return users, nil
}

func (r *MemoryRepository) FindJoke(_ context.Context, jokeID string) (*domain.Joke, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	j, ok := r.jokes[jokeID]
	if !ok {
		return nil, domain.NewNotFoundError("joke")
	}
	joke := j.Joke
	return &joke, nil
}

// newestFirst returns the stored jokes accepted by keep, newest first.
// Callers must hold the read lock.
func (r *MemoryRepository) newestFirst(keep func(domain.Joke) bool) []memoryJoke {
	var out []memoryJoke
	for _, j := range r.jokes {
		if keep(j.Joke) {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if !out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].CreatedAt.After(out[b].CreatedAt)
		}
		return out[a].seq > out[b].seq
	})
	return out
}

func (r *MemoryRepository) ListJokes(_ context.Context, filter ports.JokeFilter) ([]domain.Joke, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.newestFirst(func(j domain.Joke) bool {
		return filter.JokesterID == "" || j.JokesterID == filter.JokesterID
	})
	jokes := make([]domain.Joke, len(matched))
	for i, j := range matched {
		jokes[i] = j.Joke
	}
	return jokes, nil
}

func (r *MemoryRepository) ListRecentJokes(_ context.Context, limit int) ([]ports.JokeWithJokester, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.newestFirst(func(domain.Joke) bool { return true })
	if limit >= 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	out := make([]ports.JokeWithJokester, len(matched))
	for i, j := range matched {
		out[i] = ports.JokeWithJokester{
			Joke:             j.Joke,
			JokesterUsername: r.users[j.JokesterID].Username,
		}
	}
	return out, nil
}

func (r *MemoryRepository) CreateJoke(_ context.Context, joke ports.NewJoke) (*domain.Joke, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[joke.JokesterID]; !ok {
		return nil, domain.NewNotFoundError("user")
	}
	r.seq++
	now := r.now()
	j := memoryJoke{
		Joke: domain.Joke{
			ID:         uuid.New().String(),
			JokesterID: joke.JokesterID,
			Name:       joke.Name,
			Content:    joke.Content,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		seq: r.seq,
	}
	r.jokes[j.ID] = j
	created := j.Joke
	return &created, nil
}

func (r *MemoryRepository) DeleteJoke(_ context.Context, jokeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jokes[jokeID]; !ok {
		return domain.NewNotFoundError("joke")
	}
	delete(r.jokes, jokeID)
	return nil
}

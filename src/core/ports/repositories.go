// Package ports defines the interfaces that connect the core to infrastructure.
// Implementations (adapters) live in src/infra/repo.
package ports

import (
	"context"

	"jokeshare/src/core/domain"
)

// Repository is the base interface for all repositories.
type Repository interface {
	// Health checks if the underlying storage is reachable.
	Health(ctx context.Context) error
}

// JokeFilter narrows ListJokes. An empty JokesterID means no filter.
type JokeFilter struct {
	JokesterID string
}

// NewJoke is the data needed to create a joke.
type NewJoke struct {
	Name       string
	Content    string
	JokesterID string
}

// JokeWithJokester pairs a joke with its creator's username, used by the feed.
type JokeWithJokester struct {
	domain.Joke
	JokesterUsername string
}

// UserRepository persists users.
type UserRepository interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// JokeRepository persists jokes.
type JokeRepository interface {
	FindJoke(ctx context.Context, jokeID string) (*domain.Joke, error)
	// ListJokes returns matching jokes ordered by creation time, newest first.
	ListJokes(ctx context.Context, filter JokeFilter) ([]domain.Joke, error)
	ListRecentJokes(ctx context.Context, limit int) ([]JokeWithJokester, error)
	CreateJoke(ctx context.Context, joke NewJoke) (*domain.Joke, error)
	DeleteJoke(ctx context.Context, jokeID string) error
}

// Store is the composite persistence gateway used by the use cases.
// Lookups of missing records return a domain not found error.
type Store interface {
	Repository
	UserRepository
	JokeRepository
}

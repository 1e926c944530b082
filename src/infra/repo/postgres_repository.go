package repo

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"jokeshare/src/core/domain"
	"jokeshare/src/core/ports"
	"jokeshare/src/infra/db"
)

var _ ports.Store = (*PostgresRepository)(nil)

// PostgresRepository implements ports.Store using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewPostgresRepository constructs a repository backed by Postgres.
func NewPostgresRepository(pg *db.Postgres, log *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		pool: pg.Pool,
		log:  log,
	}
}

func (r *PostgresRepository) Health(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// normalizeID returns the canonical form of a UUID string. Ids that are not
// UUIDs cannot exist in the database, so callers treat !ok as not found.
func normalizeID(id string) (string, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

// Users

const userColumns = `id::text, username, password_hash, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PostgresRepository) CreateUser(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	const q = `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING ` + userColumns
	u, err := scanUser(r.pool.QueryRow(ctx, q, username, passwordHash))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.NewConflictError("username already taken")
		}
		return nil, err
	}
	return u, nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	id, ok := normalizeID(userID)
	if !ok {
		return nil, domain.NewNotFoundError("user")
	}
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("user")
		}
		return nil, err
	}
	return u, nil
}

func (r *PostgresRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	u, err := scanUser(r.pool.QueryRow(ctx, q, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("user")
		}
		return nil, err
	}
	return u, nil
}

func (r *PostgresRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// Jokes

const jokeColumns = `id::text, jokester_id::text, name, content, created_at, updated_at`

// newestFirst orders jokes by creation time; id breaks ties between jokes
// created in the same instant so repeated listings agree.
const newestFirst = ` ORDER BY created_at DESC, id DESC`

const (
	listJokesQuery           = `SELECT ` + jokeColumns + ` FROM jokes` + newestFirst
	listJokesByJokesterQuery = `SELECT ` + jokeColumns + ` FROM jokes WHERE jokester_id = $1` + newestFirst
	listRecentJokesQuery     = `
		SELECT j.id::text, j.jokester_id::text, j.name, j.content, j.created_at, j.updated_at, u.username
		FROM jokes j
		JOIN users u ON u.id = j.jokester_id
		ORDER BY j.created_at DESC, j.id DESC
		LIMIT $1`
)

func scanJoke(row pgx.Row) (*domain.Joke, error) {
	var j domain.Joke
	if err := row.Scan(&j.ID, &j.JokesterID, &j.Name, &j.Content, &j.CreatedAt, &j.UpdatedAt); err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *PostgresRepository) FindJoke(ctx context.Context, jokeID string) (*domain.Joke, error) {
	id, ok := normalizeID(jokeID)
	if !ok {
		return nil, domain.NewNotFoundError("joke")
	}
	const q = `SELECT ` + jokeColumns + ` FROM jokes WHERE id = $1`
	j, err := scanJoke(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("joke")
		}
		return nil, err
	}
	return j, nil
}

func (r *PostgresRepository) ListJokes(ctx context.Context, filter ports.JokeFilter) ([]domain.Joke, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if filter.JokesterID == "" {
		rows, err = r.pool.Query(ctx, listJokesQuery)
	} else {
		id, ok := normalizeID(filter.JokesterID)
		if !ok {
			return nil, nil
		}
		rows, err = r.pool.Query(ctx, listJokesByJokesterQuery, id)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jokes []domain.Joke
	for rows.Next() {
		j, err := scanJoke(rows)
		if err != nil {
			return nil, err
		}
		jokes = append(jokes, *j)
	}
	return jokes, rows.Err()
}

func (r *PostgresRepository) ListRecentJokes(ctx context.Context, limit int) ([]ports.JokeWithJokester, error) {
	rows, err := r.pool.Query(ctx, listRecentJokesQuery, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ports.JokeWithJokester
	for rows.Next() {
		var j ports.JokeWithJokester
		if err := rows.Scan(&j.ID, &j.JokesterID, &j.Name, &j.Content, &j.CreatedAt, &j.UpdatedAt, &j.JokesterUsername); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) CreateJoke(ctx context.Context, joke ports.NewJoke) (*domain.Joke, error) {
	jokesterID, ok := normalizeID(joke.JokesterID)
	if !ok {
		return nil, domain.NewNotFoundError("user")
	}
	const q = `
		INSERT INTO jokes (jokester_id, name, content)
		VALUES ($1, $2, $3)
		RETURNING ` + jokeColumns
	j, err := scanJoke(r.pool.QueryRow(ctx, q, jokesterID, joke.Name, joke.Content))
	if err != nil {
		r.log.Error("CreateJoke failed", "jokester_id", jokesterID, "err", err)
		return nil, err
	}
	return j, nil
}

func (r *PostgresRepository) DeleteJoke(ctx context.Context, jokeID string) error {
	id, ok := normalizeID(jokeID)
	if !ok {
		return domain.NewNotFoundError("joke")
	}
	res, err := r.pool.Exec(ctx, `DELETE FROM jokes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.NewNotFoundError("joke")
	}
	return nil
}

package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jokeshare/src/core/domain"
	"jokeshare/src/core/ports"
	"jokeshare/src/infra/logger"
	"jokeshare/src/infra/repo"
)

func newJokeFixture(t *testing.T) (*JokeService, *repo.MemoryRepository) {
	t.Helper()
	store := repo.NewMemoryRepository()
	return NewJokeService(store, logger.Discard()), store
}

func mustUser(t *testing.T, store ports.Store, username string) *domain.User {
	t.Helper()
	u, err := store.CreateUser(context.Background(), username, "hash")
	require.NoError(t, err)
	return u
}

func mustJoke(t *testing.T, store ports.Store, owner *domain.User, name, content string) *domain.Joke {
	t.Helper()
	j, err := store.CreateJoke(context.Background(), ports.NewJoke{
		Name:       name,
		Content:    content,
		JokesterID: owner.ID,
	})
	require.NoError(t, err)
	return j
}

func strPtr(s string) *string { return &s }

func jokeNames(jokes []domain.Joke) []string {
	names := make([]string, len(jokes))
	for i, j := range jokes {
		names[i] = j.Name
	}
	return names
}

func TestList_NewestFirstCappedAtFive(t *testing.T) {
	svc, store := newJokeFixture(t)
	kody := mustUser(t, store, "kody")
	for i := 0; i < 7; i++ {
		mustJoke(t, store, kody, fmt.Sprintf("joke %d", i), "some content here")
	}

	listing, err := svc.List(context.Background(), domain.Anonymous(), ListJokesInput{})
	require.NoError(t, err)

	assert.Equal(t, []string{"joke 6", "joke 5", "joke 4", "joke 3", "joke 2"}, jokeNames(listing.Jokes))
	assert.Nil(t, listing.CurrentUser)
	assert.Len(t, listing.Users, 1)
}

func TestList_EmptySearchEqualsNoSearch(t *testing.T) {
	svc, store := newJokeFixture(t)
	kody := mustUser(t, store, "kody")
	mustJoke(t, store, kody, "Frisbee", "It kept getting bigger")
	mustJoke(t, store, kody, "Skeletons", "They have no guts")

	withEmpty, err := svc.List(context.Background(), domain.Anonymous(), ListJokesInput{Search: ""})
	require.NoError(t, err)
	without, err := svc.List(context.Background(), domain.Anonymous(), ListJokesInput{})
	require.NoError(t, err)

	assert.Equal(t, without, withEmpty)
}

func TestList_FuzzySearch(t *testing.T) {
	svc, store := newJokeFixture(t)
	kody := mustUser(t, store, "kody")
	mustJoke(t, store, kody, "Frisbee", "I was wondering why the frisbee kept getting bigger")
	mustJoke(t, store, kody, "Road worker", "I never wanted to believe my dad was stealing")

	listing, err := svc.List(context.Background(), domain.Anonymous(), ListJokesInput{Search: "frsb"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Frisbee"}, jokeNames(listing.Jokes))

	listing, err = svc.List(context.Background(), domain.Anonymous(), ListJokesInput{Search: "qqqq"})
	require.NoError(t, err)
	assert.Empty(t, listing.Jokes)
	assert.NotNil(t, listing.Jokes)
}

func TestList_FilterByJokester(t *testing.T) {
	svc, store := newJokeFixture(t)
	kody := mustUser(t, store, "kody")
	hannah := mustUser(t, store, "hannah")
	mustJoke(t, store, kody, "Kody's joke", "something funny")
	mustJoke(t, store, hannah, "Hannah's joke", "something funnier")

	listing, err := svc.List(context.Background(), domain.ViewerOf(hannah.ID), ListJokesInput{UserID: kody.ID})
	require.NoError(t, err)

	assert.Equal(t, []string{"Kody's joke"}, jokeNames(listing.Jokes))
	require.NotNil(t, listing.CurrentUser)
	assert.Equal(t, "hannah", listing.CurrentUser.Username)

	listing, err = svc.List(context.Background(), domain.Anonymous(), ListJokesInput{UserID: "nobody"})
	require.NoError(t, err)
	assert.Empty(t, listing.Jokes)
}

func TestList_Idempotent(t *testing.T) {
	svc, store := newJokeFixture(t)
	kody := mustUser(t, store, "kody")
	mustJoke(t, store, kody, "Frisbee", "It kept getting bigger")

	first, err := svc.List(context.Background(), domain.Anonymous(), ListJokesInput{Search: "fr"})
	require.NoError(t, err)
	second, err := svc.List(context.Background(), domain.Anonymous(), ListJokesInput{Search: "fr"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGet(t *testing.T) {
	svc, store := newJokeFixture(t)
	kody := mustUser(t, store, "kody")
	hannah := mustUser(t, store, "hannah")
	joke := mustJoke(t, store, kody, "Frisbee", "It kept getting bigger")

	view, err := svc.Get(context.Background(), domain.ViewerOf(kody.ID), joke.ID)
	require.NoError(t, err)
	assert.True(t, view.IsOwner)
	assert.Equal(t, joke.ID, view.Joke.ID)

	view, err = svc.Get(context.Background(), domain.ViewerOf(hannah.ID), joke.ID)
	require.NoError(t, err)
	assert.False(t, view.IsOwner)

	view, err = svc.Get(context.Background(), domain.Anonymous(), joke.ID)
	require.NoError(t, err)
	assert.False(t, view.IsOwner)

	_, err = svc.Get(context.Background(), domain.Anonymous(), "missing")
	assert.True(t, domain.IsNotFound(err))
	assert.Equal(t, "What a joke! Not found.", domain.Message(err))
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc, store := newJokeFixture(t)
	kody := mustUser(t, store, "kody")
	hannah := mustUser(t, store, "hannah")
	joke := mustJoke(t, store, kody, "Frisbee", "It kept getting bigger")

	t.Run("unsupported intent", func(t *testing.T) {
		err := svc.Delete(ctx, domain.ViewerOf(kody.ID), joke.ID, "update")
		assert.True(t, domain.IsValidationError(err))
		assert.Equal(t, "The intent update is not supported", domain.Message(err))
	})

	t.Run("anonymous", func(t *testing.T) {
		err := svc.Delete(ctx, domain.Anonymous(), joke.ID, "delete")
		assert.True(t, domain.IsUnauthorized(err))
	})

	t.Run("not the owner", func(t *testing.T) {
		err := svc.Delete(ctx, domain.ViewerOf(hannah.ID), joke.ID, "delete")
		assert.True(t, domain.IsForbidden(err))

		_, err = store.FindJoke(ctx, joke.ID)
		assert.NoError(t, err, "joke must survive a forbidden delete")
	})

	t.Run("owner", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, domain.ViewerOf(kody.ID), joke.ID, "delete"))

		_, err := svc.Get(ctx, domain.ViewerOf(kody.ID), joke.ID)
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("nonexistent is not found, never forbidden", func(t *testing.T) {
		err := svc.Delete(ctx, domain.ViewerOf(hannah.ID), joke.ID, "delete")
		assert.True(t, domain.IsNotFound(err))
		assert.False(t, domain.IsForbidden(err))
	})
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	svc, store := newJokeFixture(t)
	kody := mustUser(t, store, "kody")
	viewer := domain.ViewerOf(kody.ID)

	t.Run("short name", func(t *testing.T) {
		res, err := svc.Create(ctx, viewer, JokeSubmission{Name: strPtr("ab"), Content: strPtr("long enough content")})
		require.NoError(t, err)
		require.NotNil(t, res.Invalid)
		assert.Nil(t, res.Joke)
		require.NotNil(t, res.Invalid.FieldErrors)
		assert.Equal(t, "That joke's name is too short", res.Invalid.FieldErrors.Name)
		assert.Empty(t, res.Invalid.FieldErrors.Content)
		assert.Equal(t, &JokeFields{Name: "ab", Content: "long enough content"}, res.Invalid.Fields)

		jokes, err := store.ListJokes(ctx, ports.JokeFilter{})
		require.NoError(t, err)
		assert.Empty(t, jokes)
	})

	t.Run("missing field", func(t *testing.T) {
		res, err := svc.Create(ctx, viewer, JokeSubmission{Name: strPtr("Frisbee")})
		require.NoError(t, err)
		require.NotNil(t, res.Invalid)
		require.NotNil(t, res.Invalid.FormError)
		assert.Equal(t, "Form not submitted correctly.", *res.Invalid.FormError)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := svc.Create(ctx, domain.Anonymous(), JokeSubmission{Name: strPtr("abc"), Content: strPtr("0123456789")})
		assert.True(t, domain.IsUnauthorized(err))
	})

	t.Run("valid at minimum lengths", func(t *testing.T) {
		res, err := svc.Create(ctx, viewer, JokeSubmission{Name: strPtr("abc"), Content: strPtr("0123456789")})
		require.NoError(t, err)
		assert.Nil(t, res.Invalid)
		require.NotNil(t, res.Joke)
		assert.Equal(t, kody.ID, res.Joke.JokesterID)

		found, err := store.FindJoke(ctx, res.Joke.ID)
		require.NoError(t, err)
		assert.Equal(t, "abc", found.Name)
	})
}

func TestSpeculate_AgreesWithCreate(t *testing.T) {
	ctx := context.Background()
	svc, store := newJokeFixture(t)
	kody := mustUser(t, store, "kody")
	viewer := domain.ViewerOf(kody.ID)

	subs := []JokeSubmission{
		{Name: strPtr("ab"), Content: strPtr("0123456789")},
		{Name: strPtr("abc"), Content: strPtr("012345678")},
		{Name: strPtr("abc"), Content: strPtr("0123456789")},
		{Name: nil, Content: strPtr("0123456789")},
	}
	for _, sub := range subs {
		predicted, ok := svc.Speculate(viewer, sub)
		res, err := svc.Create(ctx, viewer, sub)
		require.NoError(t, err)

		assert.Equal(t, res.Joke != nil, ok)
		if ok {
			assert.Equal(t, res.Joke.Name, predicted.Name)
			assert.Equal(t, res.Joke.Content, predicted.Content)
			assert.Equal(t, res.Joke.JokesterID, predicted.JokesterID)
		}
	}
}

func TestFeed(t *testing.T) {
	svc, store := newJokeFixture(t)
	kody := mustUser(t, store, "kody")
	mustJoke(t, store, kody, "First", "the first joke")
	mustJoke(t, store, kody, "Second", "the second joke")

	items, err := svc.Feed(context.Background())
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "Second", items[0].Name)
	assert.Equal(t, "kody", items[0].JokesterUsername)
}

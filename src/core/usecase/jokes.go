package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"jokeshare/src/core/domain"
	"jokeshare/src/core/ports"
	"jokeshare/src/core/search"
)

// JokeListLimit caps how many jokes the listing returns.
const JokeListLimit = 5

// FeedLimit caps how many jokes the RSS feed carries.
const FeedLimit = 100

const formNotSubmitted = "Form not submitted correctly."

// JokeService implements listing, viewing, creating and deleting jokes.
type JokeService struct {
	repo ports.Store
	log  *slog.Logger
}

func NewJokeService(repo ports.Store, log *slog.Logger) *JokeService {
	return &JokeService{repo: repo, log: log}
}

// ListJokesInput carries the listing query. Empty strings mean "not set".
type ListJokesInput struct {
	UserID string
	Search string
}

// JokeListing is the data behind the jokes page.
type JokeListing struct {
	Jokes       []domain.Joke `json:"jokeListItems"`
	CurrentUser *domain.User  `json:"currentUser"`
	Users       []domain.User `json:"users"`
}

// List returns the newest jokes, optionally limited to one jokester and ranked
// against a search query, capped at JokeListLimit.
func (s *JokeService) List(ctx context.Context, viewer domain.Viewer, in ListJokesInput) (*JokeListing, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	current, err := s.CurrentUser(ctx, viewer)
	if err != nil {
		return nil, err
	}
	jokes, err := s.repo.ListJokes(ctx, ports.JokeFilter{JokesterID: in.UserID})
	if err != nil {
		return nil, err
	}

	ranked := search.Rank(jokes, in.Search, jokeSearchFields)
	if len(ranked) > JokeListLimit {
		ranked = ranked[:JokeListLimit]
	}
	if ranked == nil {
		ranked = []domain.Joke{}
	}
	if users == nil {
		users = []domain.User{}
	}

	return &JokeListing{
		Jokes:       ranked,
		CurrentUser: current,
		Users:       users,
	}, nil
}

func jokeSearchFields(j domain.Joke) []string {
	return []string{j.Name, j.Content}
}

// CurrentUser loads the viewer's user record. Anonymous viewers and sessions
// pointing at users that no longer exist both yield nil.
func (s *JokeService) CurrentUser(ctx context.Context, viewer domain.Viewer) (*domain.User, error) {
	if !viewer.Authenticated() {
		return nil, nil
	}
	user, err := s.repo.GetUserByID(ctx, viewer.UserID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// JokeView is a single joke as seen by a viewer.
type JokeView struct {
	IsOwner bool         `json:"isOwner"`
	Joke    *domain.Joke `json:"joke"`
}

// Get loads a joke and decides whether the viewer owns it.
func (s *JokeService) Get(ctx context.Context, viewer domain.Viewer, jokeID string) (*JokeView, error) {
	joke, err := s.repo.FindJoke(ctx, jokeID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewNotFoundError("What a joke! Not found.")
		}
		return nil, err
	}
	return &JokeView{IsOwner: viewer.Owns(joke), Joke: joke}, nil
}

// Delete removes a joke on behalf of its owner. Ownership is re-read from the
// store on every call; nothing the client rendered earlier is trusted.
func (s *JokeService) Delete(ctx context.Context, viewer domain.Viewer, jokeID, intent string) error {
	if intent != "delete" {
		return domain.NewBadRequestError(fmt.Sprintf("The intent %s is not supported", intent))
	}
	if !viewer.Authenticated() {
		return domain.NewUnauthorizedError("You must be logged in to delete a joke")
	}

	joke, err := s.repo.FindJoke(ctx, jokeID)
	if err != nil {
		if domain.IsNotFound(err) {
			return domain.NewNotFoundError("Can't delete what does not exist")
		}
		return err
	}
	if !viewer.Owns(joke) {
		return domain.NewForbiddenError("Pssh, nice try. That's not your joke")
	}

	if err := s.repo.DeleteJoke(ctx, jokeID); err != nil {
		if domain.IsNotFound(err) {
			return domain.NewNotFoundError("Can't delete what does not exist")
		}
		return err
	}
	s.log.Info("joke deleted", "joke_id", jokeID, "user_id", viewer.UserID)
	return nil
}

// JokeSubmission is the raw new-joke form. A nil field was not submitted.
type JokeSubmission struct {
	Name    *string
	Content *string
}

// JokeFields echoes submitted values back to the form.
type JokeFields struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// JokeActionData is returned instead of a joke when a submission is rejected,
// so the form can be shown again with inline messages.
type JokeActionData struct {
	FieldErrors *domain.JokeFieldErrors `json:"fieldErrors"`
	Fields      *JokeFields             `json:"fields"`
	FormError   *string                 `json:"formError"`
}

// CreateJokeResult holds either the created joke or the rejection data.
type CreateJokeResult struct {
	Joke    *domain.Joke
	Invalid *JokeActionData
}

// Create validates a submission and stores it as a joke owned by the viewer.
// Validation failures are returned as data, not as an error.
func (s *JokeService) Create(ctx context.Context, viewer domain.Viewer, sub JokeSubmission) (*CreateJokeResult, error) {
	if !viewer.Authenticated() {
		return nil, domain.NewUnauthorizedError("You must be logged in to create a joke")
	}
	if sub.Name == nil || sub.Content == nil {
		msg := formNotSubmitted
		return &CreateJokeResult{Invalid: &JokeActionData{FormError: &msg}}, nil
	}

	fields := JokeFields{Name: *sub.Name, Content: *sub.Content}
	if errs := domain.ValidateJoke(fields.Name, fields.Content); errs.Any() {
		return &CreateJokeResult{Invalid: &JokeActionData{FieldErrors: &errs, Fields: &fields}}, nil
	}

	joke, err := s.repo.CreateJoke(ctx, ports.NewJoke{
		Name:       fields.Name,
		Content:    fields.Content,
		JokesterID: viewer.UserID,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("joke created", "joke_id", joke.ID, "user_id", viewer.UserID)
	return &CreateJokeResult{Joke: joke}, nil
}

// Speculate predicts the joke a pending submission will create, using the same
// validation as Create. It returns false whenever Create would not succeed on
// validation grounds, and never touches the store.
func (s *JokeService) Speculate(viewer domain.Viewer, sub JokeSubmission) (*domain.Joke, bool) {
	if !viewer.Authenticated() || sub.Name == nil || sub.Content == nil {
		return nil, false
	}
	if domain.ValidateJoke(*sub.Name, *sub.Content).Any() {
		return nil, false
	}
	return &domain.Joke{
		Name:       *sub.Name,
		Content:    *sub.Content,
		JokesterID: viewer.UserID,
	}, true
}

// Feed returns the most recent jokes with their jokesters' usernames.
func (s *JokeService) Feed(ctx context.Context) ([]ports.JokeWithJokester, error) {
	return s.repo.ListRecentJokes(ctx, FeedLimit)
}

package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"jokeshare/src/core/domain"
	"jokeshare/src/core/ports"
)

// Login form discriminator values.
const (
	LoginTypeLogin    = "login"
	LoginTypeRegister = "register"
)

// AuthService handles signup and login.
type AuthService struct {
	repo ports.Store
	log  *slog.Logger
	cost int
}

// NewAuthService creates an AuthService hashing passwords with the given bcrypt
// cost. A cost of zero uses bcrypt.DefaultCost.
func NewAuthService(repo ports.Store, log *slog.Logger, cost int) *AuthService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{repo: repo, log: log, cost: cost}
}

// LoginSubmission is the raw login form. A nil field was not submitted.
type LoginSubmission struct {
	LoginType *string
	Username  *string
	Password  *string
}

// LoginFields echoes submitted values back to the form. The password is never echoed.
type LoginFields struct {
	LoginType string `json:"loginType"`
	Username  string `json:"username"`
}

// LoginActionData is returned when a login or signup attempt is rejected.
type LoginActionData struct {
	FieldErrors *domain.CredentialFieldErrors `json:"fieldErrors"`
	Fields      *LoginFields                  `json:"fields"`
	FormError   *string                       `json:"formError"`
}

// LoginResult holds either the authenticated user or the rejection data.
type LoginResult struct {
	User    *domain.User
	Invalid *LoginActionData
}

func rejectLogin(fields *LoginFields, msg string) *LoginResult {
	return &LoginResult{Invalid: &LoginActionData{Fields: fields, FormError: &msg}}
}

// Authenticate logs in an existing user or registers a new one, depending on
// the submitted login type.
func (s *AuthService) Authenticate(ctx context.Context, sub LoginSubmission) (*LoginResult, error) {
	if sub.LoginType == nil || sub.Username == nil || sub.Password == nil {
		return rejectLogin(nil, formNotSubmitted), nil
	}

	fields := &LoginFields{LoginType: *sub.LoginType, Username: *sub.Username}
	if errs := domain.ValidateCredentials(*sub.Username, *sub.Password); errs.Any() {
		return &LoginResult{Invalid: &LoginActionData{FieldErrors: &errs, Fields: fields}}, nil
	}

	switch *sub.LoginType {
	case LoginTypeLogin:
		user, err := s.login(ctx, *sub.Username, *sub.Password)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return rejectLogin(fields, "Username/Password combination is incorrect"), nil
		}
		return &LoginResult{User: user}, nil

	case LoginTypeRegister:
		user, err := s.register(ctx, *sub.Username, *sub.Password)
		if err != nil {
			if domain.IsConflict(err) {
				return rejectLogin(fields, fmt.Sprintf("User with username %s already exists", *sub.Username)), nil
			}
			return nil, err
		}
		return &LoginResult{User: user}, nil

	default:
		return rejectLogin(fields, "Login type invalid"), nil
	}
}

// login returns nil without error when the credentials do not match.
func (s *AuthService) login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil
	}
	return user, nil
}

func (s *AuthService) register(ctx context.Context, username, password string) (*domain.User, error) {
	if _, err := s.repo.GetUserByUsername(ctx, username); err == nil {
		return nil, domain.NewConflictError("username already taken")
	} else if !domain.IsNotFound(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user, err := s.repo.CreateUser(ctx, username, string(hash))
	if err != nil {
		return nil, err
	}
	s.log.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

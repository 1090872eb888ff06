package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"boxoffice/internal/gateway"
	"boxoffice/internal/navigation"
	"boxoffice/internal/session"
	"boxoffice/pkg/logger"
)

const (
	createTokenPath = "/auth/jwt/create/"
	mePath          = "/auth/users/me/"
	usersPath       = "/auth/users/"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError carries the message shown above the form
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type Service interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResult, error)
	Register(ctx context.Context, req *RegisterRequest) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*UserResponse, error)
}

type service struct {
	gw        *gateway.Gateway
	validator *validator.Validate
	log       *logger.Logger
}

// NewService binds the auth flows to the gateway's session store
func NewService(gw *gateway.Gateway, log *logger.Logger) Service {
	if log == nil {
		log = logger.GetDefault()
	}
	return &service{
		gw:        gw,
		validator: validator.New(),
		log:       log,
	}
}

// Login exchanges credentials for a token pair, stores it, then records
// the user's role and staff flag from the profile endpoint
func (s *service) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, ErrInvalidCredentials
	}

	resp, err := s.gw.DoAnonymous(ctx, gateway.PostJSON(createTokenPath, req))
	if err != nil {
		return nil, err
	}

	var tokens TokenPair
	if err := gateway.DecodeJSON(resp, &tokens); err != nil {
		var httpErr *gateway.HTTPError
		if errors.As(err, &httpErr) {
			s.log.LogAuthFailure(ctx, "login rejected", "")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if tokens.Access == "" {
		return nil, ErrInvalidCredentials
	}

	store := s.gw.Store()
	if err := store.Set(ctx, session.Tokens(tokens.Access, tokens.Refresh)); err != nil {
		return nil, err
	}

	user, err := s.Me(ctx)
	if err != nil {
		// Tokens stay valid; without a profile the user lands as an attendee
		s.log.WarnContext(ctx, "Failed to load profile after login", "error", err.Error())
		return &LoginResult{LandingPath: navigation.HomePath}, nil
	}

	if err := store.Set(ctx, session.Profile(user.Role, user.IsStaff)); err != nil {
		return nil, err
	}

	s.log.LogAuthSuccess(ctx, user.Username, user.Role.String())
	return &LoginResult{User: user, LandingPath: LandingPath(user.Role)}, nil
}

// LandingPath is where a user goes right after logging in
func LandingPath(role session.Role) string {
	if role == session.RoleOrganizer {
		return navigation.OrganizerPath
	}
	return navigation.HomePath
}

// Register creates an account. A password mismatch is caught before any request.
func (s *service) Register(ctx context.Context, req *RegisterRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return toValidationError(err)
	}

	resp, err := s.gw.DoAnonymous(ctx, gateway.PostJSON(usersPath, req))
	if err != nil {
		return err
	}

	if err := gateway.DecodeJSON(resp, nil); err != nil {
		var httpErr *gateway.HTTPError
		if errors.As(err, &httpErr) {
			msg := gateway.FlattenFieldErrors(httpErr.Body)
			if msg == "" {
				msg = "Registration failed."
			}
			return &ValidationError{Message: msg}
		}
		return err
	}

	s.log.InfoContext(ctx, "User registered", "username", req.Username)
	return nil
}

func (s *service) Logout(ctx context.Context) error {
	if err := s.gw.Store().Clear(ctx); err != nil {
		return err
	}
	s.log.LogSessionCleared(ctx, "logout")
	return nil
}

func (s *service) Me(ctx context.Context) (*UserResponse, error) {
	resp, err := s.gw.Do(ctx, gateway.Get(mePath))
	if err != nil {
		return nil, err
	}

	var user UserResponse
	if err := gateway.DecodeJSON(resp, &user); err != nil {
		if gateway.IsHTTPStatus(err, http.StatusUnauthorized) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return &user, nil
}

func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	// the mismatch check wins over every other field problem
	for _, fe := range verrs {
		if fe.Tag() == "eqfield" {
			return &ValidationError{Message: "Passwords do not match."}
		}
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return &ValidationError{Message: fe.Field() + " is required."}
	case "email":
		return &ValidationError{Message: "Enter a valid email address."}
	default:
		return &ValidationError{Message: fe.Field() + " is invalid."}
	}
}

package service

import (
	"context"
	"errors"

	"data-explorer-be/internal/entity"
	"data-explorer-be/internal/pkg/logger"
	"data-explorer-be/pkg/authenticator"
	"data-explorer-be/pkg/events"
)

type IAuthService interface {
	// Login records the attempt on the session. Wrong credentials are not an
	// error: they show up as the session's auth status. A returned ticket
	// means the login cookie must be set.
	Login(ctx context.Context, state *entity.SessionState, username, password string) (*authenticator.Ticket, error)
	// Logout resets the session and returns the login cookie name to clear.
	Logout(ctx context.Context, state *entity.SessionState) (string, error)
	// Restore logs the session in from a valid login cookie.
	Restore(ctx context.Context, state *entity.SessionState, cookie func(name string) string) error
}

type authService struct {
	auth      *authenticator.Authenticator
	publisher events.Publisher
	log       logger.ILogger
}

func NewAuthService(auth *authenticator.Authenticator, publisher events.Publisher, log logger.ILogger) IAuthService {
	return &authService{
		auth:      auth,
		publisher: publisher,
		log:       log,
	}
}

func (s *authService) Login(ctx context.Context, state *entity.SessionState, username, password string) (*authenticator.Ticket, error) {
	if state.AuthStatus == entity.AuthStatusLocked {
		return nil, nil
	}

	ticket, err := s.auth.Login(ctx, username, password)
	if errors.Is(err, authenticator.ErrInvalidCredentials) {
		state.FailedAttempts++
		eventType := events.TypeUserLoginFailed
		state.AuthStatus = entity.AuthStatusFailed
		if state.FailedAttempts >= authenticator.MaxLoginAttempts {
			state.AuthStatus = entity.AuthStatusLocked
			eventType = events.TypeUserLocked
		}
		s.log.Warn("auth", "login failed", map[string]interface{}{
			"session_id": state.Id.String(),
			"username":   username,
			"attempts":   state.FailedAttempts,
		})
		publish(ctx, s.publisher, s.log, events.New(eventType, map[string]interface{}{
			"session_id": state.Id.String(),
			"username":   username,
			"attempts":   state.FailedAttempts,
		}))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	state.AuthStatus = entity.AuthStatusAuthenticated
	state.Username = ticket.Identity.Username
	state.Name = ticket.Identity.Name
	state.FailedAttempts = 0

	s.log.Info("auth", "login succeeded", map[string]interface{}{
		"session_id": state.Id.String(),
		"username":   state.Username,
		"source":     s.auth.SourceName(),
	})
	publish(ctx, s.publisher, s.log, events.New(events.TypeUserLogin, map[string]interface{}{
		"session_id": state.Id.String(),
		"username":   state.Username,
	}))
	return ticket, nil
}

func (s *authService) Logout(ctx context.Context, state *entity.SessionState) (string, error) {
	cookieName, err := s.auth.CookieName(ctx)
	if err != nil {
		return "", err
	}

	username := state.Username
	state.AuthStatus = entity.AuthStatusNotAttempted
	state.Username = ""
	state.Name = ""
	state.FailedAttempts = 0

	publish(ctx, s.publisher, s.log, events.New(events.TypeUserLogout, map[string]interface{}{
		"session_id": state.Id.String(),
		"username":   username,
	}))
	return cookieName, nil
}

func (s *authService) Restore(ctx context.Context, state *entity.SessionState, cookie func(name string) string) error {
	if state.AuthStatus == entity.AuthStatusAuthenticated || state.AuthStatus == entity.AuthStatusLocked {
		return nil
	}
	identity, err := s.auth.Restore(ctx, cookie)
	if err != nil {
		return err
	}
	if identity == nil {
		return nil
	}

	state.AuthStatus = entity.AuthStatusAuthenticated
	state.Username = identity.Username
	state.Name = identity.Name
	state.FailedAttempts = 0
	s.log.Debug("auth", "session restored from cookie", map[string]interface{}{
		"session_id": state.Id.String(),
		"username":   identity.Username,
	})
	return nil
}

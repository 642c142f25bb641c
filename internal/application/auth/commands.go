package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/andrescamacho/spaceconquest-go/internal/application/mediator"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/ports"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/session"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/shared"
)

// LoginCommand authenticates an existing commander
type LoginCommand struct {
	Username string
	Password string
}

// RegisterCommand creates a commander and their home planet
type RegisterCommand struct {
	Username string
	Password string
}

// LogoutCommand ends the active session
type LogoutCommand struct{}

// LoginResponse carries the session established by login or register
type LoginResponse struct {
	Session *session.Session
}

type LogoutResponse struct {
	Username string
}

// LoginHandler handles both LoginCommand and RegisterCommand; they differ
// only in the endpoint called
type LoginHandler struct {
	client     ports.GameClient
	controller *Controller
	clock      shared.Clock
	validate   *validator.Validate
}

// NewLoginHandler creates a new login handler
func NewLoginHandler(client ports.GameClient, controller *Controller, clock shared.Clock) *LoginHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &LoginHandler{
		client:     client,
		controller: controller,
		clock:      clock,
		validate:   validator.New(),
	}
}

// Handle executes the login or register command
func (h *LoginHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	var (
		creds    session.Credentials
		register bool
	)
	switch cmd := request.(type) {
	case *LoginCommand:
		creds = session.Credentials{Username: strings.TrimSpace(cmd.Username), Password: cmd.Password}
	case *RegisterCommand:
		creds = session.Credentials{Username: strings.TrimSpace(cmd.Username), Password: cmd.Password}
		register = true
	default:
		return nil, fmt.Errorf("invalid request type")
	}

	if err := h.validateCredentials(creds); err != nil {
		return nil, err
	}

	var (
		result *ports.AuthResult
		err    error
	)
	if register {
		result, err = h.client.Register(ctx, creds.Username, creds.Password)
	} else {
		result, err = h.client.Login(ctx, creds.Username, creds.Password)
	}
	if err != nil {
		return nil, err
	}

	s, err := session.NewSession(creds.Username, result.Token, result.PlanetID, h.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("server returned an unusable session: %w", err)
	}
	if err := h.controller.Establish(ctx, s); err != nil {
		return nil, err
	}

	return &LoginResponse{Session: s}, nil
}

func (h *LoginHandler) validateCredentials(creds session.Credentials) error {
	if err := h.validate.Struct(creds); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			field := strings.ToLower(fieldErrs[0].Field())
			return shared.NewValidationError(field, fmt.Sprintf("failed %q check", fieldErrs[0].Tag()))
		}
		return shared.NewValidationError("credentials", err.Error())
	}
	return nil
}

// LogoutHandler clears the session
type LogoutHandler struct {
	controller *Controller
}

func NewLogoutHandler(controller *Controller) *LogoutHandler {
	return &LogoutHandler{controller: controller}
}

// Handle executes the logout command
func (h *LogoutHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*LogoutCommand); !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	var username string
	if current := h.controller.Current(); current != nil {
		username = current.Username
	}
	if err := h.controller.Terminate(ctx, ReasonLogout); err != nil {
		return nil, err
	}
	return &LogoutResponse{Username: username}, nil
}

// Register wires the auth handlers into the mediator
func Register(m mediator.Mediator, client ports.GameClient, controller *Controller, clock shared.Clock) error {
	login := NewLoginHandler(client, controller, clock)
	if err := mediator.RegisterHandler[*LoginCommand](m, login); err != nil {
		return err
	}
	if err := mediator.RegisterHandler[*RegisterCommand](m, login); err != nil {
		return err
	}
	return mediator.RegisterHandler[*LogoutCommand](m, NewLogoutHandler(controller))
}

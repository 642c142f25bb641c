package mediator

import (
	"context"
	"reflect"
)

// Request is a game action or read model query, usually a pointer to a struct.
type Request = any

// Response is whatever the handler of a Request produces.
type Response = any

type RequestHandler interface {
	Handle(ctx context.Context, request Request) (Response, error)
}

type HandlerFunc func(ctx context.Context, request Request) (Response, error)

// Handle lets a plain function be registered as a RequestHandler.
func (f HandlerFunc) Handle(ctx context.Context, request Request) (Response, error) {
	return f(ctx, request)
}

// Middleware wraps every dispatch; session checks and command metrics live here.
type Middleware func(ctx context.Context, request Request, next HandlerFunc) (Response, error)

// RequestName returns the bare type name of a request, "UpgradeBuildingCommand"
// for *actions.UpgradeBuildingCommand.
func RequestName(request Request) string {
	if request == nil {
		return "Unknown"
	}
	t := reflect.TypeOf(request)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.Name()
}

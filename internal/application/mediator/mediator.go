package mediator

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// Mediator routes every game action and read model query. Handlers are keyed
// by the request's concrete type; middlewares see all of them.
type Mediator interface {
	Send(ctx context.Context, request Request) (Response, error)
	Register(requestType reflect.Type, handler RequestHandler) error
	RegisterMiddleware(middleware Middleware)
}

type mediator struct {
	mu          sync.RWMutex
	handlers    map[reflect.Type]RequestHandler
	middlewares []Middleware
}

func NewMediator() Mediator {
	return &mediator{handlers: map[reflect.Type]RequestHandler{}}
}

func (m *mediator) Register(requestType reflect.Type, handler RequestHandler) error {
	switch {
	case requestType == nil:
		return fmt.Errorf("register: nil request type")
	case handler == nil:
		return fmt.Errorf("register %s: nil handler", requestType)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.handlers[requestType]; taken {
		return fmt.Errorf("register %s: handler already registered", requestType)
	}
	m.handlers[requestType] = handler
	return nil
}

// RegisterMiddleware appends to the chain. The first one registered is the
// outermost, so it also sees what later ones return.
func (m *mediator) RegisterMiddleware(middleware Middleware) {
	m.mu.Lock()
	m.middlewares = append(m.middlewares, middleware)
	m.mu.Unlock()
}

func (m *mediator) Send(ctx context.Context, request Request) (Response, error) {
	if request == nil {
		return nil, fmt.Errorf("send: nil request")
	}
	requestType := reflect.TypeOf(request)

	m.mu.RLock()
	handler, found := m.handlers[requestType]
	chain := append([]Middleware(nil), m.middlewares...)
	m.mu.RUnlock()

	if !found {
		return nil, fmt.Errorf("send %s: no handler registered", requestType)
	}
	return wrap(handler.Handle, chain)(ctx, request)
}

func wrap(final HandlerFunc, chain []Middleware) HandlerFunc {
	next := final
	for i := len(chain) - 1; i >= 0; i-- {
		mw, inner := chain[i], next
		next = func(ctx context.Context, request Request) (Response, error) {
			return mw(ctx, request, inner)
		}
	}
	return next
}

// RegisterHandler infers the request type from T:
//
//	mediator.RegisterHandler[*actions.UpgradeBuildingCommand](m, handler)
func RegisterHandler[T Request](m Mediator, handler RequestHandler) error {
	return m.Register(reflect.TypeOf((*T)(nil)).Elem(), handler)
}

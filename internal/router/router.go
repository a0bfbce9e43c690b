// Package router dispatches each turn to the first handler that claims
// it. Ordering is load-bearing: handlers that intercept generic yes/no
// or ordinal turns while a specific pending state exists must sit ahead
// of every generic consumer of the same intents, so priorities are
// explicit numbers and duplicates are rejected at registration.
package router

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"sort"
	"strings"

	"github.com/TinyShaft22/our-kitchen-sub001/internal/models"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/speech"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/state"
)

// Handler is one entry in the chain. CanHandle must be pure: no side
// effects, no external calls.
type Handler interface {
	Name() string
	CanHandle(req *models.TurnRequest, session *state.Session) bool
	Handle(ctx context.Context, req *models.TurnRequest, session *state.Session) (*models.TurnResponse, error)
}

type entry struct {
	priority int
	handler  Handler
}

// Router evaluates the ordered chain and runs exactly one handler.
type Router struct {
	chain []entry
}

// New creates an empty router.
func New() *Router {
	return &Router{}
}

// Register adds a handler at an explicit priority (lower runs first).
// Registering two handlers at the same priority is a wiring defect and
// fails immediately.
func (r *Router) Register(priority int, h Handler) error {
	for _, e := range r.chain {
		if e.priority == priority {
			return fmt.Errorf("priority %d already taken by %s, cannot register %s",
				priority, e.handler.Name(), h.Name())
		}
	}
	r.chain = append(r.chain, entry{priority: priority, handler: h})
	sort.SliceStable(r.chain, func(i, j int) bool {
		return r.chain[i].priority < r.chain[j].priority
	})
	return nil
}

// MustRegister is Register for wiring code that treats a collision as a
// programming error.
func (r *Router) MustRegister(priority int, h Handler) {
	if err := r.Register(priority, h); err != nil {
		panic(err)
	}
}

// Dispatch runs the first handler whose predicate claims the turn. Any
// error or panic from the selected handler is converted into one of two
// canned apologies; raw errors never reach the platform.
func (r *Router) Dispatch(ctx context.Context, req *models.TurnRequest, session *state.Session) *models.TurnResponse {
	for _, e := range r.chain {
		if !e.handler.CanHandle(req, session) {
			continue
		}

		resp, err := r.safeHandle(ctx, e.handler, req, session)
		if err != nil {
			log.Printf("handler %s failed: %v", e.handler.Name(), err)
			return apology(err)
		}
		return resp
	}

	// The fallback handler always matches; reaching here means the
	// chain was wired without one.
	log.Printf("no handler matched turn kind=%s intent=%s", req.Kind, req.Intent)
	return &models.TurnResponse{
		Speech:   speech.LineFallback(),
		Reprompt: speech.LineFallbackReprompt(),
	}
}

func (r *Router) safeHandle(ctx context.Context, h Handler, req *models.TurnRequest, session *state.Session) (resp *models.TurnResponse, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic in handler %s: %v", h.Name(), rec)
		}
	}()
	return h.Handle(ctx, req, session)
}

func apology(err error) *models.TurnResponse {
	line := speech.LineGenericApology()
	if isNetworkError(err) {
		line = speech.LineNetworkApology()
	}
	return &models.TurnResponse{
		Speech:   line,
		Reprompt: speech.LineFallbackReprompt(),
	}
}

// isNetworkError decides between the network-flavored and the generic
// apology.
func isNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := err.Error()
	for _, marker := range []string{"timeout", "deadline exceeded", "connection refused", "no such host"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

package flows

import (
	"github.com/TinyShaft22/our-kitchen-sub001/internal/router"
)

// Chain priorities. The gaps are deliberate room for new handlers; the
// relative order is a correctness invariant. Every flow that intercepts
// generic yes/no or ordinal turns on the strength of a pending state
// (linking, disambiguation, grocery-confirm, resume-confirm) sits ahead
// of the generic consumers of those same intents (cooking, meals,
// grocery), otherwise a generic handler swallows the follow-up turn.
const (
	prioSessionEnded   = 10
	prioLaunch         = 20
	prioStop           = 30
	prioHelp           = 40
	prioLinking        = 50
	prioDisambiguation = 60
	prioGroceryConfirm = 70
	prioResumeConfirm  = 80
	prioCooking        = 90
	prioMeals          = 100
	prioGrocery        = 110
	prioFallback       = 1000
)

// Register wires every dialogue handler into the router at its
// priority. It returns the router's error on a priority collision.
func Register(r *router.Router, deps *Deps) error {
	entries := []struct {
		priority int
		handler  router.Handler
	}{
		{prioSessionEnded, NewSessionEndedHandler()},
		{prioLaunch, NewLaunchHandler()},
		{prioStop, NewStopHandler()},
		{prioHelp, NewHelpHandler()},
		{prioLinking, NewLinkingFlow(deps)},
		{prioDisambiguation, NewDisambiguationFlow(deps)},
		{prioGroceryConfirm, NewGroceryConfirmFlow(deps)},
		{prioResumeConfirm, NewResumeConfirmFlow(deps)},
		{prioCooking, NewCookingFlow(deps)},
		{prioMeals, NewMealsFlow(deps)},
		{prioGrocery, NewGroceryFlow(deps)},
		{prioFallback, NewFallbackHandler()},
	}

	for _, e := range entries {
		if err := r.Register(e.priority, e.handler); err != nil {
			return err
		}
	}
	return nil
}

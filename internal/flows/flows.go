// Package flows holds the dialogue handlers registered into the turn
// router: household linking, cooking navigation, disambiguation and
// confirmation, meal browsing and grocery management.
package flows

import (
	"time"

	"github.com/TinyShaft22/our-kitchen-sub001/internal/extractor"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/models"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/pantry"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/speech"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/state"
)

// Deps are the collaborators shared by all flows. Now is swappable in
// tests.
type Deps struct {
	Pantry         pantry.Service
	Extractor      extractor.Extractor
	UndoWindow     time.Duration
	MaxPinAttempts int
	Now            func() time.Time
}

// NewDeps fills in defaults for optional fields.
func NewDeps(svc pantry.Service, ext extractor.Extractor) *Deps {
	return &Deps{
		Pantry:         svc,
		Extractor:      ext,
		UndoWindow:     60 * time.Second,
		MaxPinAttempts: 3,
		Now:            time.Now,
	}
}

// requireLink is the single linking entry point for flows that need a
// household. When the device is unlinked it records the interrupted
// action, enters PIN collection, and returns the prompt the caller must
// hand back unchanged.
func (d *Deps) requireLink(req *models.TurnRequest, session *state.Session, actionName string) (*models.TurnResponse, bool) {
	if session.Linked {
		return nil, true
	}

	params := make(map[string]string)
	for name, slot := range req.Slots {
		if v := slot.Value(); v != "" {
			params[name] = v
		}
	}
	session.PendingAction = &state.PendingAction{Name: actionName, Params: params}
	session.AwaitingPin = true

	return &models.TurnResponse{
		Speech:   speech.LineAskPin(),
		Reprompt: speech.LineAskPinAgain(),
	}, false
}

func isIntent(req *models.TurnRequest, names ...string) bool {
	if req.Kind != models.KindIntent {
		return false
	}
	for _, n := range names {
		if req.Intent == n {
			return true
		}
	}
	return false
}

func isEvent(req *models.TurnRequest, name string) bool {
	return req.Kind == models.KindEvent && len(req.EventArgs) > 0 && req.EventArgs[0] == name
}

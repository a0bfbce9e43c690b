package flows

import (
	"context"
	"fmt"

	"github.com/TinyShaft22/our-kitchen-sub001/internal/models"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/speech"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/state"
)

// LinkingFlow drives the Unlinked → AwaitingPin → Linked state machine.
// While a PIN is awaited it claims every turn except the global
// stop/cancel/help handlers, which are registered ahead of it.
type LinkingFlow struct {
	*Deps
}

func NewLinkingFlow(deps *Deps) *LinkingFlow {
	return &LinkingFlow{Deps: deps}
}

func (f *LinkingFlow) Name() string { return "linking" }

func (f *LinkingFlow) CanHandle(req *models.TurnRequest, session *state.Session) bool {
	if session.AwaitingPin && req.Kind == models.KindIntent {
		return true
	}
	return isIntent(req, models.IntentLinkHousehold, models.IntentProvidePin)
}

func (f *LinkingFlow) Handle(ctx context.Context, req *models.TurnRequest, session *state.Session) (*models.TurnResponse, error) {
	if session.Linked && !session.AwaitingPin {
		return &models.TurnResponse{
			Speech:   speech.LineAlreadyLinked(),
			Reprompt: speech.LineHelp(),
		}, nil
	}

	// Explicit "link my device" entry with no PIN yet.
	if !session.AwaitingPin && req.SlotValue(models.SlotPin) == "" {
		session.AwaitingPin = true
		return &models.TurnResponse{
			Speech:   speech.LineAskPin(),
			Reprompt: speech.LineAskPinAgain(),
		}, nil
	}

	pin := req.SlotValue(models.SlotPin)
	if pin == "" {
		// PIN-collection turn without a PIN value: re-prompt, no
		// state change.
		return &models.TurnResponse{
			Speech:   speech.LineAskPinAgain(),
			Reprompt: speech.LineAskPinAgain(),
		}, nil
	}

	result, err := f.Pantry.VerifyPin(ctx, pin)
	if err != nil {
		return nil, fmt.Errorf("verifying pin: %w", err)
	}

	if !result.Valid {
		session.PinAttempts++
		if session.PinAttempts >= f.MaxPinAttempts {
			session.PinAttempts = 0
			session.AwaitingPin = false
			session.PendingAction = nil
			return &models.TurnResponse{
				Speech:   speech.LineLinkGiveUp(),
				Reprompt: speech.LineFallbackReprompt(),
			}, nil
		}
		return &models.TurnResponse{
			Speech:   speech.LinePinInvalid(f.MaxPinAttempts - session.PinAttempts),
			Reprompt: speech.LineAskPinAgain(),
		}, nil
	}

	session.SetHouseholdCode(result.HouseholdCode, f.Now())
	session.AwaitingPin = false
	session.PinAttempts = 0

	line := speech.LineLinked() + " " + speech.LineHelp()
	if pending := session.PendingAction; pending != nil {
		session.PendingAction = nil
		line = speech.LineLinkedContinuation(pending.Name)
	}

	return &models.TurnResponse{
		Speech:   line,
		Reprompt: speech.LineWelcomeReprompt(),
	}, nil
}

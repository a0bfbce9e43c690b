package flows

import (
	"context"

	"github.com/TinyShaft22/our-kitchen-sub001/internal/models"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/speech"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/state"
)

// HelpHandler answers the builtin help intent.
type HelpHandler struct{}

func NewHelpHandler() *HelpHandler { return &HelpHandler{} }

func (h *HelpHandler) Name() string { return "help" }

func (h *HelpHandler) CanHandle(req *models.TurnRequest, _ *state.Session) bool {
	return isIntent(req, models.IntentHelp)
}

func (h *HelpHandler) Handle(_ context.Context, _ *models.TurnRequest, _ *state.Session) (*models.TurnResponse, error) {
	return &models.TurnResponse{
		Speech:   speech.LineHelp(),
		Reprompt: speech.LineWelcomeReprompt(),
	}, nil
}

// StopHandler ends the session on stop or cancel.
type StopHandler struct{}

func NewStopHandler() *StopHandler { return &StopHandler{} }

func (h *StopHandler) Name() string { return "stop" }

func (h *StopHandler) CanHandle(req *models.TurnRequest, _ *state.Session) bool {
	return isIntent(req, models.IntentStop, models.IntentCancel)
}

func (h *StopHandler) Handle(_ context.Context, _ *models.TurnRequest, _ *state.Session) (*models.TurnResponse, error) {
	return &models.TurnResponse{
		Speech:     speech.LineGoodbye(),
		EndSession: true,
	}, nil
}

// FallbackHandler always matches. It must be registered last.
type FallbackHandler struct{}

func NewFallbackHandler() *FallbackHandler { return &FallbackHandler{} }

func (h *FallbackHandler) Name() string { return "fallback" }

func (h *FallbackHandler) CanHandle(_ *models.TurnRequest, _ *state.Session) bool {
	return true
}

func (h *FallbackHandler) Handle(_ context.Context, _ *models.TurnRequest, _ *state.Session) (*models.TurnResponse, error) {
	return &models.TurnResponse{
		Speech:   speech.LineFallback() + " " + speech.LineHelp(),
		Reprompt: speech.LineFallbackReprompt(),
	}, nil
}

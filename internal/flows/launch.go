package flows

import (
	"context"

	"github.com/TinyShaft22/our-kitchen-sub001/internal/models"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/speech"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/state"
)

// LaunchHandler greets the user. When a fresh durable cooking bookmark
// was staged during hydration it leads with the resume offer instead.
type LaunchHandler struct{}

func NewLaunchHandler() *LaunchHandler { return &LaunchHandler{} }

func (h *LaunchHandler) Name() string { return "launch" }

func (h *LaunchHandler) CanHandle(req *models.TurnRequest, _ *state.Session) bool {
	return req.Kind == models.KindLaunch
}

func (h *LaunchHandler) Handle(_ context.Context, _ *models.TurnRequest, session *state.Session) (*models.TurnResponse, error) {
	if p := session.PendingResume; p != nil {
		return &models.TurnResponse{
			Speech:   speech.LineResumeOffer(p),
			Reprompt: speech.LineYesNoConfused(),
		}, nil
	}
	return &models.TurnResponse{
		Speech:   speech.LineWelcome(),
		Reprompt: speech.LineWelcomeReprompt(),
	}, nil
}

// SessionEndedHandler acknowledges the platform's end-of-session signal.
// The transport clears the session record; the response is never spoken.
type SessionEndedHandler struct{}

func NewSessionEndedHandler() *SessionEndedHandler { return &SessionEndedHandler{} }

func (h *SessionEndedHandler) Name() string { return "session-ended" }

func (h *SessionEndedHandler) CanHandle(req *models.TurnRequest, _ *state.Session) bool {
	return req.Kind == models.KindSessionEnded
}

func (h *SessionEndedHandler) Handle(_ context.Context, _ *models.TurnRequest, _ *state.Session) (*models.TurnResponse, error) {
	return &models.TurnResponse{EndSession: true}, nil
}

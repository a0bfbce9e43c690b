package router

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TinyShaft22/our-kitchen-sub001/internal/models"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/speech"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/state"
)

type stubHandler struct {
	name    string
	matches func(*models.TurnRequest, *state.Session) bool
	handle  func(context.Context, *models.TurnRequest, *state.Session) (*models.TurnResponse, error)
	called  int
}

func (s *stubHandler) Name() string { return s.name }

func (s *stubHandler) CanHandle(req *models.TurnRequest, session *state.Session) bool {
	return s.matches(req, session)
}

func (s *stubHandler) Handle(ctx context.Context, req *models.TurnRequest, session *state.Session) (*models.TurnResponse, error) {
	s.called++
	if s.handle != nil {
		return s.handle(ctx, req, session)
	}
	return &models.TurnResponse{Speech: s.name}, nil
}

func always(*models.TurnRequest, *state.Session) bool { return true }
func never(*models.TurnRequest, *state.Session) bool  { return false }

func TestDispatchRunsOnlyFirstMatch(t *testing.T) {
	first := &stubHandler{name: "first", matches: always}
	second := &stubHandler{name: "second", matches: always}
	skipped := &stubHandler{name: "skipped", matches: never}

	r := New()
	require.NoError(t, r.Register(10, skipped))
	require.NoError(t, r.Register(20, first))
	require.NoError(t, r.Register(30, second))

	resp := r.Dispatch(context.Background(), &models.TurnRequest{Kind: models.KindIntent}, &state.Session{})

	assert.Equal(t, "first", resp.Speech)
	assert.Equal(t, 1, first.called)
	assert.Equal(t, 0, second.called)
	assert.Equal(t, 0, skipped.called)
}

func TestRegisterRejectsDuplicatePriority(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(10, &stubHandler{name: "a", matches: never}))

	err := r.Register(10, &stubHandler{name: "b", matches: never})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "priority 10")
}

func TestRegistrationOrderDoesNotBeatPriority(t *testing.T) {
	late := &stubHandler{name: "late-low-priority", matches: always}
	early := &stubHandler{name: "early-high-priority", matches: always}

	r := New()
	require.NoError(t, r.Register(50, early))
	require.NoError(t, r.Register(5, late))

	resp := r.Dispatch(context.Background(), &models.TurnRequest{}, &state.Session{})
	assert.Equal(t, "late-low-priority", resp.Speech)
}

func TestDispatchMapsTimeoutToNetworkApology(t *testing.T) {
	failing := &stubHandler{
		name:    "failing",
		matches: always,
		handle: func(context.Context, *models.TurnRequest, *state.Session) (*models.TurnResponse, error) {
			return nil, errors.New("Post \"https://pantry\": context deadline exceeded")
		},
	}

	r := New()
	require.NoError(t, r.Register(10, failing))

	resp := r.Dispatch(context.Background(), &models.TurnRequest{}, &state.Session{})
	assert.Equal(t, speech.LineNetworkApology(), resp.Speech)
	assert.NotEmpty(t, resp.Reprompt)
}

func TestDispatchMapsOtherErrorsToGenericApology(t *testing.T) {
	failing := &stubHandler{
		name:    "failing",
		matches: always,
		handle: func(context.Context, *models.TurnRequest, *state.Session) (*models.TurnResponse, error) {
			return nil, errors.New("json: cannot unmarshal")
		},
	}

	r := New()
	require.NoError(t, r.Register(10, failing))

	resp := r.Dispatch(context.Background(), &models.TurnRequest{}, &state.Session{})
	assert.Equal(t, speech.LineGenericApology(), resp.Speech)
}

func TestDispatchRecoversFromPanic(t *testing.T) {
	panicking := &stubHandler{
		name:    "panicking",
		matches: always,
		handle: func(context.Context, *models.TurnRequest, *state.Session) (*models.TurnResponse, error) {
			var steps []int
			_ = steps[3] // out of range
			return nil, nil
		},
	}

	r := New()
	require.NoError(t, r.Register(10, panicking))

	resp := r.Dispatch(context.Background(), &models.TurnRequest{}, &state.Session{})
	require.NotNil(t, resp)
	assert.Equal(t, speech.LineGenericApology(), resp.Speech)
}

func TestDispatchWithoutFallbackStillAnswers(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(10, &stubHandler{name: "a", matches: never}))

	resp := r.Dispatch(context.Background(), &models.TurnRequest{Kind: models.KindIntent}, &state.Session{})
	require.NotNil(t, resp)
	assert.Equal(t, speech.LineFallback(), resp.Speech)
}

func TestIsNetworkError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{context.DeadlineExceeded, true},
		{errors.New("dial tcp: connection refused"), true},
		{errors.New("client timeout exceeded"), true},
		{errors.New("lookup pantry: no such host"), true},
		{errors.New("invalid character '<'"), false},
		{errors.New("something else entirely"), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isNetworkError(tt.err), "err=%v", tt.err)
	}
}

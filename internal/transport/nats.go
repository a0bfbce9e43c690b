// Package transport receives turn requests from the conversational
// platform over NATS request/reply and runs the turn lifecycle around
// the router: hydrate, dispatch, flush, respond.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/TinyShaft22/our-kitchen-sub001/internal/config"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/flows"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/models"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/router"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/speech"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/state"
)

// NATSTransport subscribes to the turn subject and answers each message
// with exactly one response within the turn deadline.
type NATSTransport struct {
	conn    *nats.Conn
	config  *config.Config
	router  *router.Router
	manager *state.Manager
}

// NewNATSTransport connects to NATS.
func NewNATSTransport(cfg *config.Config, r *router.Router, manager *state.Manager) (*NATSTransport, error) {
	conn, err := nats.Connect(cfg.NatsURL,
		nats.Name(cfg.ServiceName),
		nats.Timeout(cfg.NatsTimeout),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1), // Infinite reconnects
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	log.Printf("Connected to NATS server: %s", cfg.NatsURL)

	return &NATSTransport{
		conn:    conn,
		config:  cfg,
		router:  r,
		manager: manager,
	}, nil
}

// Start subscribes to turn requests.
func (nt *NATSTransport) Start() error {
	_, err := nt.conn.Subscribe(nt.config.NatsTurnSubject, nt.handleTurn)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", nt.config.NatsTurnSubject, err)
	}

	log.Printf("Subscribed to subject: %s", nt.config.NatsTurnSubject)
	return nil
}

func (nt *NATSTransport) handleTurn(msg *nats.Msg) {
	turnID := uuid.NewString()[:8]

	var request models.TurnRequest
	if err := json.Unmarshal(msg.Data, &request); err != nil {
		log.Printf("[%s] error parsing turn request: %v", turnID, err)
		nt.respond(msg, turnID, &models.TurnResponse{
			Speech:   speech.LineGenericApology(),
			Reprompt: speech.LineFallbackReprompt(),
		})
		return
	}

	// Capability pre-checks are stateless by contract: no hydration,
	// no dispatch, no session writes.
	if request.Kind == models.KindCanFulfill {
		nt.respond(msg, turnID, flows.CanFulfill(&request))
		return
	}

	log.Printf("[%s] turn kind=%s intent=%s session=%s", turnID, request.Kind, request.Intent, request.SessionID)

	// The deadline sits below the platform's own turn budget so there
	// is margin left for response assembly.
	ctx, cancel := context.WithTimeout(context.Background(), nt.config.TurnDeadline)
	defer cancel()

	session := nt.manager.Hydrate(ctx, request.SessionID, request.DeviceID, request.NewSession)
	response := nt.router.Dispatch(ctx, &request, session)

	if request.Kind == models.KindSessionEnded {
		nt.manager.End(ctx, request.SessionID)
	} else {
		nt.manager.Flush(ctx, session)
	}

	nt.respond(msg, turnID, response)
}

func (nt *NATSTransport) respond(msg *nats.Msg, turnID string, response any) {
	data, err := json.Marshal(response)
	if err != nil {
		log.Printf("[%s] failed to marshal response: %v", turnID, err)
		return
	}
	if err := msg.Respond(data); err != nil {
		log.Printf("[%s] failed to send response: %v", turnID, err)
		return
	}
	log.Printf("[%s] response sent", turnID)
}

// Close closes the NATS connection.
func (nt *NATSTransport) Close() error {
	if nt.conn != nil {
		nt.conn.Close()
		log.Println("NATS connection closed")
	}
	return nil
}

package state

import (
	"context"
	"log"
	"time"
)

// Manager is the turn lifecycle interceptor pair around the router:
// Hydrate runs before dispatch, Flush after. Both degrade gracefully —
// a broken store never fails a turn.
type Manager struct {
	store        Store
	resumeWindow time.Duration

	// now is swappable in tests.
	now func() time.Time
}

// NewManager creates a lifecycle manager. resumeWindow bounds how old a
// durable cooking bookmark may be and still produce a resume offer.
func NewManager(store Store, resumeWindow time.Duration) *Manager {
	return &Manager{
		store:        store,
		resumeWindow: resumeWindow,
		now:          time.Now,
	}
}

// Hydrate loads or creates the session record for this turn and copies
// the durable device record into it. Load failures fail open: a broken
// store yields a fresh, unlinked session rather than a failed turn.
// When a session starts and a fresh durable cooking bookmark exists, a
// resume offer is staged on the session.
func (m *Manager) Hydrate(ctx context.Context, sessionID, deviceID string, newSession bool) *Session {
	fresh := false
	session, err := m.store.LoadSession(ctx, sessionID)
	if err != nil {
		if err != ErrNotFound {
			log.Printf("session load failed, starting fresh: %v", err)
		}
		session = &Session{}
		fresh = true
	}
	session.SessionID = sessionID
	session.DeviceID = deviceID

	durable, err := m.store.LoadDevice(ctx, deviceID)
	if err != nil {
		if err != ErrNotFound {
			log.Printf("device record load failed, treating as unlinked: %v", err)
		}
		durable = &Durable{}
	}
	session.Durable = *durable
	session.HouseholdCode = durable.HouseholdCode
	session.Linked = durable.HouseholdCode != ""

	if (newSession || fresh) && !session.CookingMode {
		if p := durable.CookingProgress; p != nil && m.withinResumeWindow(p.TimestampMs) {
			session.PendingResume = p
		}
	}

	return session
}

// Flush persists state after dispatch. The durable record is written at
// most once per turn and only when a handler marked it dirty; a write
// failure is logged and swallowed so it never changes the spoken
// response. The session record is then saved unconditionally.
func (m *Manager) Flush(ctx context.Context, session *Session) {
	if session.DurableDirty() {
		if err := m.store.SaveDevice(ctx, session.DeviceID, &session.Durable); err != nil {
			log.Printf("device record save failed (response unaffected): %v", err)
		}
		session.ClearDurableDirty()
	}

	if err := m.store.SaveSession(ctx, session); err != nil {
		log.Printf("session save failed (response unaffected): %v", err)
	}
}

// End removes the session record when the platform declares the session
// over. Failure is logged and swallowed.
func (m *Manager) End(ctx context.Context, sessionID string) {
	if err := m.store.ClearSession(ctx, sessionID); err != nil {
		log.Printf("session clear failed: %v", err)
	}
}

func (m *Manager) withinResumeWindow(timestampMs int64) bool {
	age := m.now().UnixMilli() - timestampMs
	return age >= 0 && age < m.resumeWindow.Milliseconds()
}

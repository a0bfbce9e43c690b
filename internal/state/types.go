// Package state holds the two tiers of conversational state: the
// per-conversation session record and the per-device durable record.
// The actual storage backend sits behind the Store interface so Redis
// can be swapped for an in-memory store in tests.
package state

import (
	"context"
	"errors"
	"time"

	"github.com/TinyShaft22/our-kitchen-sub001/internal/models"
	"github.com/TinyShaft22/our-kitchen-sub001/internal/steps"
)

// ErrNotFound is returned when a session or device record is absent.
var ErrNotFound = errors.New("not found")

// PendingAction records what the user was trying to do before a blocking
// precondition (linking) interrupted them.
type PendingAction struct {
	Name   string            `json:"name"`
	Params map[string]string `json:"params,omitempty"`
}

// AddedItem remembers the last grocery add so it can be undone within
// the undo window.
type AddedItem struct {
	Name        string `json:"name"`
	ID          string `json:"id"`
	TimestampMs int64  `json:"timestamp_ms"`
}

// PendingMarkAsLow holds an ambiguous mark-as-low match set awaiting a
// follow-up turn.
type PendingMarkAsLow struct {
	OriginalItem string             `json:"original_item"`
	Matches      []models.ItemMatch `json:"matches"`
}

// GrocerySuggestion is a staged "add this to the grocery list?" offer,
// from either the low-stock flow or the item-not-found flow.
type GrocerySuggestion struct {
	Name     string `json:"name"`
	Store    string `json:"store,omitempty"`
	Category string `json:"category,omitempty"`
	FromLow  bool   `json:"from_low"`
}

// CookingProgress is the durable cross-session cooking bookmark.
type CookingProgress struct {
	RecipeID    string `json:"recipe_id"`
	RecipeName  string `json:"recipe_name"`
	CurrentStep int    `json:"current_step"`
	TotalSteps  int    `json:"total_steps"`
	TimestampMs int64  `json:"timestamp_ms"`
}

// Durable is the per-device record. It survives across sessions until
// overwritten.
type Durable struct {
	HouseholdCode   string           `json:"household_code,omitempty"`
	LinkedAt        time.Time        `json:"linked_at,omitzero"`
	CookingProgress *CookingProgress `json:"cooking_progress,omitempty"`
}

// Session is the per-conversation record. It is created on the first
// turn of a session and dropped when the session ends or its TTL lapses.
// Durable fields are hydrated fresh each turn and are not part of the
// serialized session.
type Session struct {
	SessionID string `json:"session_id"`
	DeviceID  string `json:"device_id"`

	Linked        bool   `json:"linked"`
	HouseholdCode string `json:"household_code,omitempty"`
	AwaitingPin   bool   `json:"awaiting_pin,omitempty"`
	PinAttempts   int    `json:"pin_attempts,omitempty"`

	PendingAction *PendingAction `json:"pending_action,omitempty"`

	LastMealList  []models.Meal  `json:"last_meal_list,omitempty"`
	CurrentRecipe *models.Recipe `json:"current_recipe,omitempty"`

	CookingMode   bool           `json:"cooking_mode,omitempty"`
	CookingSteps  []steps.Step   `json:"cooking_steps,omitempty"`
	CookingStep   int            `json:"cooking_step,omitempty"`
	CookingRecipe *models.Recipe `json:"cooking_recipe,omitempty"`

	LastAddedItem    *AddedItem         `json:"last_added_item,omitempty"`
	PendingMarkAsLow *PendingMarkAsLow  `json:"pending_mark_as_low,omitempty"`
	PendingGrocery   *GrocerySuggestion `json:"pending_grocery,omitempty"`
	PendingResume    *CookingProgress   `json:"pending_resume,omitempty"`

	Durable      Durable `json:"-"`
	durableDirty bool
}

// SetHouseholdCode links the device: both tiers are updated and the
// durable record is marked for flush.
func (s *Session) SetHouseholdCode(code string, now time.Time) {
	s.HouseholdCode = code
	s.Linked = code != ""
	s.Durable.HouseholdCode = code
	s.Durable.LinkedAt = now
	s.durableDirty = true
}

// SetCookingProgress records the durable cooking bookmark.
func (s *Session) SetCookingProgress(p CookingProgress) {
	s.Durable.CookingProgress = &p
	s.durableDirty = true
}

// ClearCookingProgress drops the durable cooking bookmark. Clearing an
// already-empty bookmark is a no-op so double completion never triggers
// a redundant write.
func (s *Session) ClearCookingProgress() {
	if s.Durable.CookingProgress == nil {
		return
	}
	s.Durable.CookingProgress = nil
	s.durableDirty = true
}

// ClearCooking resets all session-tier cooking fields.
func (s *Session) ClearCooking() {
	s.CookingMode = false
	s.CookingSteps = nil
	s.CookingStep = 0
	s.CookingRecipe = nil
}

// DurableDirty reports whether the durable record needs a flush.
func (s *Session) DurableDirty() bool { return s.durableDirty }

// ClearDurableDirty resets the flush marker after a successful or
// abandoned write.
func (s *Session) ClearDurableDirty() { s.durableDirty = false }

// MarkDurableDirty forces a durable flush at the end of the turn.
func (s *Session) MarkDurableDirty() { s.durableDirty = true }

// Store is the storage backend for both state tiers.
type Store interface {
	// LoadSession returns the session record, or ErrNotFound.
	LoadSession(ctx context.Context, sessionID string) (*Session, error)

	// SaveSession persists the session record and refreshes its TTL.
	SaveSession(ctx context.Context, session *Session) error

	// ClearSession removes the session record.
	ClearSession(ctx context.Context, sessionID string) error

	// LoadDevice returns the durable device record, or ErrNotFound.
	LoadDevice(ctx context.Context, deviceID string) (*Durable, error)

	// SaveDevice persists the durable device record. No TTL.
	SaveDevice(ctx context.Context, deviceID string, durable *Durable) error
}

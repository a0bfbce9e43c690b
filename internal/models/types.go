package models

// Turn request kinds sent by the conversational platform.
const (
	KindLaunch       = "launch"
	KindIntent       = "intent"
	KindEvent        = "event"
	KindCanFulfill   = "can_fulfill"
	KindSessionEnded = "session_ended"
)

// Output capabilities a device can declare.
const (
	CapabilityDisplay = "display"
)

// Slot carries one slot value from the platform. RawValue is always the
// literal transcription; ResolvedValue is set only when the platform
// matched it against a known synonym.
type Slot struct {
	RawValue      string `json:"raw_value"`
	ResolvedValue string `json:"resolved_value,omitempty"`
}

// Value returns the resolved value when present, otherwise the raw one.
func (s Slot) Value() string {
	if s.ResolvedValue != "" {
		return s.ResolvedValue
	}
	return s.RawValue
}

// TurnRequest is one turn from the conversational platform. Kind selects
// which of the optional fields are meaningful. Immutable per turn.
type TurnRequest struct {
	Kind       string `json:"kind"`
	SessionID  string `json:"session_id"`
	DeviceID   string `json:"device_id"`
	NewSession bool   `json:"new_session"`

	// Intent turns.
	Intent string          `json:"intent,omitempty"`
	Slots  map[string]Slot `json:"slots,omitempty"`

	// Event turns (visual touch events): [eventName, arg...].
	EventArgs []string `json:"event_args,omitempty"`

	// Capability pre-check turns.
	QueryIntent string   `json:"query_intent,omitempty"`
	QuerySlots  []string `json:"query_slots,omitempty"`

	// Declared output capabilities of the requesting device.
	Capabilities []string `json:"capabilities,omitempty"`
}

// Slot returns the named slot and whether it was present.
func (r *TurnRequest) Slot(name string) (Slot, bool) {
	s, ok := r.Slots[name]
	return s, ok
}

// SlotValue returns the best value of the named slot, or "" if absent.
func (r *TurnRequest) SlotValue(name string) string {
	if s, ok := r.Slots[name]; ok {
		return s.Value()
	}
	return ""
}

// HasCapability reports whether the device declared the capability.
func (r *TurnRequest) HasCapability(name string) bool {
	for _, c := range r.Capabilities {
		if c == name {
			return true
		}
	}
	return false
}

// Directive asks the platform to render a named visual template with a
// datasource payload. The core only assembles it; rendering is external.
type Directive struct {
	Template    string         `json:"template"`
	Datasources map[string]any `json:"datasources"`
}

// TurnResponse is what the platform speaks and renders for one turn.
type TurnResponse struct {
	Speech     string     `json:"speech"`
	Reprompt   string     `json:"reprompt,omitempty"`
	Directive  *Directive `json:"directive,omitempty"`
	EndSession bool       `json:"end_session"`
}

// Capability pre-check answers.
const (
	AnswerYes   = "YES"
	AnswerNo    = "NO"
	AnswerMaybe = "MAYBE"
)

// SlotAnswer is the per-slot part of a capability pre-check answer.
type SlotAnswer struct {
	CanUnderstand string `json:"can_understand"`
	CanFulfill    string `json:"can_fulfill"`
}

// CanFulfillResponse answers a capability pre-check query. It is not a
// conversational turn: no speech, no state.
type CanFulfillResponse struct {
	CanFulfill string                `json:"can_fulfill"`
	Slots      map[string]SlotAnswer `json:"slots,omitempty"`
}

// Meal is a household meal entry owned by the pantry service.
type Meal struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Recipe is the full recipe for a meal, owned by the pantry service.
// Instructions are free text; the steps package turns them into
// discrete cooking steps.
type Recipe struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Servings     int      `json:"servings"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
}

// GroceryItem is one entry on the household grocery list.
type GroceryItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity string `json:"quantity,omitempty"`
	Store    string `json:"store,omitempty"`
	Category string `json:"category,omitempty"`
}

// ItemMatch is one candidate when an inventory reference is ambiguous.
type ItemMatch struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Package conversation implements the multi-step transaction-entry dialogue:
// pick a person, describe the transaction in free text, review the extracted
// candidate, then confirm, re-edit or cancel.
//
// Session state was a loose per-user key/value bag in earlier designs; here
// it is an explicit state machine so stale values cannot leak between flows.
package conversation

import (
	"errors"
	"fmt"

	"fiado/internal/models"
)

// State is the session's position in the transaction-entry flow.
type State int

const (
	// StateIdle means no flow is active. Committed and cancelled flows
	// both land here with every ephemeral field cleared, so re-entry
	// always starts fresh.
	StateIdle State = iota
	StateAwaitingPerson
	StateAwaitingDetails
	StateAwaitingConfirmation
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingPerson:
		return "awaiting_person"
	case StateAwaitingDetails:
		return "awaiting_details"
	case StateAwaitingConfirmation:
		return "awaiting_confirmation"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

var (
	// ErrNoPeople means a flow cannot start because nobody is registered.
	ErrNoPeople = errors.New("no people registered")
	// ErrInvalidState means the requested operation does not apply to the
	// session's current state.
	ErrInvalidState = errors.New("operation not valid in current state")
	// ErrSessionReset means the session was cancelled or restarted while
	// an extraction was in flight; the late result was discarded.
	ErrSessionReset = errors.New("session was reset during extraction")
)

// Session holds one user's ephemeral flow state. A session is exclusively
// owned by its user's dialogue; it is not shared across users.
type Session struct {
	state     State
	kind      models.Kind
	person    models.Person
	candidate *models.Candidate

	// epoch increments on every reset. An extraction started under an
	// older epoch is stale and its result must not be applied.
	epoch uint64
}

// NewSession returns an idle session.
func NewSession() *Session {
	return &Session{state: StateIdle}
}

// State returns the current flow state.
func (s *Session) State() State { return s.state }

// Kind returns the transaction kind of the active flow.
func (s *Session) Kind() models.Kind { return s.kind }

// Person returns the selected person of the active flow.
func (s *Session) Person() models.Person { return s.person }

// Candidate returns the pending candidate, or nil when none is staged.
// At most one candidate is live per session at any time.
func (s *Session) Candidate() *models.Candidate { return s.candidate }

// reset clears all ephemeral state and invalidates in-flight extractions.
func (s *Session) reset() {
	s.state = StateIdle
	s.kind = ""
	s.person = models.Person{}
	s.candidate = nil
	s.epoch++
}

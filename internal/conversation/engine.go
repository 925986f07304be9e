package conversation

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"fiado/internal/events"
	"fiado/internal/extractor"
	"fiado/internal/models"
	"fiado/internal/store"
)

var log = logrus.New()

// SetLogger sets the logger used by this package.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Engine drives sessions through the transaction-entry flow. It is shared
// across sessions and holds the collaborators; all per-flow state lives in
// the Session.
type Engine struct {
	store     store.LedgerStore
	extractor extractor.Extractor
	publisher events.Publisher
	now       func() time.Time
}

// NewEngine wires an engine. A nil publisher disables event emission.
func NewEngine(st store.LedgerStore, ex extractor.Extractor, pub events.Publisher) *Engine {
	if pub == nil {
		pub = events.Noop{}
	}
	return &Engine{
		store:     st,
		extractor: ex,
		publisher: pub,
		now:       time.Now,
	}
}

// Start begins a new flow of the given kind, discarding any flow already in
// progress. It returns the people the user can pick from; with nobody
// registered the flow does not start and ErrNoPeople is returned.
func (e *Engine) Start(ctx context.Context, s *Session, kind models.Kind) ([]models.Person, error) {
	s.reset()

	people, err := e.store.ListPeople(ctx)
	if err != nil {
		return nil, err
	}
	if len(people) == 0 {
		return nil, ErrNoPeople
	}

	s.state = StateAwaitingPerson
	s.kind = kind
	log.WithField("kind", kind).Debug("Conversation flow started")
	return people, nil
}

// SelectPerson binds the flow to a registered person. An unknown id keeps
// the session in AwaitingPerson so the user can pick again.
func (e *Engine) SelectPerson(ctx context.Context, s *Session, personID string) (models.Person, error) {
	if s.state != StateAwaitingPerson {
		return models.Person{}, ErrInvalidState
	}

	person, err := e.store.GetPerson(ctx, personID)
	if err != nil {
		return models.Person{}, err
	}

	s.person = person
	s.state = StateAwaitingDetails
	return person, nil
}

// SubmitDetails runs the user's free-text description through extraction and
// stages the resulting candidate for confirmation. On extraction failure the
// session stays in AwaitingDetails and nothing is stored. If the session was
// cancelled or restarted while the extraction was in flight, the late result
// is discarded and ErrSessionReset is returned.
func (e *Engine) SubmitDetails(ctx context.Context, s *Session, text string) (models.Candidate, error) {
	if s.state != StateAwaitingDetails {
		return models.Candidate{}, ErrInvalidState
	}

	epoch := s.epoch
	candidate, err := e.extractor.Extract(ctx, text, s.kind, e.now())

	if s.epoch != epoch {
		log.Info("Discarding extraction result for reset session")
		return models.Candidate{}, ErrSessionReset
	}
	if err != nil {
		log.WithError(err).Warn("Extraction failed, awaiting new details")
		return models.Candidate{}, err
	}

	s.candidate = &candidate
	s.state = StateAwaitingConfirmation
	return candidate, nil
}

// Confirm commits the staged candidate to the store, emits the recorded
// event and ends the flow. Exactly one transaction is written per confirmed
// flow. A store failure also ends the flow; nothing is retried.
func (e *Engine) Confirm(ctx context.Context, s *Session) (models.Transaction, error) {
	if s.state != StateAwaitingConfirmation || s.candidate == nil {
		return models.Transaction{}, ErrInvalidState
	}

	c := *s.candidate
	person := s.person

	var tx models.Transaction
	var err error
	switch c.Kind {
	case models.KindPayment:
		tx, err = e.store.AddPayment(ctx, person.ID, c.Amount, c.Date, c.Description)
	default:
		tx, err = e.store.AddLoan(ctx, person.ID, c.Amount, c.Date, c.Description)
	}
	s.reset()
	if err != nil {
		return models.Transaction{}, err
	}

	if pubErr := e.publisher.Publish(ctx, events.NewTransactionRecorded(tx, person)); pubErr != nil {
		log.WithError(pubErr).Warn("Failed to publish transaction event")
	}

	log.WithFields(logrus.Fields{
		"person": person.Name,
		"kind":   tx.Kind,
		"amount": tx.Amount.StringFixed(2),
		"date":   tx.Date,
	}).Info("Transaction recorded")
	return tx, nil
}

// EditAgain drops the staged candidate and returns to AwaitingDetails so the
// user can describe the transaction again.
func (e *Engine) EditAgain(s *Session) error {
	if s.state != StateAwaitingConfirmation {
		return ErrInvalidState
	}
	s.candidate = nil
	s.state = StateAwaitingDetails
	return nil
}

// Cancel aborts the flow from any state, clearing everything. Cancelling an
// idle session is a no-op.
func (e *Engine) Cancel(s *Session) {
	if s.state != StateIdle {
		log.WithField("state", s.state).Debug("Conversation flow cancelled")
	}
	s.reset()
}

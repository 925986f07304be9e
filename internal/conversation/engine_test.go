package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiado/internal/events"
	"fiado/internal/extracterror"
	"fiado/internal/models"
	"fiado/internal/store/memory"
)

// fakeExtractor delegates to a per-test function.
type fakeExtractor struct {
	fn func(ctx context.Context, text string, kind models.Kind, today time.Time) (models.Candidate, error)
}

func (f *fakeExtractor) Extract(ctx context.Context, text string, kind models.Kind, today time.Time) (models.Candidate, error) {
	return f.fn(ctx, text, kind, today)
}

// recordingPublisher captures emitted events.
type recordingPublisher struct {
	events []events.TransactionRecorded
}

func (p *recordingPublisher) Publish(_ context.Context, e events.TransactionRecorded) error {
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func staticCandidate(c models.Candidate) *fakeExtractor {
	return &fakeExtractor{fn: func(context.Context, string, models.Kind, time.Time) (models.Candidate, error) {
		return c, nil
	}}
}

func newTestStore(t *testing.T, names ...string) (*memory.Store, []models.Person) {
	t.Helper()
	st := memory.New()
	people := make([]models.Person, 0, len(names))
	for _, name := range names {
		p, err := st.AddPerson(context.Background(), name)
		require.NoError(t, err)
		people = append(people, p)
	}
	return st, people
}

func TestHappyPathRecordsExactlyOneLoan(t *testing.T) {
	ctx := context.Background()
	st, people := newTestStore(t, "Ana")
	ana := people[0]

	candidate := models.Candidate{
		Kind:        models.KindLoan,
		Amount:      decimal.NewFromInt(50),
		Date:        "2025-05-14",
		Description: "Almoco",
	}
	pub := &recordingPublisher{}
	engine := NewEngine(st, staticCandidate(candidate), pub)
	session := NewSession()

	listed, err := engine.Start(ctx, session, models.KindLoan)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
	assert.Equal(t, StateAwaitingPerson, session.State())

	_, err = engine.SelectPerson(ctx, session, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingDetails, session.State())

	got, err := engine.SubmitDetails(ctx, session, "50 pro almoco de ontem")
	require.NoError(t, err)
	assert.Equal(t, candidate, got)
	assert.Equal(t, StateAwaitingConfirmation, session.State())

	tx, err := engine.Confirm(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, models.KindLoan, tx.Kind)
	assert.Equal(t, "50", tx.Amount.String())
	assert.Equal(t, "2025-05-14", tx.Date)

	// terminal: session fully cleared
	assert.Equal(t, StateIdle, session.State())
	assert.Nil(t, session.Candidate())
	assert.Empty(t, session.Person().ID)

	loans, payments, err := st.GetTransactions(ctx, ana.ID)
	require.NoError(t, err)
	assert.Len(t, loans, 1)
	assert.Empty(t, payments)

	require.Len(t, pub.events, 1)
	assert.Equal(t, "Ana", pub.events[0].PersonName)
	assert.Equal(t, "50.00", pub.events[0].Amount)
}

func TestPaymentFlowUsesPaymentKind(t *testing.T) {
	ctx := context.Background()
	st, people := newTestStore(t, "Bruno")

	candidate := models.Candidate{
		Kind:        models.KindPayment,
		Amount:      decimal.NewFromInt(30),
		Date:        "2025-05-10",
		Description: "Pagamento",
	}
	engine := NewEngine(st, staticCandidate(candidate), nil)
	session := NewSession()

	_, err := engine.Start(ctx, session, models.KindPayment)
	require.NoError(t, err)
	_, err = engine.SelectPerson(ctx, session, people[0].ID)
	require.NoError(t, err)
	_, err = engine.SubmitDetails(ctx, session, "ele me pagou 30")
	require.NoError(t, err)
	_, err = engine.Confirm(ctx, session)
	require.NoError(t, err)

	loans, payments, err := st.GetTransactions(ctx, people[0].ID)
	require.NoError(t, err)
	assert.Empty(t, loans)
	assert.Len(t, payments, 1)
}

func TestExtractionFailureKeepsAwaitingDetails(t *testing.T) {
	ctx := context.Background()
	st, people := newTestStore(t, "Ana")

	failing := &fakeExtractor{fn: func(context.Context, string, models.Kind, time.Time) (models.Candidate, error) {
		return models.Candidate{}, extracterror.Malformed(errors.New("not json"))
	}}
	engine := NewEngine(st, failing, nil)
	session := NewSession()

	_, err := engine.Start(ctx, session, models.KindLoan)
	require.NoError(t, err)
	_, err = engine.SelectPerson(ctx, session, people[0].ID)
	require.NoError(t, err)

	_, err = engine.SubmitDetails(ctx, session, "blablabla")
	require.Error(t, err)
	ee, ok := extracterror.As(err)
	require.True(t, ok)
	assert.Equal(t, extracterror.StageDecode, ee.Stage)

	// user can try again from the same place; nothing was stored
	assert.Equal(t, StateAwaitingDetails, session.State())
	assert.Nil(t, session.Candidate())

	loans, payments, err := st.GetTransactions(ctx, people[0].ID)
	require.NoError(t, err)
	assert.Empty(t, loans)
	assert.Empty(t, payments)
}

func TestCancelDuringExtractionDiscardsResult(t *testing.T) {
	ctx := context.Background()
	st, people := newTestStore(t, "Ana")

	var engine *Engine
	var session *Session
	// the flow is cancelled while the backend call is still in flight
	racing := &fakeExtractor{fn: func(context.Context, string, models.Kind, time.Time) (models.Candidate, error) {
		engine.Cancel(session)
		return models.Candidate{
			Kind:   models.KindLoan,
			Amount: decimal.NewFromInt(99),
			Date:   "2025-05-14",
		}, nil
	}}
	engine = NewEngine(st, racing, nil)
	session = NewSession()

	_, err := engine.Start(ctx, session, models.KindLoan)
	require.NoError(t, err)
	_, err = engine.SelectPerson(ctx, session, people[0].ID)
	require.NoError(t, err)

	_, err = engine.SubmitDetails(ctx, session, "99 ontem")
	assert.ErrorIs(t, err, ErrSessionReset)
	assert.Equal(t, StateIdle, session.State())
	assert.Nil(t, session.Candidate())

	// a fresh flow never sees the discarded candidate
	_, err = engine.Start(ctx, session, models.KindPayment)
	require.NoError(t, err)
	assert.Nil(t, session.Candidate())
	assert.Equal(t, models.KindPayment, session.Kind())
}

func TestEditAgainDropsCandidate(t *testing.T) {
	ctx := context.Background()
	st, people := newTestStore(t, "Ana")

	first := models.Candidate{Kind: models.KindLoan, Amount: decimal.NewFromInt(10), Date: "2025-05-01", Description: "Emprestimo"}
	second := models.Candidate{Kind: models.KindLoan, Amount: decimal.NewFromInt(25), Date: "2025-05-02", Description: "Lanche"}
	results := []models.Candidate{first, second}
	ex := &fakeExtractor{fn: func(context.Context, string, models.Kind, time.Time) (models.Candidate, error) {
		c := results[0]
		results = results[1:]
		return c, nil
	}}

	engine := NewEngine(st, ex, nil)
	session := NewSession()

	_, err := engine.Start(ctx, session, models.KindLoan)
	require.NoError(t, err)
	_, err = engine.SelectPerson(ctx, session, people[0].ID)
	require.NoError(t, err)

	got, err := engine.SubmitDetails(ctx, session, "10 reais")
	require.NoError(t, err)
	assert.Equal(t, first, got)

	require.NoError(t, engine.EditAgain(session))
	assert.Equal(t, StateAwaitingDetails, session.State())
	assert.Nil(t, session.Candidate())

	got, err = engine.SubmitDetails(ctx, session, "na verdade foram 25 do lanche")
	require.NoError(t, err)
	assert.Equal(t, second, got)

	tx, err := engine.Confirm(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, "25", tx.Amount.String())
	assert.Equal(t, "Lanche", tx.Description)
}

func TestStartWithNoPeople(t *testing.T) {
	st, _ := newTestStore(t)
	engine := NewEngine(st, staticCandidate(models.Candidate{}), nil)
	session := NewSession()

	_, err := engine.Start(context.Background(), session, models.KindLoan)
	assert.ErrorIs(t, err, ErrNoPeople)
	assert.Equal(t, StateIdle, session.State())
}

func TestSelectUnknownPersonKeepsAwaitingPerson(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t, "Ana")
	engine := NewEngine(st, staticCandidate(models.Candidate{}), nil)
	session := NewSession()

	_, err := engine.Start(ctx, session, models.KindLoan)
	require.NoError(t, err)

	_, err = engine.SelectPerson(ctx, session, "nope")
	require.Error(t, err)
	assert.Equal(t, StateAwaitingPerson, session.State())
}

func TestOperationsRejectWrongState(t *testing.T) {
	ctx := context.Background()
	st, people := newTestStore(t, "Ana")
	engine := NewEngine(st, staticCandidate(models.Candidate{}), nil)
	session := NewSession()

	_, err := engine.SelectPerson(ctx, session, people[0].ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = engine.SubmitDetails(ctx, session, "50 ontem")
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = engine.Confirm(ctx, session)
	assert.ErrorIs(t, err, ErrInvalidState)

	assert.ErrorIs(t, engine.EditAgain(session), ErrInvalidState)
}

func TestStartDiscardsFlowInProgress(t *testing.T) {
	ctx := context.Background()
	st, people := newTestStore(t, "Ana")

	candidate := models.Candidate{Kind: models.KindLoan, Amount: decimal.NewFromInt(5), Date: "2025-05-01", Description: "Emprestimo"}
	engine := NewEngine(st, staticCandidate(candidate), nil)
	session := NewSession()

	_, err := engine.Start(ctx, session, models.KindLoan)
	require.NoError(t, err)
	_, err = engine.SelectPerson(ctx, session, people[0].ID)
	require.NoError(t, err)
	_, err = engine.SubmitDetails(ctx, session, "5 reais")
	require.NoError(t, err)
	require.NotNil(t, session.Candidate())

	_, err = engine.Start(ctx, session, models.KindPayment)
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingPerson, session.State())
	assert.Equal(t, models.KindPayment, session.Kind())
	assert.Nil(t, session.Candidate())
	assert.Empty(t, session.Person().ID)
}

package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"fiado/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempLedger(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "ledger.yaml")
}

func TestOpenMissingFileStartsEmpty(t *testing.T) {
	s, err := Open(tempLedger(t))
	require.NoError(t, err)

	people, err := s.ListPeople(context.Background())
	require.NoError(t, err)
	assert.Empty(t, people)
}

func TestOpenRejectsCorruptFile(t *testing.T) {
	path := tempLedger(t)
	require.NoError(t, os.WriteFile(path, []byte("{not yaml::"), 0644))

	_, err := Open(path)
	assert.Error(t, err)
}

func TestDataSurvivesReopen(t *testing.T) {
	path := tempLedger(t)
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)

	ana, err := s.AddPerson(ctx, "Ana")
	require.NoError(t, err)
	loan, err := s.AddLoan(ctx, ana.ID, decimal.NewFromFloat(150.50), "2025-05-14", "almoco")
	require.NoError(t, err)
	_, err = s.AddPayment(ctx, ana.ID, decimal.NewFromInt(50), "2025-05-15", "parcial")
	require.NoError(t, err)

	reopened, err := Open(path)
	require.NoError(t, err)

	got, err := reopened.GetPerson(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)

	loans, payments, err := reopened.GetTransactions(ctx, ana.ID)
	require.NoError(t, err)
	require.Len(t, loans, 1)
	require.Len(t, payments, 1)
	assert.Equal(t, loan.ID, loans[0].ID)
	assert.True(t, loans[0].Amount.Equal(decimal.NewFromFloat(150.50)))
	assert.Equal(t, "2025-05-14", loans[0].Date)

	// seq keeps growing after reopen
	extra, err := reopened.AddLoan(ctx, ana.ID, decimal.NewFromInt(5), "2025-05-16", "")
	require.NoError(t, err)
	assert.Greater(t, extra.Seq, payments[0].Seq)
}

func TestFileStoreValidation(t *testing.T) {
	s, err := Open(tempLedger(t))
	require.NoError(t, err)
	ctx := context.Background()

	ana, err := s.AddPerson(ctx, "Ana")
	require.NoError(t, err)

	_, err = s.AddPerson(ctx, "Ana")
	assert.ErrorIs(t, err, store.ErrDuplicateName)

	_, err = s.AddLoan(ctx, ana.ID, decimal.NewFromInt(10), "14/05/2025", "")
	assert.ErrorIs(t, err, store.ErrInvalidDate)

	_, err = s.AddPayment(ctx, ana.ID, decimal.Zero, "2025-05-14", "")
	assert.ErrorIs(t, err, store.ErrInvalidAmount)

	_, err = s.AddLoan(ctx, "missing", decimal.NewFromInt(10), "2025-05-14", "")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRemovePersonCascadesAndPersists(t *testing.T) {
	path := tempLedger(t)
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)

	ana, err := s.AddPerson(ctx, "Ana")
	require.NoError(t, err)
	bruno, err := s.AddPerson(ctx, "Bruno")
	require.NoError(t, err)
	_, err = s.AddLoan(ctx, ana.ID, decimal.NewFromInt(10), "2025-05-10", "")
	require.NoError(t, err)

	require.NoError(t, s.RemovePerson(ctx, ana.ID))

	reopened, err := Open(path)
	require.NoError(t, err)

	_, err = reopened.GetPerson(ctx, ana.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	people, err := reopened.ListPeople(ctx)
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, bruno.ID, people[0].ID)
}

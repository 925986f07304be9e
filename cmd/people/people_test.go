package people_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiado/cmd/people"
	"fiado/cmd/root"
	"fiado/internal/store/memory"
)

func withMemoryStore(t *testing.T) *memory.Store {
	t.Helper()
	st := memory.New()
	orig := root.Ledger
	root.Ledger = st
	t.Cleanup(func() { root.Ledger = orig })
	return st
}

func runPeople(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	people.Cmd.SetOut(&buf)
	people.Cmd.SetErr(&buf)
	people.Cmd.SetArgs(args)
	err := people.Cmd.Execute()
	return buf.String(), err
}

func TestAddAndList(t *testing.T) {
	st := withMemoryStore(t)

	_, err := runPeople(t, "add", "Ana")
	require.NoError(t, err)
	_, err = runPeople(t, "add", "Bruno")
	require.NoError(t, err)

	out, err := runPeople(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "- Ana")
	assert.Contains(t, out, "- Bruno")

	stored, err := st.ListPeople(t.Context())
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestListEmpty(t *testing.T) {
	withMemoryStore(t)

	out, err := runPeople(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Nenhuma pessoa cadastrada.")
}

func TestAddRejectsShortName(t *testing.T) {
	withMemoryStore(t)

	_, err := runPeople(t, "add", "Jo")
	assert.Error(t, err)
}

func TestRename(t *testing.T) {
	st := withMemoryStore(t)
	_, err := st.AddPerson(t.Context(), "Ana")
	require.NoError(t, err)

	_, err = runPeople(t, "rename", "Ana", "Ana Clara")
	require.NoError(t, err)

	stored, err := st.ListPeople(t.Context())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Ana Clara", stored[0].Name)
}

func TestRemoveUnknownPerson(t *testing.T) {
	withMemoryStore(t)

	_, err := runPeople(t, "remove", "Fantasma")
	assert.Error(t, err)
}

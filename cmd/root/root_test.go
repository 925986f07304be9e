package root_test

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiado/cmd/root"
	"fiado/internal/store/memory"
)

func TestRootCommandMetadata(t *testing.T) {
	assert.Equal(t, "fiado", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "loans and payments")
	assert.NotNil(t, root.Cmd.Run)
	assert.NotNil(t, root.Cmd.PersistentPreRunE)
	assert.NotNil(t, root.Cmd.PersistentPostRun)
}

func TestGlobalVariablesInitialization(t *testing.T) {
	assert.NotNil(t, root.Log)
	assert.NotNil(t, root.Cmd)
	assert.NotNil(t, root.Publisher)
}

func TestFindPersonByName(t *testing.T) {
	st := memory.New()
	p, err := st.AddPerson(t.Context(), "Ana")
	require.NoError(t, err)

	orig := root.Ledger
	root.Ledger = st
	defer func() { root.Ledger = orig }()

	cmd := &cobra.Command{}

	id, err := root.FindPersonByName(cmd, "Ana")
	require.NoError(t, err)
	assert.Equal(t, p.ID, id)

	_, err = root.FindPersonByName(cmd, "Bruno")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bruno")
}

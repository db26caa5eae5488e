package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot_EnvFileSeCargaAntesDeLaConfiguracion(t *testing.T) {
	require.NoError(t, os.Unsetenv("STORAGE_DRIVER"))
	t.Cleanup(func() { _ = os.Unsetenv("STORAGE_DRIVER") })

	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("STORAGE_DRIVER=memory\n"), 0o600))

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--env-file", envFile, "ledger", "show", "cliente-1"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_DRIVER=postgres")
}

func TestRoot_EnvFileInexistente(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"--env-file", filepath.Join(t.TempDir(), "no-existe.env"), "sales", "mark-overdue"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-existe.env")
}

func TestRoot_ReconcileExigeCliente(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"ledger", "reconcile"})

	assert.Error(t, root.Execute())
}

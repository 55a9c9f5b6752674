package shell_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depstrap/depstrap/internal/adapters/shell"
	"github.com/depstrap/depstrap/internal/core/domain"
)

func TestExecute_CapturesOutput(t *testing.T) {
	e := shell.NewExecutor(nil)

	var out, errOut bytes.Buffer
	cmd := &domain.Command{Argv: []string{"echo", "hello world"}}

	err := e.Execute(context.Background(), cmd, nil, &out, &errOut)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "hello world")
}

func TestExecute_NonZeroExit(t *testing.T) {
	e := shell.NewExecutor(nil)

	var out bytes.Buffer
	cmd := &domain.Command{Argv: []string{"sh", "-c", "exit 3"}}

	err := e.Execute(context.Background(), cmd, nil, &out, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "command failed")
}

func TestExecute_ExplicitEnvIsVisible(t *testing.T) {
	e := shell.NewExecutor(nil)

	var out bytes.Buffer
	cmd := &domain.Command{Argv: []string{"sh", "-c", "echo $PETSC_DIR"}}

	err := e.Execute(context.Background(), cmd, []string{"PETSC_DIR=/cache/petsc"}, &out, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "/cache/petsc")
}

func TestExecute_AmbientEnvIsNotInherited(t *testing.T) {
	t.Setenv("DEPSTRAP_LEAK_CHECK", "leaked")

	e := shell.NewExecutor(nil)

	var out bytes.Buffer
	cmd := &domain.Command{Argv: []string{"sh", "-c", "echo value=$DEPSTRAP_LEAK_CHECK"}}

	err := e.Execute(context.Background(), cmd, nil, &out, &out)
	require.NoError(t, err)
	assert.NotContains(t, out.String(), "leaked")
}

func TestExecute_RunsInWorkingDirectory(t *testing.T) {
	e := shell.NewExecutor(nil)

	dir := t.TempDir()
	var out bytes.Buffer
	cmd := &domain.Command{Argv: []string{"pwd"}, Dir: dir}

	err := e.Execute(context.Background(), cmd, nil, &out, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), filepath.Base(dir))
}

func TestExecute_EmptyCommand(t *testing.T) {
	e := shell.NewExecutor(nil)

	err := e.Execute(context.Background(), &domain.Command{}, nil, nil, nil)
	assert.NoError(t, err)
}

func TestExecute_CanceledContext(t *testing.T) {
	e := shell.NewExecutor(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	cmd := &domain.Command{Argv: []string{"sleep", "10"}}

	err := e.Execute(ctx, cmd, nil, &out, &out)
	assert.Error(t, err)
}

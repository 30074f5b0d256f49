package status

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalPublishConsume(t *testing.T) {
	var s Signal

	s.Publish(4)
	code, err := s.Consume()
	require.NoError(t, err)
	assert.Equal(t, 4, code)

	_, err = s.Consume()
	assert.True(t, errors.Is(err, ErrMissingSignal), "second consume should report a missing signal")
}

func TestSignalPublishOverwrites(t *testing.T) {
	var s Signal
	s.Publish(1)
	s.Publish(0)

	code, err := s.Consume()
	require.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestSignalReset(t *testing.T) {
	var s Signal
	s.Publish(1)
	s.Reset()

	_, err := s.Consume()
	assert.ErrorIs(t, err, ErrMissingSignal)
}

func TestExitPublishesWhenSuppressed(t *testing.T) {
	t.Setenv(SuppressExitEnvVar, "true")
	Default().Reset()

	oldExit := osExit
	defer func() { osExit = oldExit }()
	osExit = func(code int) {
		t.Fatalf("osExit called with %d in suppress-exit mode", code)
	}

	Exit(1)

	code, err := Consume()
	require.NoError(t, err)
	assert.Equal(t, 1, code)
}

func TestExitTerminatesWhenNotSuppressed(t *testing.T) {
	t.Setenv(SuppressExitEnvVar, "")
	Default().Reset()

	oldExit := osExit
	defer func() { osExit = oldExit }()

	exitCode := -1
	osExit = func(code int) { exitCode = code }

	Exit(4)

	assert.Equal(t, 4, exitCode)
	_, err := Consume()
	assert.ErrorIs(t, err, ErrMissingSignal)
}

func TestEnableSuppressExit(t *testing.T) {
	t.Setenv(SuppressExitEnvVar, "")
	require.False(t, SuppressExit())

	require.NoError(t, EnableSuppressExit())
	assert.True(t, SuppressExit())
	assert.Equal(t, "true", os.Getenv(SuppressExitEnvVar))
}

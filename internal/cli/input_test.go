package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPassword(t *testing.T) {
	stubPasswords(t, "hunter2")

	var out bytes.Buffer
	pw, err := getPassword(&out, "Enter password: ")
	require.NoError(t, err)
	assert.Equal(t, []byte("hunter2"), pw)
	assert.Equal(t, "Enter password: \n", out.String())
}

func TestGetPassword_Error(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return nil, errors.New("boom")
	}

	var out bytes.Buffer
	_, err := getPassword(&out, "Enter password: ")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestGetNewPassword(t *testing.T) {
	stubPasswords(t, "a", "a")
	pw, err := getNewPassword(&bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "a", pw)

	stubPasswords(t, "a", "b")
	_, err = getNewPassword(&bytes.Buffer{})
	assert.ErrorIs(t, err, errPasswordMismatch)
}

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Shreytangani17/Task-Mangement-System/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashLines(t *testing.T) {
	hasher, err := auth.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, hashLines(strings.NewReader("first-secret\n\n  \r\nтест123\r\n"), &out, hasher))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, hasher.Verify("first-secret", lines[0]))
	assert.True(t, hasher.Verify("тест123", lines[1]))

	cost, err := hasher.Cost(lines[0])
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

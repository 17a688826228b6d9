package command

import (
	"context"
	"errors"
	"testing"

	"cmdbot/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBot struct {
	self   domain.User
	owners []string
}

func (f *fakeBot) User() domain.User  { return f.self }
func (f *fakeBot) OwnerIDs() []string { return f.owners }

func ownerContext(authorID string, owners ...string) *Context {
	return NewContext(context.Background(),
		&fakeBot{owners: owners},
		&domain.Message{Author: domain.User{ID: authorID}})
}

func TestIsOwner(t *testing.T) {
	check := IsOwner()

	ok, err := check(ownerContext("u-1", "u-1", "u-2"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = check(ownerContext("u-3", "u-1", "u-2"))
	assert.False(t, ok)

	var notOwner *NotOwnerError
	require.ErrorAs(t, err, &notOwner)

	var checkFailure *CheckFailureError
	assert.ErrorAs(t, err, &checkFailure, "owner failures are still check failures")
}

func TestCanRunOrderedFirstFailureWins(t *testing.T) {
	var order []string
	boom := errors.New("boom")

	cmd := mustBuild(t, New("x", noopHandler).
		Check(func(_ *Context) (bool, error) {
			order = append(order, "first")
			return true, nil
		}).
		Check(func(_ *Context) (bool, error) {
			order = append(order, "second")
			return false, boom
		}).
		Check(func(_ *Context) (bool, error) {
			order = append(order, "third")
			return true, nil
		}))

	err := cmd.CanRun(testContext())

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first", "second"}, order, "later checks must not run")
}

func TestCanRunFalseWithoutError(t *testing.T) {
	cmd := mustBuild(t, New("secret", noopHandler).
		Check(func(_ *Context) (bool, error) { return false, nil }))

	err := cmd.CanRun(testContext())

	var checkFailure *CheckFailureError
	require.ErrorAs(t, err, &checkFailure)
	assert.Contains(t, checkFailure.Reason, "secret")
}

func TestCanRunNoChecks(t *testing.T) {
	cmd := mustBuild(t, New("open", noopHandler))
	assert.NoError(t, cmd.CanRun(testContext()))
}

package session

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlow_HappyPath(t *testing.T) {
	m := NewManager(5*time.Minute, 100)

	m.Begin("42")
	assert.Equal(t, StateAwaitingGender, m.State("42"))

	require.NoError(t, m.ChooseGender("42", "male"))
	assert.Equal(t, StateAwaitingName, m.State("42"))

	res, err := m.EnterName("42", "Leo")
	require.NoError(t, err)
	assert.Equal(t, "Leo", res.DisplayName)
	assert.Equal(t, "male", res.Gender)

	// Completion destroys the session.
	assert.Equal(t, StateNone, m.State("42"))
}

func TestEnterName_WithoutFlowIsProtocolViolation(t *testing.T) {
	m := NewManager(5*time.Minute, 100)

	_, err := m.EnterName("42", "Leo")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestChooseGender_OutOfOrder(t *testing.T) {
	m := NewManager(5*time.Minute, 100)

	// No session at all.
	assert.ErrorIs(t, m.ChooseGender("42", "male"), ErrNoSession)

	// Gender already chosen; a second click is out of order.
	m.Begin("42")
	require.NoError(t, m.ChooseGender("42", "female"))
	assert.ErrorIs(t, m.ChooseGender("42", "male"), ErrWrongState)

	// The collected choice is not clobbered by the stray click.
	res, err := m.EnterName("42", "Ana")
	require.NoError(t, err)
	assert.Equal(t, "female", res.Gender)
}

func TestChooseGender_InvalidValue(t *testing.T) {
	m := NewManager(5*time.Minute, 100)
	m.Begin("42")

	assert.ErrorIs(t, m.ChooseGender("42", "other"), ErrInvalidGender)
	// Session is still waiting for a valid choice.
	assert.Equal(t, StateAwaitingGender, m.State("42"))
}

func TestEnterName_BeforeGenderIsWrongState(t *testing.T) {
	m := NewManager(5*time.Minute, 100)
	m.Begin("42")

	_, err := m.EnterName("42", "Leo")
	assert.ErrorIs(t, err, ErrWrongState)
}

func TestBegin_ReplacesInFlightSession(t *testing.T) {
	m := NewManager(5*time.Minute, 100)

	m.Begin("42")
	require.NoError(t, m.ChooseGender("42", "male"))

	// Restarting mid-flow resets to the first step.
	m.Begin("42")
	assert.Equal(t, StateAwaitingGender, m.State("42"))

	require.NoError(t, m.ChooseGender("42", "female"))
	res, err := m.EnterName("42", "Ana")
	require.NoError(t, err)
	assert.Equal(t, "female", res.Gender)
}

func TestEnterName_TrimsAndCaps(t *testing.T) {
	m := NewManager(5*time.Minute, 10)
	m.Begin("42")
	require.NoError(t, m.ChooseGender("42", "male"))

	res, err := m.EnterName("42", "  "+strings.Repeat("x", 50)+"  ")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("x", 10), res.DisplayName)
}

func TestEnterName_BlankKeepsWaiting(t *testing.T) {
	m := NewManager(5*time.Minute, 100)
	m.Begin("42")
	require.NoError(t, m.ChooseGender("42", "male"))

	_, err := m.EnterName("42", "   ")
	assert.ErrorIs(t, err, ErrEmptyName)
	assert.Equal(t, StateAwaitingName, m.State("42"))
}

func TestExpiry_LazyAndSwept(t *testing.T) {
	m := NewManager(5*time.Minute, 100)
	clock := time.Unix(1_700_000_000, 0)
	m.now = func() time.Time { return clock }

	m.Begin("42")
	m.Begin("43")

	clock = clock.Add(6 * time.Minute)

	// Lazy expiry on access.
	assert.Equal(t, StateNone, m.State("42"))
	_, err := m.EnterName("42", "Leo")
	assert.ErrorIs(t, err, ErrNoSession)

	// Sweeper clears the rest.
	m.sweepOnce()
	m.mu.Lock()
	remaining := len(m.flows)
	m.mu.Unlock()
	assert.Zero(t, remaining)
}

func TestSessionsAreIndependentPerUser(t *testing.T) {
	m := NewManager(5*time.Minute, 100)

	m.Begin("a")
	m.Begin("b")
	require.NoError(t, m.ChooseGender("a", "male"))

	assert.Equal(t, StateAwaitingName, m.State("a"))
	assert.Equal(t, StateAwaitingGender, m.State("b"))

	m.Abandon("b")
	assert.Equal(t, StateNone, m.State("b"))
	assert.Equal(t, StateAwaitingName, m.State("a"))
}

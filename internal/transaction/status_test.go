package transaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_FromPending(t *testing.T) {
	for _, next := range []PaymentStatus{PaymentSuccess, PaymentFailed, PaymentExpired, PaymentCancelled} {
		assert.True(t, CanTransition(PaymentPending, next), "Pending -> %s", next)
	}
	assert.False(t, CanTransition(PaymentPending, PaymentPending))
}

func TestCanTransition_TerminalStatesAbsorb(t *testing.T) {
	terminals := []PaymentStatus{PaymentSuccess, PaymentFailed, PaymentExpired, PaymentCancelled}
	for _, from := range terminals {
		for _, to := range append(terminals, PaymentPending) {
			assert.False(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransition_UnknownStatus(t *testing.T) {
	assert.False(t, CanTransition("Refunded", PaymentSuccess))
	assert.False(t, CanTransition(PaymentPending, "Refunded"))
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(PaymentPending))
	assert.True(t, IsTerminal(PaymentSuccess))
	assert.True(t, IsTerminal(PaymentFailed))
	assert.True(t, IsTerminal(PaymentExpired))
	assert.True(t, IsTerminal(PaymentCancelled))
	assert.False(t, IsTerminal("Refunded"))
}

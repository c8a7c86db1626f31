package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateOrderTransition_PendingToPaid(t *testing.T) {
	assert.NoError(t, ValidateOrderTransition(OrderPending, OrderPaid))
}

func TestValidateOrderTransition_PendingToFailed(t *testing.T) {
	assert.NoError(t, ValidateOrderTransition(OrderPending, OrderFailed))
}

func TestValidateOrderTransition_TerminalIsImmutable(t *testing.T) {
	for _, from := range []OrderStatus{OrderPaid, OrderFailed, OrderRefunded} {
		err := ValidateOrderTransition(from, OrderRefunded)
		assert.Error(t, err, "from %s", from)

		var appErr *AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, "CONFLICT", appErr.Code)
	}
}

func TestValidateOrderTransition_UnknownTarget(t *testing.T) {
	err := ValidateOrderTransition(OrderPending, OrderStatus("shipped"))
	assert.Error(t, err)

	var appErr *AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.False(t, OrderPending.Terminal())
	assert.True(t, OrderPaid.Terminal())
	assert.True(t, OrderFailed.Terminal())
	assert.True(t, OrderRefunded.Terminal())
}

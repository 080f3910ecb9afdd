package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, "pending", NormalizeStatus("  Pending "))
	assert.Equal(t, "completed", NormalizeStatus("COMPLETED"))
	assert.Equal(t, "on-hold", NormalizeStatus("On-Hold"))
}

func TestIsTerminalStatus(t *testing.T) {
	assert.True(t, IsTerminalStatus("completed"))
	assert.True(t, IsTerminalStatus("Cancelled"))
	assert.False(t, IsTerminalStatus("pending"))
	assert.False(t, IsTerminalStatus("on-hold"))
}

func TestOrder_TotalCents(t *testing.T) {
	order := &Order{Total: decimal.RequireFromString("25.00")}
	assert.Equal(t, int64(2500), order.TotalCents())

	order.Total = decimal.RequireFromString("10.99")
	assert.Equal(t, int64(1099), order.TotalCents())

	order.Total = decimal.Zero
	assert.Equal(t, int64(0), order.TotalCents())
}

func TestOrder_IsPending(t *testing.T) {
	order := &Order{Status: "Pending"}
	assert.True(t, order.IsPending())

	order.Status = "completed"
	assert.False(t, order.IsPending())
}

package slippage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sendswap/sendswap-core-go/amm"
)

func TestCheckMin(t *testing.T) {
	assert.NoError(t, CheckMin(100, 100))
	assert.NoError(t, CheckMin(101, 100))
	assert.NoError(t, CheckMin(0, 0))
	assert.ErrorIs(t, CheckMin(99, 100), amm.ErrSlippageExceeded)
	assert.ErrorIs(t, CheckMin(0, 1), amm.ErrSlippageExceeded)
}

func TestCheckMax(t *testing.T) {
	assert.NoError(t, CheckMax(100, 100))
	assert.NoError(t, CheckMax(99, 100))
	assert.ErrorIs(t, CheckMax(101, 100), amm.ErrSlippageExceeded)
	assert.ErrorIs(t, CheckMax(1, 0), amm.ErrSlippageExceeded)
}

package kernel_test

import (
	"testing"

	"orderdesk/internal/core/domain/model/kernel"
	"orderdesk/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyFromString(t *testing.T) {
	t.Run("should parse decimal amounts", func(t *testing.T) {
		m, err := kernel.MoneyFromString("1250.5")

		require.NoError(t, err)
		assert.Equal(t, "1250.50", m.String())
	})

	t.Run("should treat empty input as zero", func(t *testing.T) {
		m, err := kernel.MoneyFromString("")

		require.NoError(t, err)
		assert.True(t, m.IsZero())
	})

	t.Run("should reject garbage", func(t *testing.T) {
		_, err := kernel.MoneyFromString("twelve")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject negative amounts", func(t *testing.T) {
		_, err := kernel.NewMoney(decimal.NewFromInt(-1))

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	price := kernel.MustMoney("10")
	fee := kernel.MustMoney("2.25")

	assert.True(t, price.Add(fee).Equal(kernel.MustMoney("12.25")))
	assert.True(t, kernel.MustMoney("10.00").Equal(price))
}

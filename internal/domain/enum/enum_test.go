package enum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceStatusJSON(t *testing.T) {
	data, err := json.Marshal(InvoiceStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, `"cancelled"`, string(data))

	var s InvoiceStatus
	require.NoError(t, json.Unmarshal([]byte(`"paid"`), &s))
	assert.Equal(t, InvoiceStatusPaid, s)

	require.NoError(t, json.Unmarshal([]byte(`0`), &s))
	assert.Equal(t, InvoiceStatusOpen, s)

	assert.Error(t, json.Unmarshal([]byte(`"refunded"`), &s))
	assert.Error(t, json.Unmarshal([]byte(`7`), &s))
}

func TestPaymentMethodParse(t *testing.T) {
	m, ok := ParsePaymentMethod("bank_transfer")
	assert.True(t, ok)
	assert.Equal(t, PaymentMethodBankTransfer, m)

	_, ok = ParsePaymentMethod("cheque")
	assert.False(t, ok)
}

func TestScanAcceptsDriverIntegers(t *testing.T) {
	var d MovementDirection
	require.NoError(t, d.Scan(int64(2)))
	assert.Equal(t, MovementDirectionAdjust, d)

	require.NoError(t, d.Scan(nil))
	assert.Equal(t, MovementDirectionIn, d)

	assert.Error(t, d.Scan("out"))
	assert.Equal(t, "unknown", TableStatus(9).String())
}

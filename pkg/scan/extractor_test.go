package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPaymentDetails_LabelledUPIWinsOverBare(t *testing.T) {
	text := "Sent via someone@okicici. UPI ID: fraudster@paytm"

	details := ExtractPaymentDetails(text)

	require.NotNil(t, details.UPIID)
	assert.Equal(t, "fraudster@paytm", *details.UPIID)
	assert.Contains(t, details.MatchedFields, "upi_id")
}

func TestExtractPaymentDetails_BareUPIFallback(t *testing.T) {
	details := ExtractPaymentDetails("pay to merchant@upi now")

	require.NotNil(t, details.UPIID)
	assert.Equal(t, "merchant@upi", *details.UPIID)
}

func TestExtractPaymentDetails_AmountWithIndianGrouping(t *testing.T) {
	details := ExtractPaymentDetails("Amount: Rs. 1,23,456.78 debited")

	require.NotNil(t, details.Amount)
	assert.InDelta(t, 123456.78, *details.Amount, 0.001)
	require.NotNil(t, details.Currency)
	assert.Equal(t, "INR", *details.Currency)
}

func TestExtractPaymentDetails_AmountAfterRupeeSymbol(t *testing.T) {
	details := ExtractPaymentDetails("Paid ₹500 to shop")

	require.NotNil(t, details.Amount)
	assert.InDelta(t, 500, *details.Amount, 0.001)
}

func TestExtractPaymentDetails_ReferenceVariants(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Txn ID: AB12345678", "AB12345678"},
		{"Transaction ID 987654321012", "987654321012"},
		{"UTR: 112233445566", "112233445566"},
		{"Ref no. XKCD998877", "XKCD998877"},
	}
	for _, tt := range tests {
		details := ExtractPaymentDetails(tt.text)
		require.NotNil(t, details.ReferenceID, tt.text)
		assert.Equal(t, tt.want, *details.ReferenceID, tt.text)
	}
}

func TestExtractPaymentDetails_Names(t *testing.T) {
	details := ExtractPaymentDetails("Paid to John Doe from Alice Kumar")

	require.NotNil(t, details.PayeeName)
	assert.Equal(t, "John Doe", *details.PayeeName)
	require.NotNil(t, details.PayerName)
	assert.Equal(t, "Alice Kumar", *details.PayerName)
}

func TestExtractPaymentDetails_Note(t *testing.T) {
	details := ExtractPaymentDetails("Paid ₹100. Note: monthly rent")

	require.NotNil(t, details.Note)
	assert.Equal(t, "monthly rent", *details.Note)
}

func TestExtractPaymentDetails_NothingFound(t *testing.T) {
	details := ExtractPaymentDetails("hello world")

	assert.Nil(t, details.UPIID)
	assert.Nil(t, details.Amount)
	assert.Nil(t, details.ReferenceID)
	assert.Nil(t, details.Currency)
	assert.Zero(t, details.Confidence)
	assert.Empty(t, details.RawMatches)
}

func TestExtractPaymentDetails_ConfidenceCappedAtOne(t *testing.T) {
	text := "Paid by Alice Kumar. Paid to Bob Shop. UPI ID: bob@ybl Amount: Rs 250 Txn ID: TX99887766"

	details := ExtractPaymentDetails(text)

	require.NotNil(t, details.UPIID)
	require.NotNil(t, details.Amount)
	require.NotNil(t, details.ReferenceID)
	require.NotNil(t, details.PayerName)
	require.NotNil(t, details.PayeeName)
	assert.InDelta(t, 1.0, details.Confidence, 0.0001)
}

func TestExtractPaymentDetails_Deterministic(t *testing.T) {
	text := "UPI: shop@ybl Amount Rs 1200 Txn ID TX123456 Paid to Some Shop"

	first := ExtractPaymentDetails(text)
	second := ExtractPaymentDetails(text)

	assert.Equal(t, first, second)
}

func TestExtractPaymentDetails_ConfidenceBounds(t *testing.T) {
	texts := []string{
		"",
		"random noise 42",
		"merchant@upi",
		"UPI: a@b Amount Rs 99999 Txn ID ABCDEF123 Paid to X Y from Z W",
	}
	for _, text := range texts {
		details := ExtractPaymentDetails(text)
		assert.GreaterOrEqual(t, details.Confidence, 0.0, text)
		assert.LessOrEqual(t, details.Confidence, 1.0, text)
	}
}

package requests

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentWebhookRequestParsing(t *testing.T) {
	payload := `{
		"event": "charge.completed",
		"data": {
			"pay_status": "paid",
			"amount": "250000.00",
			"currency": "NGN",
			"custom_data": {"paymentReference": "FRM-0123456789abcdef0123456789abcdef"}
		}
	}`

	var request PaymentWebhookRequest
	require.NoError(t, json.Unmarshal([]byte(payload), &request))

	assert.Equal(t, "charge.completed", request.Event)
	assert.Equal(t, "paid", request.Data.PayStatus)
	assert.Equal(t, "FRM-0123456789abcdef0123456789abcdef", request.Reference())
	assert.Empty(t, request.Validate())
}

func TestPaymentWebhookRequestValidation(t *testing.T) {
	missingReference := PaymentWebhookRequest{
		Data: PaymentWebhookData{PayStatus: "paid"},
	}
	assert.NotEmpty(t, missingReference.Validate())

	missingStatus := PaymentWebhookRequest{
		Data: PaymentWebhookData{
			CustomData: PaymentWebhookCustomData{PaymentReference: "FRM-abc"},
		},
	}
	assert.NotEmpty(t, missingStatus.Validate())

	whitespaceReference := PaymentWebhookRequest{
		Data: PaymentWebhookData{
			PayStatus:  "paid",
			CustomData: PaymentWebhookCustomData{PaymentReference: "   "},
		},
	}
	assert.NotEmpty(t, whitespaceReference.Validate())
	assert.Empty(t, whitespaceReference.Reference())
}

package requests

import "strings"

// PaymentWebhookRequest is the provider's callback envelope. The only
// fields we rely on are the status and the correlation reference echoed
// back through custom_data.
type PaymentWebhookRequest struct {
	Event string             `json:"event"`
	Data  PaymentWebhookData `json:"data"`
}

type PaymentWebhookData struct {
	PayStatus  string                   `json:"pay_status"`
	Amount     string                   `json:"amount"`
	Currency   string                   `json:"currency"`
	CustomData PaymentWebhookCustomData `json:"custom_data"`
}

type PaymentWebhookCustomData struct {
	PaymentReference string `json:"paymentReference"`
}

// Reference returns the trimmed correlation token.
func (r *PaymentWebhookRequest) Reference() string {
	return strings.TrimSpace(r.Data.CustomData.PaymentReference)
}

// Validate reports the first structural problem, or "" when the payload
// carries everything reconciliation needs.
func (r *PaymentWebhookRequest) Validate() string {
	if r.Reference() == "" {
		return "Missing payment reference in custom_data"
	}
	if strings.TrimSpace(r.Data.PayStatus) == "" {
		return "Missing pay_status"
	}
	return ""
}

// InitiatePaymentRequest starts a contract payment cycle for an
// application. Amount is accepted as a string to avoid float drift.
type InitiatePaymentRequest struct {
	Amount string `json:"amount"`
}

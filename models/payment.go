package models

// PaymentIntentResult is returned to the client after creating an intent;
// the client secret drives the client-side payment UI.
type PaymentIntentResult struct {
	ClientSecret string  `json:"clientSecret"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
}

// PaymentStatusResult cross-checks the locally stored payment status against
// the processor's live status.
type PaymentStatusResult struct {
	PaymentStatus   string  `json:"paymentStatus"`
	ProcessorStatus string  `json:"processorStatus"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
}

// RefundResult reports a processed refund.
type RefundResult struct {
	RefundID string  `json:"refundId"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// RevenueStats summarises completed payments for a station.
type RevenueStats struct {
	TotalRevenue  float64 `bson:"totalRevenue" json:"totalRevenue"`
	TotalBookings int64   `bson:"totalBookings" json:"totalBookings"`
}

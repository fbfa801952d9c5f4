package domain

import "strings"

// Display labels shown on the student dashboard
const (
	LabelPending  = "PENDING"
	LabelPaid     = "PAID"
	LabelApproved = "APPROVED"
	LabelRejected = "REJECTED"
)

// PaymentDisplay is the derived payment state of one request.
type PaymentDisplay struct {
	PaymentLabel      string `json:"paymentLabel"`
	VerificationLabel string `json:"verificationLabel,omitempty"`
	CanPayOnline      bool   `json:"canPayOnline"`
}

// DisplayPayment derives the labels for a request from its newest
// transaction. latest may be nil.
func DisplayPayment(req *HomeworkRequest, latest *Transaction) PaymentDisplay {
	if req.PaymentMethod != MethodOnline {
		return PaymentDisplay{PaymentLabel: strings.ToUpper(string(req.PaymentStatus))}
	}

	d := PaymentDisplay{PaymentLabel: LabelPending, VerificationLabel: LabelPending}
	if latest != nil {
		switch latest.Status {
		case TxPending:
			d.PaymentLabel = LabelPaid
		case TxApproved:
			d.PaymentLabel = LabelPaid
			d.VerificationLabel = LabelApproved
		case TxRejected:
			d.VerificationLabel = LabelRejected
		}
	}
	d.CanPayOnline = d.PaymentLabel == LabelPending
	return d
}

package domain

import "time"

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// IsTerminal reports whether no further transitions are accepted.
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusCompleted || s == TransactionStatusFailed
}

const (
	DefaultCustomerName = "Anonymous"

	// ResultCodeSuccess is the gateway's success sentinel in callbacks.
	ResultCodeSuccess = 0
)

type Transaction struct {
	ExternalReference string            `json:"external_reference" bson:"external_reference"`
	Amount            int64             `json:"amount" bson:"amount"`
	PhoneNumber       string            `json:"phone_number" bson:"phone_number"`
	CustomerName      string            `json:"customer_name" bson:"customer_name"`
	Status            TransactionStatus `json:"status" bson:"status"`
	CheckoutRequestID string            `json:"checkout_request_id,omitempty" bson:"checkout_request_id,omitempty"`
	ReceiptNumber     string            `json:"mpesa_receipt_number,omitempty" bson:"mpesa_receipt_number,omitempty"`
	ResultDesc        string            `json:"result_desc,omitempty" bson:"result_desc,omitempty"`
	CreatedAt         time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at" bson:"updated_at"`
}

// DonorSummary is the public view of a completed donation.
type DonorSummary struct {
	Amount       int64     `json:"amount"`
	CustomerName string    `json:"customer_name"`
	PhoneNumber  string    `json:"phone_number"`
	CreatedAt    time.Time `json:"created_at"`
}

func (t *Transaction) DonorSummary() DonorSummary {
	name := t.CustomerName
	if name == "" {
		name = DefaultCustomerName
	}
	return DonorSummary{
		Amount:       t.Amount,
		CustomerName: name,
		PhoneNumber:  t.PhoneNumber,
		CreatedAt:    t.CreatedAt,
	}
}

// Donor is the per-checkout summary record, upserted at initiation and on callback.
// Zero-valued fields are left untouched by an upsert.
type Donor struct {
	CheckoutRequestID string    `json:"checkout_request_id" bson:"checkout_request_id"`
	Name              string    `json:"name,omitempty" bson:"name,omitempty"`
	Phone             string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Amount            int64     `json:"amount,omitempty" bson:"amount,omitempty"`
	ExternalReference string    `json:"external_reference,omitempty" bson:"external_reference,omitempty"`
	ReceiptNumber     string    `json:"mpesa_receipt_number,omitempty" bson:"mpesa_receipt_number,omitempty"`
	Status            string    `json:"status,omitempty" bson:"status,omitempty"`
	ResultCode        *int      `json:"result_code,omitempty" bson:"result_code,omitempty"`
	ResultDesc        string    `json:"result_desc,omitempty" bson:"result_desc,omitempty"`
	UpdatedAt         time.Time `json:"updated_at" bson:"updated_at"`
}

// TopDonor is the public ranking entry built from a paid donor record.
type TopDonor struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

func (d Donor) TopDonor() TopDonor {
	name := d.Name
	if name == "" {
		name = DefaultCustomerName
	}
	return TopDonor{Name: name, Amount: d.Amount}
}

type PaymentRequest struct {
	Amount            int64
	PhoneNumber       string
	CustomerName      string
	ExternalReference string
}

// GatewayAck means the STK push was dispatched, not that the payment succeeded.
type GatewayAck struct {
	Success           bool   `json:"success"`
	Status            string `json:"status"`
	Reference         string `json:"reference"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
}

type CallbackPayload struct {
	ForwardURL string           `json:"forward_url"`
	Status     bool             `json:"status"`
	Response   CallbackResponse `json:"response"`
}

type CallbackResponse struct {
	Amount             int64  `json:"Amount"`
	CheckoutRequestID  string `json:"CheckoutRequestID"`
	ExternalReference  string `json:"ExternalReference"`
	MerchantRequestID  string `json:"MerchantRequestID"`
	MpesaReceiptNumber string `json:"MpesaReceiptNumber"`
	Phone              string `json:"Phone"`
	ResultCode         *int   `json:"ResultCode"`
	ResultDesc         string `json:"ResultDesc"`
	Status             string `json:"Status"`
}

// Succeeded reports whether the callback carries the success result code.
func (r CallbackResponse) Succeeded() bool {
	return r.ResultCode != nil && *r.ResultCode == ResultCodeSuccess
}

package domain

import "time"

// ============================================================
// Contracts & confirmation
// ============================================================

// Contract is the record generated right after an order is stored.
// It is never updated.
type Contract struct {
	ID                 string     `json:"id"`
	OrderID            string     `json:"order_id"`
	UserID             string     `json:"user_id"`
	ContractNumber     string     `json:"contract_number"`
	ClientName         string     `json:"client_name"`
	ClientEmail        string     `json:"client_email"`
	ClientPhone        *string    `json:"client_phone"`
	ServiceDescription string     `json:"service_description"`
	TotalValue         float64    `json:"total_value"`
	TermsAccepted      bool       `json:"terms_accepted"`
	DigitalSignature   *string    `json:"digital_signature"`
	SignedAt           *time.Time `json:"signed_at"`
	CreatedAt          time.Time  `json:"created_at"`
}

// NewContract carries the columns written on contract insert.
type NewContract struct {
	OrderID            string
	UserID             string
	ContractNumber     string
	ClientName         string
	ClientEmail        string
	ClientPhone        string
	ServiceDescription string
	TotalValue         float64
	DigitalSignature   string
	SignedAt           time.Time
}

// ContractLookup selects a contract by its own id or by its order id.
type ContractLookup struct {
	ContractID string
	OrderID    string
}

// ContractDocument is a rendered, downloadable contract.
type ContractDocument struct {
	Filename    string
	ContentType string
	Body        []byte
	ArchiveKey  string
}

// PaymentInstructions tells the client how to pay via Paypay.
type PaymentInstructions struct {
	Method        string  `json:"method"`
	Beneficiary   string  `json:"beneficiary"`
	Number        string  `json:"number"`
	NumberDisplay string  `json:"numberDisplay"`
	Amount        float64 `json:"amount"`
	AmountDisplay string  `json:"amountDisplay"`
	Reference     string  `json:"reference"`
}

// OrderConfirmation backs the /pedido-confirmado view.
type OrderConfirmation struct {
	OrderID      string              `json:"orderId"`
	OrderNumber  string              `json:"orderNumber"`
	BusinessName string              `json:"businessName"`
	Status       OrderStatus         `json:"status"`
	StatusLabel  string              `json:"statusLabel"`
	PackageName  string              `json:"packageName"`
	PlanName     string              `json:"planName,omitempty"`
	Total        float64             `json:"total"`
	TotalDisplay string              `json:"totalDisplay"`
	Payment      PaymentInstructions `json:"payment"`
	WhatsAppURL  string              `json:"whatsappUrl"`
	ContractURL  string              `json:"contractUrl"`
}

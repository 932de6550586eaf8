package dto

import "time"

// VoucherLineRequest línea solicitada en un vale nuevo.
type VoucherLineRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// CreateVoucherRequest body para POST /api/vouchers.
type CreateVoucherRequest struct {
	Type               string               `json:"type"` // withdrawal | return
	Lines              []VoucherLineRequest `json:"lines"`
	ProjectName        string               `json:"project_name"`
	ExpectedReturnDate *time.Time           `json:"expected_return_date,omitempty"`
	Notes              string               `json:"notes,omitempty"`
}

// CompleteVoucherRequest body para POST /api/vouchers/:id/complete.
type CompleteVoucherRequest struct {
	ActualReturnDate *time.Time `json:"actual_return_date,omitempty"`
}

// ActorRefDTO foto del actor que ejecutó una transición.
type ActorRefDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// VoucherLineResponse línea de un vale en respuestas.
type VoucherLineResponse struct {
	ItemID        string `json:"item_id"`
	Quantity      int    `json:"quantity"`
	ReservationID string `json:"reservation_id,omitempty"`
}

// VoucherResponse representación pública de un vale.
type VoucherResponse struct {
	ID                 string                `json:"id"`
	RequestNumber      string                `json:"request_number"`
	Type               string                `json:"type"`
	Status             string                `json:"status"`
	RequestedBy        ActorRefDTO           `json:"requested_by"`
	ApprovedBy         *ActorRefDTO          `json:"approved_by,omitempty"`
	IssuedBy           *ActorRefDTO          `json:"issued_by,omitempty"`
	CompletedBy        *ActorRefDTO          `json:"completed_by,omitempty"`
	Lines              []VoucherLineResponse `json:"lines"`
	ProjectName        string                `json:"project_name"`
	RequestDate        time.Time             `json:"request_date"`
	ApprovalDate       *time.Time            `json:"approval_date,omitempty"`
	IssueDate          *time.Time            `json:"issue_date,omitempty"`
	ExpectedReturnDate *time.Time            `json:"expected_return_date,omitempty"`
	ActualReturnDate   *time.Time            `json:"actual_return_date,omitempty"`
	Notes              string                `json:"notes,omitempty"`
}

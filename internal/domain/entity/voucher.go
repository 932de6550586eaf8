package entity

import "time"

// Tipos de vale de material.
const (
	VoucherTypeWithdrawal = "withdrawal" // retiro de material del almacén
	VoucherTypeReturn     = "return"     // devolución de material al almacén
)

// Estados del ciclo de vida de un vale.
// Grafo de transiciones: pending -> {approved, rejected}, approved -> issued,
// issued -> completed. rejected y completed son terminales; nunca se retrocede
// ni se salta un estado.
const (
	VoucherStatusPending   = "pending"
	VoucherStatusApproved  = "approved"
	VoucherStatusRejected  = "rejected"
	VoucherStatusIssued    = "issued"
	VoucherStatusCompleted = "completed"
)

// ActorRef es la foto (id + nombre + rol) del actor que ejecutó una transición,
// guardada en el vale como registro de auditoría.
type ActorRef struct {
	ID   string
	Name string
	Role string
}

// VoucherLine es una línea del vale: artículo y cantidad solicitada.
// ReservationID se llena al aprobar un vale de retiro (token de reserva del ledger).
type VoucherLine struct {
	ItemID        string
	Quantity      int // siempre > 0
	ReservationID string
}

// Voucher representa una solicitud de movimiento de material sujeta a aprobación.
// Los vales terminales (rejected, completed) nunca se eliminan: son registro de auditoría.
type Voucher struct {
	ID                 string
	RequestNumber      string // MV-<año>-<secuencia de 4 dígitos>, único
	Type               string // withdrawal | return
	Status             string // ver constantes VoucherStatus*
	RequestedBy        ActorRef
	ApprovedBy         *ActorRef // quien aprobó o rechazó; nil hasta entonces
	IssuedBy           *ActorRef
	CompletedBy        *ActorRef
	Lines              []VoucherLine
	ProjectName        string
	RequestDate        time.Time
	ApprovalDate       *time.Time // se fija junto con ApprovedBy
	IssueDate          *time.Time
	ExpectedReturnDate *time.Time // solo withdrawal
	ActualReturnDate   *time.Time
	Notes              string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Terminal indica si el vale está en un estado final.
func (v *Voucher) Terminal() bool {
	return v.Status == VoucherStatusRejected || v.Status == VoucherStatusCompleted
}

// LineFor devuelve la línea del artículo indicado, o nil si el vale no lo incluye.
func (v *Voucher) LineFor(itemID string) *VoucherLine {
	for i := range v.Lines {
		if v.Lines[i].ItemID == itemID {
			return &v.Lines[i]
		}
	}
	return nil
}

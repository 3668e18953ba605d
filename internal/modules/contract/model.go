package contract

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound     = errors.New("contract not found")
	ErrForbidden    = errors.New("not allowed to modify this contract")
	ErrNoQRCode     = errors.New("contract has no qr code")
	ErrNoChanges    = errors.New("no pending changes")
	ErrNotSteppable = errors.New("status is not reachable from the stepper")
)

// Status represents the lifecycle state of a contract.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPreparing Status = "preparing"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Statuses lists every state in display order.
var Statuses = []Status{StatusDraft, StatusPreparing, StatusShipped, StatusDelivered, StatusCancelled}

// StepperStatuses are the states offered as one-click stepper buttons.
var StepperStatuses = []Status{StatusDraft, StatusPreparing, StatusShipped, StatusDelivered}

// defaultProgress maps each stepper state to the progress it implies.
// Cancelled carries no default.
var defaultProgress = map[Status]int{
	StatusDraft:     0,
	StatusPreparing: 25,
	StatusShipped:   75,
	StatusDelivered: 100,
}

// DefaultProgress returns the conventional progress for s. The mapping is
// advisory: a stored contract may carry any progress with any status.
func DefaultProgress(s Status) (int, bool) {
	p, ok := defaultProgress[s]
	return p, ok
}

func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Active reports whether the contract is in flight (preparing or shipped).
func (s Status) Active() bool {
	return s == StatusPreparing || s == StatusShipped
}

// Contract is one shipping engagement owned by a supplier.
type Contract struct {
	ID            uuid.UUID       `json:"id"`
	SupplierID    uuid.UUID       `json:"supplier_id"`
	Title         string          `json:"title"`
	TotalQuantity int             `json:"total_quantity"`
	BoxSize       string          `json:"box_size"`
	ItemsPerBox   int             `json:"items_per_box"`
	TotalWeightKg decimal.Decimal `json:"total_weight_kg"`
	QRCode        *string         `json:"qr_code"`
	Status        Status          `json:"status"`
	Progress      int             `json:"progress"`
	Metadata      Metadata        `json:"metadata"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// QRUploadError is set when the row was stored but its image was not.
	QRUploadError string `json:"qr_upload_error,omitempty"`
}

// LineItem is one SKU line kept in the contract metadata under "items".
type LineItem struct {
	SKU string `json:"sku"`
	Qty int    `json:"qty"`
}

// Metadata is the open JSONB map attached to a contract.
type Metadata map[string]interface{}

// LineItems decodes the optional "items" list.
func (m Metadata) LineItems() []LineItem {
	raw, ok := m["items"]
	if !ok {
		return nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	return items
}

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *Metadata) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*m = Metadata{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("contract: unsupported metadata type")
	}
	return json.Unmarshal(data, m)
}

// Input carries the editable fields of the contract form.
type Input struct {
	Title         string          `json:"title" validate:"min=3"`
	TotalQuantity int             `json:"total_quantity" validate:"min=1"`
	BoxSize       string          `json:"box_size" validate:"required"`
	ItemsPerBox   int             `json:"items_per_box" validate:"min=1"`
	TotalWeightKg decimal.Decimal `json:"total_weight_kg" validate:"gt=0"`
	Status        Status          `json:"status" validate:"omitempty,oneof=draft preparing shipped delivered cancelled"`
	Progress      *int            `json:"progress" validate:"omitempty,min=0,max=100"`
	Metadata      Metadata        `json:"metadata"`
}

// Filter narrows the contract list.
type Filter struct {
	OwnOnly bool
	Search  string
	Status  string // "all" or a Status
	Limit   int
}

// Query is the repository-level form of a Filter.
type Query struct {
	SupplierID *uuid.UUID
	Search     string
	Status     Status
	Limit      int
}

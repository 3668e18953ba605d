package issue

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound             = errors.New("issue not found")
	ErrContractNotFound     = errors.New("contract not found")
	ErrForbidden            = errors.New("only admins can manage issues")
	ErrTitleRequired        = errors.New("title is required")
	ErrInvalidSeverity      = errors.New("severity must be one of minor, major, critical")
	ErrInvalidFilter        = errors.New("invalid filter")
	ErrConfirmationRequired = errors.New("deletion must be confirmed")
)

// UnknownContractTitle is shown for issues whose contract has been deleted.
const UnknownContractTitle = "Unknown"

// Severity grades how badly an issue affects delivery.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
)

var Severities = []Severity{SeverityMinor, SeverityMajor, SeverityCritical}

func (s Severity) Valid() bool {
	return s == SeverityMinor || s == SeverityMajor || s == SeverityCritical
}

// Issue is a quality or delivery problem reported against one contract. The
// contract is referenced by id only.
type Issue struct {
	ID          uuid.UUID `db:"id" json:"id"`
	ContractID  uuid.UUID `db:"contract_id" json:"contract_id"`
	ReportedBy  uuid.UUID `db:"reported_by" json:"reported_by"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description"`
	Severity    Severity  `db:"severity" json:"severity"`
	Resolved    bool      `db:"resolved" json:"resolved"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Row is an issue joined with its contract's title for the management view.
type Row struct {
	Issue
	ContractTitle string `db:"contract_title" json:"contract_title"`
}

// CreateInput is the payload for reporting an issue.
type CreateInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// Resolution filters the management view.
type Resolution string

const (
	ResolutionAll        Resolution = "all"
	ResolutionUnresolved Resolution = "unresolved"
	ResolutionResolved   Resolution = "resolved"
)

// Query narrows an issue listing.
type Query struct {
	ContractID *uuid.UUID
	SupplierID *uuid.UUID
	Severity   Severity
	Resolved   *bool
}

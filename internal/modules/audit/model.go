package audit

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreate         = "create"
	ActionUpdate         = "update"
	ActionDelete         = "delete"
	ActionUpdateProgress = "update_progress"
	ActionStatusChange   = "status_change"

	ResourceContract = "contract"

	DefaultLimit = 10
	MaxLimit     = 100
)

// Entry is one append-only action record.
type Entry struct {
	ID         int64     `db:"id" json:"id"`
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID string    `db:"resource_id" json:"resource_id"`
	Metadata   Metadata  `db:"metadata" json:"metadata"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Metadata is the free-form JSONB payload of an entry.
type Metadata map[string]interface{}

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
		return errors.New("audit: unsupported metadata type")
	}
	return json.Unmarshal(data, m)
}

// Filter narrows a listing. A zero Limit means no limit at the repository level.
type Filter struct {
	ResourceID string
	UserID     *uuid.UUID
	Since      time.Time
	Limit      int
}

package account

import (
	"fmt"
	"time"
)

// Kind partitions stored accounts by role.
type Kind string

const (
	KindUser  Kind = "user"
	KindAgent Kind = "agent"
	KindAdmin Kind = "admin"
)

// ParseKind validates a kind supplied as a route parameter.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindUser, KindAgent, KindAdmin:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("%w: unknown account kind %q", ErrValidation, s)
	}
}

// Status gates whether an account may log in.
type Status string

const (
	StatusPending Status = "pending"
	StatusActive  Status = "active"
)

// Account represents a registered MFS participant. The PIN is held only as a
// bcrypt hash and is never serialized back to clients.
type Account struct {
	ID           string
	Kind         Kind
	Name         string
	PINHash      []byte
	MobileNumber string
	Email        string
	Status       Status
	Balance      int64
	CreatedAt    time.Time
}

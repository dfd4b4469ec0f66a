package sharedtypes

import (
	"database/sql/driver"
	"fmt"

	"github.com/google/uuid"
)

// UserID identifies a player account. Opaque to the engine; issued by the
// hosted auth layer.
type UserID string

func (u UserID) String() string { return string(u) }

// CourseID identifies a golf course definition.
type CourseID string

func (c CourseID) String() string { return string(c) }

// RoundID is the unique identity of a round.
type RoundID uuid.UUID

// NewRoundID returns a fresh random round ID.
func NewRoundID() RoundID {
	return RoundID(uuid.New())
}

// ParseRoundID parses the string form of a round ID.
func ParseRoundID(s string) (RoundID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return RoundID{}, fmt.Errorf("invalid round ID %q: %w", s, err)
	}
	return RoundID(id), nil
}

func (id RoundID) String() string { return uuid.UUID(id).String() }

func (id RoundID) IsZero() bool { return id == RoundID{} }

func (id RoundID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *RoundID) UnmarshalText(data []byte) error {
	var u uuid.UUID
	if err := u.UnmarshalText(data); err != nil {
		return err
	}
	*id = RoundID(u)
	return nil
}

func (id RoundID) Value() (driver.Value, error) {
	return uuid.UUID(id).Value()
}

func (id *RoundID) Scan(src any) error {
	var u uuid.UUID
	if err := u.Scan(src); err != nil {
		return err
	}
	*id = RoundID(u)
	return nil
}

// RecordID is the unique identity of a handicap record snapshot.
type RecordID uuid.UUID

// NewRecordID returns a fresh random record ID.
func NewRecordID() RecordID {
	return RecordID(uuid.New())
}

func (id RecordID) String() string { return uuid.UUID(id).String() }

func (id RecordID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *RecordID) UnmarshalText(data []byte) error {
	var u uuid.UUID
	if err := u.UnmarshalText(data); err != nil {
		return err
	}
	*id = RecordID(u)
	return nil
}

func (id RecordID) Value() (driver.Value, error) {
	return uuid.UUID(id).Value()
}

func (id *RecordID) Scan(src any) error {
	var u uuid.UUID
	if err := u.Scan(src); err != nil {
		return err
	}
	*id = RecordID(u)
	return nil
}

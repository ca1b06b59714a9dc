package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	FileID    ID
	CardID    ID
	RequestID ID
)

func (id FileID) String() string    { return ID(id).String() }
func (id CardID) String() string    { return ID(id).String() }
func (id RequestID) String() string { return ID(id).String() }

// NewCardID identifies one feature-card instance.
func NewCardID() CardID { return CardID(NewID()) }

// NewRequestID tags a single outbound fetch.
func NewRequestID() RequestID { return RequestID(NewID()) }

// ParseFileID parses a string into FileID
func ParseFileID(s string) (FileID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("file ID cannot be empty")
	}
	return FileID(strings.TrimSpace(s)), nil
}

package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID
	CreatedAt      time.Time
	FirstName      string
	LastName       string
	Email          string
	HashedPassword string
	DeactivatedAt  *time.Time // nil if account is active
}

func (u User) Active() bool {
	return u.DeactivatedAt == nil
}

package usecase

import (
	"time"

	"github.com/google/uuid"
)

// ID採番（テストでは固定値）
type IDGenerator interface {
	NewID() string
}

type Clock interface {
	Now() time.Time
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

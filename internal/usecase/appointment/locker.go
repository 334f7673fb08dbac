package appointment

import (
	"context"
	"time"
)

// SlotLocker serializa o check-then-insert por (profissional, dia).
// Implementado em internal/lock sobre Redis.
type SlotLocker interface {
	Acquire(ctx context.Context, professionalID uint, day time.Time) (func(), error)
}

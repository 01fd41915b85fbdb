package ports

import (
	"context"
	"errors"
	"time"
)

// ErrLockNotObtained otro proceso tiene el lock.
var ErrLockNotObtained = errors.New("lock ocupado")

// Locker lock distribuido para que solo una instancia sincronice a la vez.
type Locker interface {
	// Obtain devuelve una función para liberar el lock, o ErrLockNotObtained.
	Obtain(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, err error)
}

package repository

import (
	"context"

	"github.com/jhoicas/authors-report/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByUsername devuelve nil, nil si no existe.
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	ListByRole(ctx context.Context, role string) ([]*entity.User, error)
	// ListContractIDs devuelve los contratos ya asignados a algún usuario.
	ListContractIDs(ctx context.Context) ([]string, error)
}

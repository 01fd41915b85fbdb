// Package author gestiona los usuarios autor y su relación con los contratos de la hoja.
package author

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/authors-report/internal/application/auth"
	"github.com/jhoicas/authors-report/internal/application/dto"
	"github.com/jhoicas/authors-report/internal/application/ports"
	"github.com/jhoicas/authors-report/internal/domain"
	"github.com/jhoicas/authors-report/internal/domain/entity"
	"github.com/jhoicas/authors-report/internal/domain/report"
	"github.com/jhoicas/authors-report/internal/domain/repository"
)

// UseCase altas y consultas de autores.
type UseCase struct {
	users  repository.UserRepository
	ledger ports.Ledger
	now    func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(users repository.UserRepository, ledger ports.Ledger) *UseCase {
	return &UseCase{users: users, ledger: ledger, now: time.Now}
}

// List usuarios con rol autor.
func (uc *UseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.users.ListByRole(ctx, entity.RoleAuthor)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *auth.ToUserResponse(u))
	}
	return out, nil
}

// Create da de alta un autor. Usuario o contrato repetidos devuelven ErrDuplicate.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateAuthorRequest) (*dto.UserResponse, error) {
	username := strings.TrimSpace(in.Username)
	contract := strings.TrimSpace(in.ContractID)
	if username == "" || contract == "" {
		return nil, domain.ErrInvalidInput
	}

	existing, err := uc.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: usuario %s", domain.ErrDuplicate, username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("author: hash: %w", err)
	}
	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         entity.RoleAuthor,
		ContractID:   &contract,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	// La unicidad del contrato la garantiza el índice users_contract_id_key.
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return auth.ToUserResponse(user), nil
}

// FreeContracts contratos de la hoja con nick válido que ningún usuario tiene asignado.
func (uc *UseCase) FreeContracts(ctx context.Context) ([]string, error) {
	rows, err := uc.ledger.AuthorRows(ctx)
	if err != nil {
		return nil, err
	}
	assigned, err := uc.users.ListContractIDs(ctx)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]struct{}, len(assigned))
	for _, c := range assigned {
		taken[strings.TrimSpace(c)] = struct{}{}
	}

	free := make([]string, 0)
	for contract, md := range report.ContractIndex(rows) {
		if md.Nick == "" || md.Nick == "-" {
			continue
		}
		if _, ok := taken[contract]; ok {
			continue
		}
		free = append(free, contract)
	}
	sort.Strings(free)
	return free, nil
}

// Nick del contrato según la hoja; ErrNotFound si no aparece.
func (uc *UseCase) Nick(ctx context.Context, contractID string) (*dto.NickResponse, error) {
	contractID = strings.TrimSpace(contractID)
	rows, err := uc.ledger.AuthorRows(ctx)
	if err != nil {
		return nil, err
	}
	md, ok := report.ContractIndex(rows)[contractID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &dto.NickResponse{ContractID: contractID, Nick: md.Nick}, nil
}

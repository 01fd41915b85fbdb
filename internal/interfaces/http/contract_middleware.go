package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/authors-report/internal/application/dto"
	"github.com/jhoicas/authors-report/internal/domain"
	"github.com/jhoicas/authors-report/internal/domain/entity"
)

// RequireContract rechaza con 403 MISSING_CONTRACT a los autores cuyo token no trae contrato.
// Los administradores pasan siempre. Debe usarse DESPUÉS de AuthMiddleware.
func RequireContract() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetRole(c) == entity.RoleAuthor && GetContractID(c) == "" {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "MISSING_CONTRACT",
				Message: domain.ErrMissingContract.Error(),
			})
		}
		return c.Next()
	}
}

// scopedContract contrato al que se limita la petición: el propio para autores
// (se ignora el parámetro) y el pedido, si lo hay, para administradores.
func scopedContract(c *fiber.Ctx, requested string) (string, error) {
	switch GetRole(c) {
	case entity.RoleAuthor:
		own := GetContractID(c)
		if own == "" {
			return "", domain.ErrMissingContract
		}
		return own, nil
	case entity.RoleAdmin:
		return strings.TrimSpace(requested), nil
	default:
		return "", domain.ErrForbidden
	}
}

package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/authors-report/internal/application/author"
	"github.com/jhoicas/authors-report/internal/application/dto"
	"github.com/jhoicas/authors-report/internal/domain"
	"github.com/jhoicas/authors-report/internal/domain/entity"
)

// AuthorHandler gestión de autores y consulta de contratos.
type AuthorHandler struct {
	uc *author.UseCase
}

// NewAuthorHandler construye el handler.
func NewAuthorHandler(uc *author.UseCase) *AuthorHandler {
	return &AuthorHandler{uc: uc}
}

// List godoc
// @Summary      Listar autores
// @Tags         authors
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   dto.UserResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/authors [get]
func (h *AuthorHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear autor
// @Tags         authors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateAuthorRequest  true  "username, password, contract_id"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/authors [post]
func (h *AuthorHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAuthorRequest
	if e := bindJSON(c, &in); e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// FreeContracts godoc
// @Summary      Contratos sin usuario
// @Tags         authors
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.FreeContractsResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/authors/free-contracts [get]
func (h *AuthorHandler) FreeContracts(c *fiber.Ctx) error {
	contracts, err := h.uc.FreeContracts(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FreeContractsResponse{Contracts: contracts})
}

// Nick godoc
// @Summary      Nick de un contrato
// @Tags         authors
// @Produce      json
// @Security     BearerAuth
// @Param        contract  path  string  true  "Número de contrato"
// @Success      200  {object}  dto.NickResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/authors/{contract}/nick [get]
func (h *AuthorHandler) Nick(c *fiber.Ctx) error {
	contract := strings.TrimSpace(c.Params("contract"))
	if contract == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INPUT", Message: "contrato requerido"})
	}
	if GetRole(c) == entity.RoleAuthor && GetContractID(c) != contract {
		return writeError(c, domain.ErrForbidden)
	}
	out, err := h.uc.Nick(c.Context(), contract)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/authors-report/internal/application/dto"
	"github.com/jhoicas/authors-report/internal/application/reports"
	"github.com/jhoicas/authors-report/internal/domain"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

// ReportHandler informes de autores en JSON, XLSX y PDF.
type ReportHandler struct {
	reports *reports.UseCase
	export  *reports.ExportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.UseCase, export *reports.ExportUseCase) *ReportHandler {
	return &ReportHandler{reports: uc, export: export}
}

// request arma la petición del caso de uso. Con scoped limita el contrato según el rol.
func (h *ReportHandler) request(c *fiber.Ctx, scoped bool) (reports.Request, error) {
	var q dto.ReportQuery
	if err := c.QueryParser(&q); err != nil {
		return reports.Request{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	period, err := reports.ParsePeriod(q.DateFrom, q.DateTo)
	if err != nil {
		return reports.Request{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	req := reports.Request{Period: period}
	if scoped {
		if req.ContractID, err = scopedContract(c, q.ContractID); err != nil {
			return reports.Request{}, err
		}
	}
	return req, nil
}

// Authors godoc
// @Summary      Informe de todos los autores
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        dateFrom  query  string  false  "YYYY-MM-DD o RFC3339"
// @Param        dateTo    query  string  false  "YYYY-MM-DD (día completo) o RFC3339"
// @Success      200  {array}   dto.ReportGroupResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Failure      504  {object}  dto.ErrorResponse
// @Router       /api/report/authors [get]
func (h *ReportHandler) Authors(c *fiber.Ctx) error {
	req, err := h.request(c, false)
	if err != nil {
		return writeError(c, err)
	}
	groups, err := h.reports.Build(c.Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(reports.ToResponse(groups))
}

// Author godoc
// @Summary      Informe de un autor
// @Description  Un autor solo ve su contrato; un administrador puede indicar contract_id.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        dateFrom     query  string  false  "YYYY-MM-DD o RFC3339"
// @Param        dateTo       query  string  false  "YYYY-MM-DD (día completo) o RFC3339"
// @Param        contract_id  query  string  false  "Solo administradores"
// @Success      200  {array}   dto.ReportGroupResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/report/author [get]
func (h *ReportHandler) Author(c *fiber.Ctx) error {
	req, err := h.request(c, true)
	if err != nil {
		return writeError(c, err)
	}
	groups, err := h.reports.Build(c.Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(reports.ToResponse(groups))
}

// ExportXLSX godoc
// @Summary      Informe de autores en Excel
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        dateFrom  query  string  false  "YYYY-MM-DD o RFC3339"
// @Param        dateTo    query  string  false  "YYYY-MM-DD o RFC3339"
// @Success      200
// @Router       /api/report/authors/export.xlsx [get]
func (h *ReportHandler) ExportXLSX(c *fiber.Ctx) error {
	req, err := h.request(c, false)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.export.XLSX(c.Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	c.Attachment("authors-report.xlsx")
	c.Set(fiber.HeaderContentType, contentTypeXLSX)
	return c.Send(out)
}

// ExportPDF godoc
// @Summary      Informe de un autor en PDF
// @Tags         reports
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        dateFrom     query  string  false  "YYYY-MM-DD o RFC3339"
// @Param        dateTo       query  string  false  "YYYY-MM-DD o RFC3339"
// @Param        contract_id  query  string  false  "Solo administradores"
// @Success      200
// @Router       /api/report/author/export.pdf [get]
func (h *ReportHandler) ExportPDF(c *fiber.Ctx) error {
	req, err := h.request(c, true)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.export.PDF(c.Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	name := "author-report.pdf"
	if req.ContractID != "" {
		name = "author-report-" + req.ContractID + ".pdf"
	}
	c.Attachment(name)
	c.Set(fiber.HeaderContentType, contentTypePDF)
	return c.Send(out)
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/authors-report/internal/application/dto"
	"github.com/jhoicas/authors-report/internal/application/ingestion"
)

// SyncHandler lanza una sincronización bajo demanda.
type SyncHandler struct {
	runner ingestion.Runner
}

// NewSyncHandler construye el handler.
func NewSyncHandler(runner ingestion.Runner) *SyncHandler {
	return &SyncHandler{runner: runner}
}

// Run godoc
// @Summary      Sincronizar ventas ahora
// @Tags         sync
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.SyncResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/sync/run [post]
func (h *SyncHandler) Run(c *fiber.Ctx) error {
	stats, err := h.runner.Run(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.SyncResponse{
		FetchedSales:  stats.Sales,
		AcceptedSales: stats.Accepted,
		SkippedSales:  stats.Skipped,
		Records:       stats.Records,
	})
}

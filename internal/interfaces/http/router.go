package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/authors-report/internal/application/auth"
	"github.com/jhoicas/authors-report/internal/application/author"
	"github.com/jhoicas/authors-report/internal/application/ingestion"
	"github.com/jhoicas/authors-report/internal/application/reports"
	"github.com/jhoicas/authors-report/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	AuthorUC  *author.UseCase
	ReportUC  *reports.UseCase
	ExportUC  *reports.ExportUseCase
	Sync      ingestion.Runner
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)
	anyRole := RequireRole(entity.RoleAdmin, entity.RoleAuthor)

	// Informes
	reportHandler := NewReportHandler(deps.ReportUC, deps.ExportUC)
	reportGroup := protected.Group("/report")
	reportGroup.Get("/authors", adminOnly, reportHandler.Authors)
	reportGroup.Get("/authors/export.xlsx", adminOnly, reportHandler.ExportXLSX)
	reportGroup.Get("/author", anyRole, RequireContract(), reportHandler.Author)
	reportGroup.Get("/author/export.pdf", anyRole, RequireContract(), reportHandler.ExportPDF)

	// Autores
	authorHandler := NewAuthorHandler(deps.AuthorUC)
	authors := protected.Group("/authors")
	authors.Get("/", adminOnly, authorHandler.List)
	authors.Post("/", adminOnly, authorHandler.Create)
	authors.Get("/free-contracts", adminOnly, authorHandler.FreeContracts)
	authors.Get("/:contract/nick", anyRole, authorHandler.Nick)

	// Sincronización manual
	if deps.Sync != nil {
		syncHandler := NewSyncHandler(deps.Sync)
		protected.Post("/sync/run", adminOnly, syncHandler.Run)
	}
}

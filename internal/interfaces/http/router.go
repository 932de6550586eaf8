package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aerostock/aerostock-api/internal/application/auth"
	"github.com/aerostock/aerostock-api/internal/application/usecase"
	"github.com/aerostock/aerostock-api/internal/application/voucher"
	"github.com/aerostock/aerostock-api/internal/domain/authz"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	ItemUC        *usecase.ItemUseCase
	UserUC        *usecase.UserUseCase
	MaintenanceUC *usecase.MaintenanceUseCase
	DashboardUC   *usecase.DashboardUseCase
	WorkflowUC    *voucher.WorkflowUseCase
	QueryUC       *voucher.QueryUseCase
	PDFUC         *voucher.PDFUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
//
// RequireRole replica en la capa HTTP la misma tabla de capacidades que valida
// cada caso de uso (authz.RolesFor): el rechazo temprano da un 403 antes de
// tocar la aplicación, y el chequeo en el caso de uso sigue siendo la
// autoridad final. Las rutas de consulta de vales no llevan RequireRole porque
// la visibilidad por rol la resuelve el propio caso de uso.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Items (protegido)
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Post("/", RequireRole(authz.RolesFor(authz.CapEditItem)...), itemHandler.Create)
	items.Put("/:id", RequireRole(authz.RolesFor(authz.CapEditItem)...), itemHandler.Update)
	items.Delete("/:id", RequireRole(authz.RolesFor(authz.CapDeleteItem)...), itemHandler.Delete)

	// Vouchers (protegido)
	vouchers := protected.Group("/vouchers")
	voucherHandler := NewVoucherHandler(deps.WorkflowUC, deps.QueryUC, deps.PDFUC)
	vouchers.Get("/", voucherHandler.List)
	vouchers.Get("/:id", voucherHandler.GetByID)
	vouchers.Get("/:id/pdf", voucherHandler.PDF)
	vouchers.Post("/", RequireRole(authz.RolesFor(authz.CapCreateVoucher)...), voucherHandler.Create)
	vouchers.Post("/:id/approve", RequireRole(authz.RolesFor(authz.CapApproveVoucher)...), voucherHandler.Approve)
	vouchers.Post("/:id/reject", RequireRole(authz.RolesFor(authz.CapApproveVoucher)...), voucherHandler.Reject)
	vouchers.Post("/:id/issue", RequireRole(authz.RolesFor(authz.CapIssueVoucher)...), voucherHandler.Issue)
	vouchers.Post("/:id/complete", RequireRole(authz.RolesFor(authz.CapCompleteVoucher)...), voucherHandler.Complete)

	// Users (solo admin)
	users := protected.Group("/users", RequireRole(authz.RolesFor(authz.CapManageUsers)...))
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Put("/:id", userHandler.Update)

	// Maintenance (protegido)
	maintenanceHandler := NewMaintenanceHandler(deps.MaintenanceUC)
	maintenance := protected.Group("/maintenance")
	maintenance.Get("/", maintenanceHandler.ListByRange)
	maintenance.Post("/", RequireRole(authz.RolesFor(authz.CapManageMaintenance)...), maintenanceHandler.Schedule)
	maintenance.Put("/:id", RequireRole(authz.RolesFor(authz.CapManageMaintenance)...), maintenanceHandler.Update)
	maintenance.Delete("/:id", RequireRole(authz.RolesFor(authz.CapManageMaintenance)...), maintenanceHandler.Delete)
	items.Get("/:itemId/maintenance", maintenanceHandler.ListByItem)

	// Dashboard (cualquier usuario autenticado)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", dashboardHandler.Summary)
}

package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/vyaparbooks/voucher_engine_app/cmd/docs"
	portssvc "github.com/vyaparbooks/voucher_engine_app/internal/core/ports/services"
	"github.com/vyaparbooks/voucher_engine_app/internal/middleware"
	"github.com/vyaparbooks/voucher_engine_app/pkg/config"
)

// RegisterRoutes wires every handler group onto the engine. All business
// routes live under /api/v1 and require the tenant scope headers.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	r.GET("/", home)
	r.GET("/health", health)

	setupAPIV1Routes(r, services)
	setupSwaggerRoutes(r, cfg)
}

func setupAPIV1Routes(r *gin.Engine, services *portssvc.ServiceContainer) {
	v1 := r.Group("/api/v1", middleware.TenantScopeMiddleware())

	RegisterVoucherRoutes(v1, services.Voucher)
	registerLedgerRoutes(v1, services.Ledger, services.Voucher)
	registerInventoryRoutes(v1, services.Inventory)
	registerNumberingRoutes(v1, services.Numbering)
	registerFiscalRoutes(v1, services.Fiscal)
}

func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

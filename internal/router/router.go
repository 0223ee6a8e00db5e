package router

import (
	"net/http"
	"time"

	"github.com/blues/aidlink/internal/auth"
	"github.com/blues/aidlink/internal/handler"
	"github.com/blues/aidlink/internal/logic"
	"github.com/blues/aidlink/internal/model"
	"github.com/blues/aidlink/internal/notifier"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps 路由依赖
type Deps struct {
	API          *logic.Facade
	Issuer       *auth.Issuer
	Transactions *notifier.Hub[model.Transaction]
	Events       *notifier.Hub[model.BlockchainEvent]
	Gatherer     prometheus.Gatherer // 为 nil 时使用默认注册表
}

func Setup(deps Deps) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "aidlink-service",
		})
	})

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	donorOnly := handler.AuthMiddleware(deps.Issuer, model.RoleDonor)
	institutionOnly := handler.AuthMiddleware(deps.Issuer, model.RoleInstitution)
	supplierOnly := handler.AuthMiddleware(deps.Issuer, model.RoleSupplier)
	anyUser := handler.AuthMiddleware(deps.Issuer)

	// API版本组
	v1 := r.Group("/api/v1")
	{
		authHandler := handler.NewAuthHandler(deps.API)
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/signup", authHandler.Signup)
		}

		requestHandler := handler.NewRequestHandler(deps.API)
		v1.GET("/requests/open", donorOnly, requestHandler.GetOpenRequests)
		v1.POST("/requests/:id/donations", donorOnly, requestHandler.Donate)
		v1.GET("/donor/dashboard", donorOnly, requestHandler.GetDonorDashboard)
		v1.POST("/requests", institutionOnly, requestHandler.CreateRequest)
		v1.GET("/institution/requests", institutionOnly, requestHandler.GetInstitutionRequests)

		transactionHandler := handler.NewTransactionHandler(deps.API)
		v1.GET("/supplier/transactions", supplierOnly, transactionHandler.GetSupplierTransactions)
		v1.POST("/transactions/:id/delivery", supplierOnly, transactionHandler.ConfirmDelivery)

		eventHandler := handler.NewEventHandler(deps.API)
		v1.GET("/explorer/events", eventHandler.GetPastEvents)

		ws := v1.Group("/ws")
		{
			ws.GET("/transactions", anyUser, handler.Stream(deps.Transactions, "transaction"))
			ws.GET("/events", handler.Stream(deps.Events, "blockchain_event"))
		}
	}

	return r
}

// corsMiddleware 跨域配置
func corsMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	})
}

package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"fashionhub-backend/internal/api/handler"
	"fashionhub-backend/internal/api/middleware"
	"fashionhub-backend/internal/config"
	"fashionhub-backend/internal/service"
	"fashionhub-backend/internal/store"
)

type Handlers struct {
	User    *handler.UserHandler
	Product *handler.ProductHandler
	Cart    *handler.CartHandler
	Order   *handler.OrderHandler
}

// NewRouter wires middleware and the /api/v1 route tree.
func NewRouter(cfg *config.Config, logger zerolog.Logger, h Handlers,
	auth *service.AuthService, users store.UserStore) *gin.Engine {

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger))
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "active", "message": "Fashion Hub API is working"})
	})

	authed := middleware.Auth(auth, users)
	admin := middleware.Admin()

	v1 := r.Group("/api/v1")
	{
		user := v1.Group("/user")
		{
			user.POST("/register", h.User.Register)
			user.POST("/login", h.User.Login)
			user.GET("/logout", h.User.Logout)
			user.GET("/all", authed, admin, h.User.ListUsers)
		}

		product := v1.Group("/product")
		{
			product.GET("/", h.Product.List)
			product.GET("/:id", h.Product.Get)
			product.POST("/", authed, admin, h.Product.Create)
			product.PUT("/:id", authed, admin, h.Product.Update)
			product.DELETE("/:id", authed, admin, h.Product.Delete)
		}

		cart := v1.Group("/cart", authed)
		{
			cart.POST("/add", h.Cart.Add)
			cart.POST("/remove", h.Cart.Remove)
			cart.GET("/view", h.Cart.View)
		}

		order := v1.Group("/order")
		{
			order.POST("/create", authed, h.Order.Create)
			order.GET("/my-orders", authed, h.Order.MyOrders)
			// Gateway callback; intentionally unauthenticated.
			order.POST("/verify-upi", h.Order.VerifyUPI)
			order.GET("/:orderId", authed, h.Order.Get)
			order.POST("/:orderId/cancel", authed, h.Order.Cancel)
			order.PUT("/:orderId/status", authed, admin, h.Order.UpdateStatus)
		}
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}
	if len(origins) == 1 && origins[0] == "*" {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

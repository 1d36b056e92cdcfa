// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	CategoryHandler *handler.CategoryHandler
	ProductHandler  *handler.ProductHandler
	ReviewHandler   *handler.ReviewHandler
	UserHandler     *handler.UserHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	categoryHandler *handler.CategoryHandler
	productHandler  *handler.ProductHandler
	reviewHandler   *handler.ReviewHandler
	userHandler     *handler.UserHandler
	authMiddleware  *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		categoryHandler: params.CategoryHandler,
		productHandler:  params.ProductHandler,
		reviewHandler:   params.ReviewHandler,
		userHandler:     params.UserHandler,
		authMiddleware:  params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Registration and token routes need no prior authentication.
	authGroup := e.Group("/users")
	{
		authGroup.POST("/register", r.userHandler.Register)
		authGroup.POST("/token", r.userHandler.Login)
		authGroup.POST("/refresh", r.userHandler.Refresh)
		authGroup.POST("/logout", r.userHandler.Logout)
	}

	// Category management carries no role restriction.
	categoryGroup := e.Group("/categories")
	{
		categoryGroup.GET("", r.categoryHandler.ListCategories)
		categoryGroup.GET("/:id", r.categoryHandler.GetCategory)
		categoryGroup.POST("", r.categoryHandler.CreateCategory)
		categoryGroup.PUT("/:id", r.categoryHandler.UpdateCategory)
		categoryGroup.DELETE("/:id", r.categoryHandler.DeleteCategory)
	}

	// Product reads are public. Mutations require a logged-in seller,
	// which the usecase layer enforces per product owner.
	productGroup := e.Group("/products")
	{
		productGroup.GET("", r.productHandler.ListProducts)
		productGroup.GET("/:id", r.productHandler.GetProduct)
		productGroup.GET("/category/:id", r.productHandler.GetProductsByCategory)
		productGroup.GET("/:id/reviews", r.reviewHandler.GetReviewsByProduct)
	}
	productAuthGroup := e.Group("/products")
	productAuthGroup.Use(r.authMiddleware.Authenticate)
	{
		productAuthGroup.POST("", r.productHandler.CreateProduct)
		productAuthGroup.PUT("/:id", r.productHandler.UpdateProduct)
		productAuthGroup.DELETE("/:id", r.productHandler.DeleteProduct)
	}

	// Review reads are public. Writing requires authentication and the
	// usecase layer restricts edits to the author or an admin.
	reviewGroup := e.Group("/reviews")
	{
		reviewGroup.GET("", r.reviewHandler.ListReviews)
		reviewGroup.GET("/:id", r.reviewHandler.GetReview)
	}
	reviewAuthGroup := e.Group("/reviews")
	reviewAuthGroup.Use(r.authMiddleware.Authenticate)
	{
		reviewAuthGroup.POST("", r.reviewHandler.CreateReview)
		reviewAuthGroup.PUT("/:id", r.reviewHandler.UpdateReview)
		reviewAuthGroup.DELETE("/:id", r.reviewHandler.DeleteReview)
	}

	// User routes that require authentication
	userGroup := e.Group("/users")
	userGroup.Use(r.authMiddleware.Authenticate)
	{
		userGroup.GET("/me", r.userHandler.GetProfile)
		userGroup.GET("/:id", r.userHandler.GetUser)
		userGroup.PUT("/:id", r.userHandler.UpdateUser)
		userGroup.DELETE("/:id", r.userHandler.DeleteUser)
	}

	// Listing every account is an administrative concern.
	userAdminGroup := e.Group("/users")
	userAdminGroup.Use(r.authMiddleware.Authenticate)
	userAdminGroup.Use(r.authMiddleware.RequireRole("admin"))
	{
		userAdminGroup.GET("", r.userHandler.ListUsers)
	}
}

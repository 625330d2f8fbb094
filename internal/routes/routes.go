package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/example/novawear/internal/config"
	"github.com/example/novawear/internal/handlers"
	"github.com/example/novawear/internal/middleware"
	"github.com/example/novawear/internal/repository"
	"github.com/example/novawear/internal/services"
)

// Register wires repositories, services, and handlers onto the app.
func Register(app *fiber.App, db *gorm.DB, rdb *redis.Client, mailer services.Mailer, cfg *config.Config) {
	users := repository.NewUserRepository(db)
	products := repository.NewProductRepository(db)
	carts := repository.NewCartRepository(db)
	orders := repository.NewOrderRepository(db)

	authService := services.NewAuthService(users, mailer, cfg)
	cartService := services.NewCartService(carts, products)
	checkoutService := services.NewCheckoutService(carts, orders)

	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(products)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(checkoutService)

	requireAuth := middleware.AuthMiddleware(cfg, users)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", requireAuth, authHandler.Me)
	auth.Post("/forgot", middleware.ForgotPasswordRateLimit(rdb), authHandler.ForgotPassword)
	auth.Post("/reset/:token", authHandler.ResetPassword)

	productsGroup := api.Group("/products")
	productsGroup.Get("/", productHandler.ListProducts)
	// Must precede the :id route or fiber would try "categories" as an ID.
	productsGroup.Get("/categories", productHandler.ListCategories)
	productsGroup.Get("/:id", productHandler.GetProduct)
	productsGroup.Post("/", requireAuth, middleware.RequireAdmin(), productHandler.CreateProduct)
	productsGroup.Put("/:id", requireAuth, middleware.RequireAdmin(), productHandler.UpdateProduct)
	productsGroup.Delete("/:id", requireAuth, middleware.RequireAdmin(), productHandler.DeleteProduct)

	cart := api.Group("/cart", requireAuth)
	cart.Get("/", cartHandler.GetCart)
	cart.Post("/item", cartHandler.AddItem)
	cart.Put("/item/:productId", cartHandler.UpdateItem)
	cart.Delete("/item/:productId", cartHandler.RemoveItem)
	cart.Post("/checkout", orderHandler.Checkout)

	ordersGroup := api.Group("/orders", requireAuth)
	ordersGroup.Get("/", orderHandler.ListOrders)
	ordersGroup.Get("/:id", orderHandler.GetOrder)
}

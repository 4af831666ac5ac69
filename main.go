package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/model-map/greenCart/internal/checkout"
	"github.com/model-map/greenCart/internal/config"
	"github.com/model-map/greenCart/internal/database"
	"github.com/model-map/greenCart/internal/handlers"
	"github.com/model-map/greenCart/internal/middleware"
	"github.com/model-map/greenCart/internal/payment"
	"github.com/model-map/greenCart/internal/store"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("order index warning: %v", err)
	}
	if err := database.EnsureWebhookEventIndexes(db); err != nil {
		log.Printf("webhook event index warning: %v", err)
	}

	products := store.NewMongoProductStore(db)
	orders := store.NewMongoOrderStore(db)
	carts := store.NewMongoCartStore(db)
	ledger := store.NewMongoEventLedger(db)
	gateway := payment.NewStripeGateway(config.AppEnv.Stripe)

	service := checkout.NewService(products, orders, gateway, config.AppEnv.Currency)
	processor := checkout.NewProcessor(gateway, orders, carts, ledger, config.AppEnv.Stripe.WebhookSecret)

	reaper := checkout.NewReaper(orders, config.AppEnv.PendingOrderTTL)
	go reaper.Run(context.Background())

	r := gin.Default()

	// Raw body route; signature verification needs the unparsed payload.
	r.POST("/stripe", handlers.StripeWebhook(processor))

	userAuth := middleware.UserAuth(config.AppEnv.JWTSecret)
	sellerAuth := middleware.SellerAuth(config.AppEnv.JWTSecret, config.AppEnv.SellerEmail)

	user := r.Group("/api/user")
	{
		user.POST("/register", handlers.Register(db, config.AppEnv.JWTSecret))
		user.POST("/login", handlers.Login(db, config.AppEnv.JWTSecret))
		user.GET("/is-auth", userAuth, handlers.IsAuth(db))
		user.GET("/logout", handlers.Logout())
	}

	seller := r.Group("/api/seller")
	{
		seller.POST("/login", handlers.SellerLogin(
			config.AppEnv.JWTSecret,
			config.AppEnv.SellerEmail,
			config.AppEnv.SellerPassword,
		))
		seller.GET("/is-auth", sellerAuth, handlers.SellerIsAuth())
		seller.GET("/logout", handlers.SellerLogout())
	}

	product := r.Group("/api/product")
	{
		product.POST("/add", sellerAuth, handlers.AddProduct(db))
		product.GET("/list", handlers.ProductList(db))
		product.POST("/id", handlers.ProductByID(db))
		product.POST("/stock", sellerAuth, handlers.ChangeStock(db))
	}

	r.POST("/api/cart/update", userAuth, handlers.UpdateCart(carts))

	address := r.Group("/api/address")
	address.Use(userAuth)
	{
		address.POST("/add", handlers.AddAddress(db))
		address.GET("/get", handlers.GetAddress(db))
	}

	order := r.Group("/api/order")
	{
		order.POST("/cod", userAuth, handlers.PlaceOrderCOD(service))
		order.POST("/online", userAuth, handlers.PlaceOrderOnline(service))
		order.GET("/user", userAuth, handlers.GetUserOrders(service))
		order.GET("/seller", sellerAuth, handlers.GetSellerOrders(service))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	r.Run(":" + port)
}

package main

import (
	"log"
	"time"

	"restaurant-pos/config"
	"restaurant-pos/internal/handler"
	"restaurant-pos/internal/middleware"
	"restaurant-pos/internal/models"
	"restaurant-pos/internal/service"
	"restaurant-pos/pkg/database"
	"restaurant-pos/pkg/printer"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// 1. Load Configuration
	config.LoadConfig()

	// 2. Connect to Database
	database.Connect()

	// 3. Auto-Migrate Models
	log.Println("Running migrations...")

	err := database.DB.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.LoginHistory{},
		&models.Room{},
		&models.Table{},
		&models.MealCategory{},
		&models.Meal{},
		&models.InventoryItem{},
		&models.MealIngredient{},
		&models.InventoryMovement{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderItemDeletionLog{},
		&models.Payment{},
		&models.PaymentMethod{},
		&models.Shift{},
		&models.Report{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migrations completed successfully.")

	// 3a. Seed Data
	database.SeedRolesAndAdmin()

	// 4. Wire Services
	inventoryService := service.NewInventoryService(database.DB)
	orderService := service.NewOrderService(database.DB, inventoryService)
	paymentService := service.NewPaymentService(database.DB, printer.LogPrinter{}, config.AppConfig.Defaults.RestaurantName)
	shiftService := service.NewShiftService(database.DB)

	// 5. Initialize Router
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 6. Setup Routes
	authHandler := &handler.AuthHandler{}
	authRoutes := r.Group("/api/v1/auth")
	{
		authRoutes.POST("/login", authHandler.Login)
	}

	userRoutes := r.Group("/api/v1/user")
	userRoutes.Use(middleware.AuthMiddleware())
	{
		userRoutes.PUT("/password", authHandler.ChangePassword)
	}

	orderHandler := &handler.OrderHandler{Orders: orderService}
	tableRoutes := r.Group("/api/v1/tables")
	tableRoutes.Use(middleware.AuthMiddleware("admin", "manager", "waitress"))
	{
		tableRoutes.POST("/:table_id/orders", orderHandler.CreateOrder)
		tableRoutes.GET("/:table_id/orders", orderHandler.TableOrders)
		tableRoutes.POST("/:table_id/items", orderHandler.AddItem)
		tableRoutes.POST("/:table_id/items/decrement", orderHandler.DecrementItem)
		tableRoutes.POST("/:table_id/confirm", orderHandler.ConfirmOrder)
	}

	itemRoutes := r.Group("/api/v1/items")
	itemRoutes.Use(middleware.AuthMiddleware("admin", "manager"))
	{
		itemRoutes.DELETE("/:item_id", orderHandler.DeleteItem)
		itemRoutes.PUT("/:item_id/quantity", orderHandler.SetQuantity)
		itemRoutes.PUT("/:item_id/comment", orderHandler.SetItemComment)
		itemRoutes.POST("/:item_id/transfer", orderHandler.TransferItem)
	}

	orderRoutes := r.Group("/api/v1/orders")
	orderRoutes.Use(middleware.AuthMiddleware("admin", "manager"))
	{
		orderRoutes.GET("", orderHandler.ListOrders)
		orderRoutes.PUT("/:order_id/waitress", orderHandler.ChangeWaitress)
	}

	paymentHandler := &handler.PaymentHandler{Payments: paymentService}
	paymentRoutes := r.Group("/api/v1/payments")
	paymentRoutes.Use(middleware.AuthMiddleware("admin", "manager"))
	{
		paymentRoutes.POST("/tables/:table_id", paymentHandler.Settle)
		paymentRoutes.GET("", paymentHandler.ListPayments)
	}

	inventoryHandler := &handler.InventoryHandler{Inventory: inventoryService}
	invRoutes := r.Group("/api/v1/inventory")
	invRoutes.Use(middleware.AuthMiddleware("admin", "manager"))
	{
		invRoutes.GET("/items", inventoryHandler.ListItems)
		invRoutes.POST("/items", inventoryHandler.CreateItem)
		invRoutes.GET("/items/:item_id/stock", inventoryHandler.Stock)
		invRoutes.POST("/items/:item_id/purchase", inventoryHandler.Purchase)
		invRoutes.POST("/items/:item_id/adjust", inventoryHandler.Adjust)
		invRoutes.GET("/items/:item_id/movements", inventoryHandler.Movements)
		invRoutes.GET("/alerts", inventoryHandler.LowStockAlerts)
		invRoutes.PUT("/meals/:meal_id/mapping", inventoryHandler.SetMealMapping)
		invRoutes.GET("/meals/:meal_id/mapping", inventoryHandler.MealMapping)
	}

	shiftHandler := &handler.ShiftHandler{Shifts: shiftService}
	shiftRoutes := r.Group("/api/v1/shifts")
	shiftRoutes.Use(middleware.AuthMiddleware("admin", "manager"))
	{
		shiftRoutes.POST("", shiftHandler.StartShift)
		shiftRoutes.GET("/current", shiftHandler.CurrentShift)
		shiftRoutes.POST("/:shift_id/recompute", shiftHandler.RecomputeShift)
		shiftRoutes.POST("/:shift_id/close", shiftHandler.CloseShift)
	}

	reportRoutes := r.Group("/api/v1/reports")
	reportRoutes.Use(middleware.AuthMiddleware("admin", "manager"))
	{
		reportRoutes.GET("/window", shiftHandler.WindowReport)
		reportRoutes.GET("/daily", shiftHandler.DailyReport)
		reportRoutes.GET("/monthly", shiftHandler.MonthlyReport)
		reportRoutes.GET("/yearly", shiftHandler.YearlyReport)
		reportRoutes.GET("/per-waitress", shiftHandler.PerWaitressSales)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// 7. Start Server
	port := config.AppConfig.Server.Port
	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

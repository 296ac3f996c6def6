package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-inventory-api/internal/handler"
	"go-inventory-api/internal/mailer"
	"go-inventory-api/internal/middleware"
	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"
	"go-inventory-api/internal/service"
	"go-inventory-api/internal/ws"
	"go-inventory-api/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(
		&model.Privilege{}, &model.Role{}, &model.User{}, &model.OtpCode{},
		&model.Supplier{}, &model.Product{}, &model.StockTransaction{},
		&model.PurchaseOrder{}, &model.Sale{},
	)

	// 3. Seed default privileges, roles, and admin user
	seedPrivilegesRolesAndAdmin(db)

	// 4. Setup WebSocket Hub and Mailer
	wsHub := ws.NewHub()
	go wsHub.Run()
	mail := mailer.NewFromEnv()

	// 5. Dependency Injection (Wiring Layers)
	supplierRepo := repository.NewSupplierRepo(db)
	productRepo := repository.NewProductRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	purchaseRepo := repository.NewPurchaseRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	reportRepo := repository.NewReportRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	otpRepo := repository.NewOtpRepo(db)

	catalogService := service.NewCatalogService(supplierRepo, productRepo)
	ledgerService := service.NewLedgerService(productRepo, txRepo, db, mail, wsHub)
	orderService := service.NewOrderService(purchaseRepo, saleRepo, productRepo, supplierRepo, ledgerService, db, mail, wsHub)
	reportService := service.NewReportService(reportRepo, txRepo, userRepo)
	authService := service.NewAuthService(userRepo, roleRepo, otpRepo, mail, wsHub)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)

	authHandler := handler.NewAuthHandler(authService)
	supplierHandler := handler.NewSupplierHandler(catalogService)
	productHandler := handler.NewProductHandler(catalogService)
	txHandler := handler.NewTransactionHandler(ledgerService)
	purchaseHandler := handler.NewPurchaseHandler(orderService)
	saleHandler := handler.NewSaleHandler(orderService)
	reportHandler := handler.NewReportHandler(reportService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo, privilegeRepo)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Inventory API v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	// Auth Routes (No authentication required)
	auth := api.Group("/auth")
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/verify-otp", authHandler.VerifyOtp)
	auth.Post("/resend-otp", authHandler.ResendOtp)
	auth.Post("/login", authHandler.Login)
	auth.Post("/request-otp", authHandler.RequestPasswordOtp)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	// All routes below require authentication
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Supplier Routes (with privilege checks)
	protected.Get("/suppliers", middleware.RequirePrivilege("supplier:view"), supplierHandler.List)
	protected.Get("/suppliers/:slug", middleware.RequirePrivilege("supplier:view"), supplierHandler.Get)
	protected.Post("/suppliers", middleware.RequirePrivilege("supplier:create"), supplierHandler.Create)
	protected.Put("/suppliers/:slug", middleware.RequirePrivilege("supplier:update"), supplierHandler.Update)
	protected.Delete("/suppliers/:slug", middleware.RequirePrivilege("supplier:delete"), supplierHandler.Delete)

	// Product Routes
	protected.Get("/products", middleware.RequirePrivilege("product:view"), productHandler.List)
	protected.Get("/products/:slug", middleware.RequirePrivilege("product:view"), productHandler.Get)
	protected.Post("/products", middleware.RequirePrivilege("product:create"), productHandler.Create)
	protected.Put("/products/:slug", middleware.RequirePrivilege("product:update"), productHandler.Update)
	protected.Delete("/products/:slug", middleware.RequirePrivilege("product:delete"), productHandler.Delete)

	// Stock Transaction Routes
	protected.Get("/transactions", middleware.RequirePrivilege("transaction:view"), txHandler.List)
	protected.Get("/transactions/:id", middleware.RequirePrivilege("transaction:view"), txHandler.Get)
	protected.Post("/transactions", middleware.RequirePrivilege("transaction:create"), txHandler.Create)

	// Purchase Order Routes
	protected.Get("/purchases", middleware.RequirePrivilege("purchase:view"), purchaseHandler.List)
	protected.Get("/purchases/:id", middleware.RequirePrivilege("purchase:view"), purchaseHandler.Get)
	protected.Post("/purchases", middleware.RequirePrivilege("purchase:create"), purchaseHandler.Create)
	protected.Post("/purchases/:id/complete", middleware.RequirePrivilege("purchase:complete"), purchaseHandler.Complete)

	// Sale Routes
	protected.Get("/sales", middleware.RequirePrivilege("sale:view"), saleHandler.List)
	protected.Get("/sales/:id", middleware.RequirePrivilege("sale:view"), saleHandler.Get)
	protected.Post("/sales", middleware.RequirePrivilege("sale:create"), saleHandler.Create)
	protected.Post("/sales/:id/complete", middleware.RequirePrivilege("sale:complete"), saleHandler.Complete)

	// Report Routes (manager only via report:view)
	reports := protected.Group("/reports", middleware.RequirePrivilege("report:view"))
	reports.Get("/sales", reportHandler.Sales)
	reports.Get("/purchases", reportHandler.Purchases)
	reports.Get("/stock", reportHandler.Stock)
	reports.Get("/profit", reportHandler.Profit)
	reports.Get("/top-products", reportHandler.TopProducts)
	reports.Get("/top-sellers", reportHandler.TopSellers)
	reports.Get("/stock-movement", reportHandler.StockMovement)

	// User Management Routes
	protected.Get("/users", userHandler.GetUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdateUserPrivileges)

	// Role Routes
	protected.Get("/roles", roleHandler.GetRoles)
	protected.Get("/privileges", roleHandler.GetPrivileges)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedPrivilegesRolesAndAdmin creates default privileges, roles, and admin user if they don't exist
func seedPrivilegesRolesAndAdmin(db *gorm.DB) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	// 1. Seed privileges first
	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed privileges: %v", err)
	}

	// 2. Seed roles
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	// 3. Assign privileges to roles
	allPrivileges, _ := privilegeRepo.FindAll()

	// MANAGER gets ALL privileges
	managerRole, err := roleRepo.FindByCode(model.RoleManager)
	if err == nil && len(managerRole.Privileges) == 0 {
		db.Model(&managerRole).Association("Privileges").Replace(allPrivileges)
		log.Println("MANAGER role assigned all privileges")
	}

	// STAFF gets the sales-floor subset
	staffRole, err := roleRepo.FindByCode(model.RoleStaff)
	if err == nil && len(staffRole.Privileges) == 0 {
		staffPrivileges, err := privilegeRepo.FindByCodes(model.StaffPrivilegeCodes)
		if err != nil {
			log.Printf("Warning: Failed to load staff privileges: %v", err)
		} else {
			db.Model(&staffRole).Association("Privileges").Replace(staffPrivileges)
			log.Println("STAFF role assigned default privileges")
		}
	}

	// 4. Create default manager user
	_, err = userRepo.FindByEmail("admin@example.com")
	if err != nil {
		managerRole, _ := roleRepo.FindByCode(model.RoleManager)

		admin := &model.User{
			Email:       "admin@example.com",
			FullName:    "Inventory Manager",
			PhoneNumber: "",
			RoleID:      &managerRole.ID,
			IsActive:    true,
			Privileges:  managerRole.Privileges,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		if err := admin.SetPassword("admin123"); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}

		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Println("Admin user created: admin@example.com / admin123 (MANAGER)")
		}
	}
}

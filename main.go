package main

import (
	"time"

	"coinwallet/config"
	walletController "coinwallet/controllers/wallet"
	"coinwallet/database"
	"coinwallet/ledger"
	walletRoutes "coinwallet/routers/walletRoutes"
	"coinwallet/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"log"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	store := ledger.NewGormStore(database.Database.Db)
	policy := ledger.NewPolicy(database.Database.Db, time.Duration(config.AppConfig.SettingsCacheTTLSeconds)*time.Second)
	engine := ledger.NewEngine(store, policy)
	walletController.Setup(engine, policy)

	utils.InitializeExpiryScheduler(engine)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	walletRoutes.SetupWalletRoutes(app)

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}

package walletRoutes

import (
	walletController "coinwallet/controllers/wallet"
	"coinwallet/middleware"
	walletValidator "coinwallet/validators/wallet"

	"github.com/gofiber/fiber/v2"
)

func SetupWalletRoutes(app *fiber.App) {
	walletGroup := app.Group("/wallet")

	// User routes
	walletGroup.Get("/", middleware.JWTMiddleware, walletController.GetWallet)
	walletGroup.Get("/history", middleware.JWTMiddleware, walletController.GetWalletHistory)
	walletGroup.Get("/vouchers", middleware.JWTMiddleware, walletController.GetVouchers)
	walletGroup.Post("/redeem", walletValidator.Redeem(), middleware.JWTMiddleware, walletController.RedeemCoins)
	walletGroup.Post("/checkout/spend", walletValidator.SpendRedeemed(), middleware.JWTMiddleware, walletController.SpendAtCheckout)
	walletGroup.Post("/reward/first-purchase", walletValidator.FirstPurchase(), middleware.JWTMiddleware, walletController.ClaimFirstPurchaseReward)

	// Admin routes
	adminGroup := walletGroup.Group("/admin")
	adminGroup.Get("/user-wallet", middleware.JWTMiddleware, walletController.GetUserWallet)
	adminGroup.Get("/user-history", middleware.JWTMiddleware, walletController.GetUserWalletHistory)
	adminGroup.Post("/refund", walletValidator.Refund(), middleware.JWTMiddleware, walletController.RefundCoins)
	adminGroup.Post("/adjust", walletValidator.ManualAdjustment(), middleware.JWTMiddleware, walletController.ManualAdjustment)
	adminGroup.Post("/expire", middleware.JWTMiddleware, walletController.RunExpirySweep)
	adminGroup.Get("/settings", middleware.JWTMiddleware, walletController.GetSettings)
	adminGroup.Put("/settings", middleware.JWTMiddleware, walletController.UpdateSettings)
}

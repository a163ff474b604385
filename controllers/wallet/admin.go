package walletController

import (
	"time"

	"coinwallet/database"
	"coinwallet/ledger"
	"coinwallet/middleware"
	"coinwallet/models"
	"coinwallet/utils"

	"github.com/gofiber/fiber/v2"
)

// requireAdmin loads the caller and checks for an admin role
func requireAdmin(c *fiber.Ctx) (*models.User, bool) {
	userId := c.Locals("userId").(uint)

	var admin models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false AND role IN ?", userId, []string{"ADMIN", "SUPER-ADMIN"}).First(&admin).Error; err != nil {
		return nil, false
	}
	return &admin, true
}

// GetUserWallet returns a specific user's wallet (Admin only)
func GetUserWallet(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied! Admin role required.", nil)
	}

	targetUserId := c.QueryInt("userId", 0)
	if targetUserId == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "userId is required!", nil)
	}

	wallet, err := engine.GetWallet(uint(targetUserId))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch wallet!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User wallet fetched!", wallet)
}

// GetUserWalletHistory returns a specific user's ledger (Admin only)
func GetUserWalletHistory(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied! Admin role required.", nil)
	}

	targetUserId := c.QueryInt("userId", 0)
	if targetUserId == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "userId is required!", nil)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	txnType := c.Query("type")

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	transactions, total, err := engine.GetTransactions(uint(targetUserId), page, limit, txnType)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch history!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User wallet history fetched!", fiber.Map{
		"transactions": transactions,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// RefundCoins re-adds coins for a cancelled or returned order (Admin only)
func RefundCoins(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied! Admin role required.", nil)
	}

	reqData, ok := c.Locals("validatedRefund").(*struct {
		UserID      uint   `json:"userId"`
		Amount      int64  `json:"amount"`
		OrderID     string `json:"orderId"`
		Description string `json:"description"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	description := reqData.Description
	if description == "" {
		description = "Refund for order " + reqData.OrderID
	}

	wallet, err := engine.Refund(reqData.UserID, reqData.Amount, models.ReferenceOrder, reqData.OrderID, description)
	if err != nil {
		return ledgerError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Coins refunded!", wallet)
}

// ManualAdjustment credits or debits a user's balance with a reason (Admin only)
func ManualAdjustment(c *fiber.Ctx) error {
	admin, ok := requireAdmin(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied! Admin role required.", nil)
	}

	reqData, ok := c.Locals("validatedAdjustment").(*struct {
		UserID uint   `json:"userId"`
		Amount int64  `json:"amount"`
		Reason string `json:"reason"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// The engine does not re-check the balance for deductions; that contract
	// makes this boundary responsible for rejecting overdrawing adjustments.
	if reqData.Amount < 0 {
		wallet, err := engine.GetWallet(reqData.UserID)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch wallet!", nil)
		}
		if -reqData.Amount > wallet.Balance {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Insufficient balance for deduction!", nil)
		}
	}

	wallet, err := engine.ManualAdjustment(reqData.UserID, reqData.Amount, reqData.Reason, admin.ID)
	if err != nil {
		return ledgerError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Balance adjusted!", fiber.Map{
		"wallet":     wallet,
		"adjustedBy": admin.Name,
		"reason":     reqData.Reason,
	})
}

// RunExpirySweep expires stale coin lots on demand (Admin only)
func RunExpirySweep(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied! Admin role required.", nil)
	}

	expired, err := engine.ProcessExpiredCoins(time.Now())
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Expiry sweep failed!", nil)
	}

	go utils.NotifyOrderSystem("coins.expired", fiber.Map{"coinsExpired": expired})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Expiry sweep completed!", fiber.Map{
		"coinsExpired": expired,
	})
}

// GetSettings returns the current reward policy (Admin only)
func GetSettings(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied! Admin role required.", nil)
	}

	snap, err := policy.Current()
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch settings!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Settings fetched!", snap.WalletSettings)
}

// UpdateSettings replaces the reward policy (Admin only)
func UpdateSettings(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied! Admin role required.", nil)
	}

	var reqData ledger.SettingsUpdate
	if err := c.BodyParser(&reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	settings, err := policy.Update(reqData)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Invalid settings: "+err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Settings updated!", settings)
}

package walletController

import (
	"coinwallet/database"
	"coinwallet/ledger"
	"coinwallet/middleware"
	"coinwallet/models"
	"coinwallet/utils"

	"github.com/gofiber/fiber/v2"
)

var (
	engine *ledger.Engine
	policy *ledger.Policy
)

// Setup wires the controllers to the ledger core. Called once from main.
func Setup(e *ledger.Engine, p *ledger.Policy) {
	engine = e
	policy = p
}

// ledgerError maps a ledger rejection to the response envelope.
func ledgerError(c *fiber.Ctx, err error) error {
	switch {
	case ledger.IsValidation(err):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, err.Error(), nil)
	case ledger.IsInsufficientFunds(err), ledger.IsPolicyViolation(err):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, err.Error(), nil)
	default:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Wallet operation failed, please try again!", nil)
	}
}

// GetWallet returns the caller's coin wallet, created on first touch
func GetWallet(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	wallet, err := engine.GetWallet(userId)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch wallet!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Wallet fetched!", wallet)
}

// GetWalletHistory returns the caller's coin transaction history
func GetWalletHistory(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	txnType := c.Query("type") // CREDIT, DEBIT, EXPIRED, etc.

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	transactions, total, err := engine.GetTransactions(userId, page, limit, txnType)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch history!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Wallet history fetched!", fiber.Map{
		"transactions": transactions,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// RedeemCoins converts spendable coins into a single-use voucher
func RedeemCoins(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedRedeem").(*struct {
		Amount        int64    `json:"amount"`
		ReferenceType string   `json:"referenceType"`
		ReferenceID   string   `json:"referenceId"`
		Description   string   `json:"description"`
		OrderValue    *float64 `json:"orderValue"`
		Category      string   `json:"category"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	refType := reqData.ReferenceType
	if refType == "" {
		refType = models.ReferenceCart
	}

	result, err := engine.Redeem(ledger.RedeemRequest{
		UserID:        userId,
		Amount:        reqData.Amount,
		ReferenceType: refType,
		ReferenceID:   reqData.ReferenceID,
		Description:   reqData.Description,
		OrderValue:    reqData.OrderValue,
		Category:      reqData.Category,
	})
	if err != nil {
		return ledgerError(c, err)
	}

	// Voucher email and storefront callback are best-effort; the redemption
	// itself has already committed.
	go notifyVoucherIssued(userId, result.VoucherCode, result.DiscountAmount)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Coins redeemed!", fiber.Map{
		"wallet":         result.Wallet,
		"discountAmount": result.DiscountAmount,
		"voucherCode":    result.VoucherCode,
	})
}

// GetVouchers returns the caller's vouchers, active first
func GetVouchers(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	vouchers, err := engine.GetVouchers(userId)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch vouchers!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Vouchers fetched!", vouchers)
}

// SpendAtCheckout consumes redeemed coins against a completed order
func SpendAtCheckout(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedSpend").(*struct {
		Amount      int64  `json:"amount"`
		OrderID     string `json:"orderId"`
		Description string `json:"description"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	wallet, err := engine.SpendRedeemed(userId, reqData.Amount, reqData.OrderID, reqData.Description)
	if err != nil {
		return ledgerError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Redeemed coins spent!", wallet)
}

// ClaimFirstPurchaseReward credits the first-purchase bonus, once per user
func ClaimFirstPurchaseReward(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedFirstPurchase").(*struct {
		OrderID string `json:"orderId"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	wallet, credited, err := engine.FirstPurchaseReward(userId, reqData.OrderID)
	if err != nil {
		return ledgerError(c, err)
	}

	message := "First purchase reward credited!"
	if credited == 0 {
		message = "No reward credited."
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, fiber.Map{
		"wallet":        wallet,
		"coinsCredited": credited,
	})
}

// notifyVoucherIssued emails the voucher code to the user and pings the
// storefront webhook. Failures are logged inside the helpers.
func notifyVoucherIssued(userId uint, code string, value float64) {
	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err == nil && user.Email != "" {
		utils.SendVoucherEmail(user.Email, user.Name, code, value)
	}
	utils.NotifyOrderSystem("voucher.issued", fiber.Map{
		"userId":      userId,
		"voucherCode": code,
		"value":       value,
	})
}

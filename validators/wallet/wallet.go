package walletValidator

import (
	"coinwallet/middleware"

	"github.com/gofiber/fiber/v2"
)

// Redeem validates a coin redemption request
func Redeem() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Amount        int64    `json:"amount"`
			ReferenceType string   `json:"referenceType"`
			ReferenceID   string   `json:"referenceId"`
			Description   string   `json:"description"`
			OrderValue    *float64 `json:"orderValue"`
			Category      string   `json:"category"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Amount <= 0 {
			errors["amount"] = "Amount must be greater than 0!"
		}
		if reqData.OrderValue != nil && *reqData.OrderValue < 0 {
			errors["orderValue"] = "Order value cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedRedeem", reqData)
		return c.Next()
	}
}

// SpendRedeemed validates a checkout spend against the redeemed pool
func SpendRedeemed() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Amount      int64  `json:"amount"`
			OrderID     string `json:"orderId"`
			Description string `json:"description"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Amount <= 0 {
			errors["amount"] = "Amount must be greater than 0!"
		}
		if reqData.OrderID == "" {
			errors["orderId"] = "Order ID is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSpend", reqData)
		return c.Next()
	}
}

// FirstPurchase validates a first-purchase reward claim
func FirstPurchase() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			OrderID string `json:"orderId"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.OrderID == "" {
			errors["orderId"] = "Order ID is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedFirstPurchase", reqData)
		return c.Next()
	}
}

// Refund validates an order-cancellation refund (admin / order subsystem)
func Refund() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			UserID      uint   `json:"userId"`
			Amount      int64  `json:"amount"`
			OrderID     string `json:"orderId"`
			Description string `json:"description"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.UserID == 0 {
			errors["userId"] = "User ID is required!"
		}
		if reqData.Amount <= 0 {
			errors["amount"] = "Amount must be greater than 0!"
		}
		if reqData.OrderID == "" {
			errors["orderId"] = "Order ID is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedRefund", reqData)
		return c.Next()
	}
}

// ManualAdjustment validates an admin balance correction
func ManualAdjustment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			UserID uint   `json:"userId"`
			Amount int64  `json:"amount"`
			Reason string `json:"reason"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.UserID == 0 {
			errors["userId"] = "User ID is required!"
		}
		if reqData.Amount == 0 {
			errors["amount"] = "Amount cannot be zero!"
		}
		if reqData.Reason == "" {
			errors["reason"] = "Reason is required for an adjustment!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAdjustment", reqData)
		return c.Next()
	}
}

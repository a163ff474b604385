package ledger

import (
	"crypto/rand"
	"errors"
	"fmt"

	"coinwallet/models"
)

// Voucher codes look like CW-K7M2XQ9ABCDE. The alphabet drops characters
// that are easy to misread on a printed receipt (0/O, 1/I/L).
const (
	voucherCodePrefix = "CW-"
	voucherCodeLength = 12
	voucherAlphabet   = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"
)

var errVoucherCodeSpaceExhausted = errors.New("could not generate a unique voucher code")

func generateVoucherCode() (string, error) {
	buf := make([]byte, voucherCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("voucher code entropy: %w", err)
	}
	for i, b := range buf {
		buf[i] = voucherAlphabet[int(b)%len(voucherAlphabet)]
	}
	return voucherCodePrefix + string(buf), nil
}

// issueVoucher mints a voucher for a redemption's discount amount inside the
// redemption's own atomic unit, so the voucher and the ledger update commit
// or abort together. Codes are collision-checked; the unique index on
// vouchers.code is the last line of defense between concurrent units.
func issueVoucher(tx Tx, userID uint, discount float64) (*models.Voucher, error) {
	for attempt := 0; attempt < 5; attempt++ {
		code, err := generateVoucherCode()
		if err != nil {
			return nil, err
		}
		taken, err := tx.VoucherCodeTaken(code)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}

		voucher := &models.Voucher{
			Code:           code,
			InitialValue:   discount,
			CurrentBalance: discount,
			IssuedTo:       userID,
			IsActive:       true,
		}
		if err := tx.CreateVoucher(voucher); err != nil {
			return nil, err
		}
		return voucher, nil
	}
	return nil, errVoucherCodeSpaceExhausted
}

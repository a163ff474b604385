package utils

import (
	"coinwallet/config"
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// SendEmail sends an HTML email through SMTP
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	if from == "" || password == "" {
		log.Println("Email sender not configured, skipping email to", strings.Join(to, ","))
		return nil
	}

	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Rewards <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		log.Println("Error sending email:", err)
		return err
	}
	return nil
}

// SendVoucherEmail notifies a user that a voucher was minted from their coins
func SendVoucherEmail(email, userName, code string, value float64) error {
	body := fmt.Sprintf(`
	<html>
		<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
			<div style="max-width: 500px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
				<h2 style="color: #333333; text-align: center;">Your voucher is ready, %s!</h2>
				<p style="font-size: 16px; color: #555555; text-align: center;">Your coins have been converted into a voucher worth %.2f:</p>
				<h1 style="text-align: center; color: #4CAF50; font-size: 32px; margin: 20px 0;">%s</h1>
				<p style="font-size: 14px; color: #999999; text-align: center;">Apply this code at checkout. It can be used until its balance runs out.</p>
			</div>
		</body>
	</html>
	`, userName, value, code)

	return SendEmail([]string{email}, "Your reward voucher", body)
}

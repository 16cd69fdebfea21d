package utils

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"elearn/config"
)

// SendEmail delivers an HTML mail through the configured SMTP account
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Learnova <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		fmt.Println("Error sending email:", err)
		return err
	}
	return nil
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1E3A5F; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1E3A5F; line-height: 1.6; }
			.content h2 { color: #1E3A5F; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #2F8F6B; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #2F8F6B; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>LEARNOVA</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 Learnova. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// SendWelcomeEmail greets a freshly registered account
func SendWelcomeEmail(email, username string) {
	subject := "Welcome to Learnova!"
	body := getEmailTemplate("Welcome aboard, "+username+"!", `
		<p>Your account has been created successfully.</p>
		<p>Browse the catalog, enroll in a course and start learning today.</p>
		<a href="https://learnova.app/courses" class="btn">Explore Courses</a>
	`)
	SendEmail([]string{email}, subject, body)
}

// SendPurchaseReceipt confirms a settled course purchase
func SendPurchaseReceipt(email, username, courseTitle string, amount float64, transactionID string) {
	subject := "Payment received - " + courseTitle
	body := getEmailTemplate("Thank you for your purchase!", fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your payment for <strong>%s</strong> has been received and your enrollment is active.</p>
		<div class="info-box">
			Amount: %.2f<br>
			Transaction: %s
		</div>
		<a href="https://learnova.app/my-courses" class="btn">Go to My Courses</a>
	`, username, courseTitle, amount, transactionID))
	SendEmail([]string{email}, subject, body)
}

// SendQuizDeadlineReminder warns an enrolled student about an approaching quiz deadline
func SendQuizDeadlineReminder(email, username, quizTitle string, deadline *time.Time) {
	deadlineStr := "soon"
	if deadline != nil {
		deadlineStr = deadline.Format("January 2, 2006 15:04")
	}

	subject := "Quiz deadline approaching: " + quizTitle
	body := getEmailTemplate("Don't miss your quiz!", fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>The quiz <strong>%s</strong> closes on <strong>%s</strong>.</p>
		<p>Make sure to submit your attempt before the deadline.</p>
		<a href="https://learnova.app/my-courses" class="btn">Take the Quiz</a>
	`, username, quizTitle, deadlineStr))
	SendEmail([]string{email}, subject, body)
}

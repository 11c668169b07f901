package mailer

import (
	"fmt"
	"os"
)

func frontendURL() string {
	if u := os.Getenv("FRONTEND_URL"); u != "" {
		return u
	}
	return "http://localhost:5173"
}

// WelcomeEmail is sent after a successful registration.
func WelcomeEmail(to, name string) Email {
	body := fmt.Sprintf(`<html><body style="font-family: Arial, sans-serif;">
<h2>Hello %s,</h2>
<p>Your registration was successful. You can now submit issues, track their
status, browse community issues and vote on them.</p>
<p><a href="%s/user/login">Log in to the portal</a></p>
<p style="color:#999;font-size:12px;">If you did not create this account, please contact us.</p>
</body></html>`, name, frontendURL())

	return Email{
		To:      to,
		Subject: "Welcome to the Campus Issue Portal!",
		Body:    body,
	}
}

// PasswordResetEmail carries a single-use reset link valid for 30 minutes.
func PasswordResetEmail(to, name, token string) Email {
	link := fmt.Sprintf("%s/user/reset-password?token=%s", frontendURL(), token)
	body := fmt.Sprintf(`<html><body style="font-family: Arial, sans-serif;">
<h2>Hello %s,</h2>
<p>You requested a password reset. Use the link below to set a new password.</p>
<p><a href="%s">Reset your password</a></p>
<p>This link is valid for <strong>30 minutes</strong>. If you did not request
a reset, ignore this email.</p>
</body></html>`, name, link)

	return Email{
		To:      to,
		Subject: "Password Reset Request - Campus Issue Portal",
		Body:    body,
	}
}

// BulkEmail wraps an admin broadcast.
func BulkEmail(to, subject, message string) Email {
	body := fmt.Sprintf(`<html><body style="font-family: Arial, sans-serif;">
<h2>%s</h2>
<p>%s</p>
<p style="color:#999;font-size:12px;">Sent by the Campus Issue Portal administration.</p>
</body></html>`, subject, message)

	return Email{
		To:      to,
		Subject: subject,
		Body:    body,
	}
}

package user

import (
	"fmt"

	"github.com/frahmantamala/hr-management/internal/mailer"
)

func verificationMail(baseURL, to, firstName, token string) mailer.Message {
	link := fmt.Sprintf("%s/verify-email?token=%s", baseURL, token)
	return mailer.Message{
		To:      to,
		Subject: "Verify your email address",
		TextBody: fmt.Sprintf(
			"Hi %s,\n\nPlease confirm your email address by opening the link below:\n\n%s\n\nThe link is valid for 24 hours.\n",
			firstName, link),
		HTMLBody: fmt.Sprintf(
			`<p>Hi %s,</p><p>Please confirm your email address by clicking the link below:</p><p><a href="%s">Verify email</a></p><p>The link is valid for 24 hours.</p>`,
			firstName, link),
	}
}

func passwordResetMail(baseURL, to, firstName, token string) mailer.Message {
	link := fmt.Sprintf("%s/reset-password?token=%s", baseURL, token)
	return mailer.Message{
		To:      to,
		Subject: "Reset your password",
		TextBody: fmt.Sprintf(
			"Hi %s,\n\nWe received a request to reset your password. Open the link below to choose a new one:\n\n%s\n\nThe link is valid for 1 hour. If you did not request this, you can ignore this email.\n",
			firstName, link),
		HTMLBody: fmt.Sprintf(
			`<p>Hi %s,</p><p>We received a request to reset your password. Click the link below to choose a new one:</p><p><a href="%s">Reset password</a></p><p>The link is valid for 1 hour. If you did not request this, you can ignore this email.</p>`,
			firstName, link),
	}
}

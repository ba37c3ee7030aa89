package invitation

import (
	"fmt"

	"github.com/frahmantamala/hr-management/internal/mailer"
)

func invitationMail(baseURL, to, role, token string) mailer.Message {
	link := fmt.Sprintf("%s/accept-invitation?token=%s", baseURL, token)
	return mailer.Message{
		To:      to,
		Subject: "You have been invited to join",
		TextBody: fmt.Sprintf(
			"Hello,\n\nYou have been invited to join as %s. Open the link below to set up your account:\n\n%s\n\nThe invitation is valid for 7 days.\n",
			role, link),
		HTMLBody: fmt.Sprintf(
			`<p>Hello,</p><p>You have been invited to join as <strong>%s</strong>. Click the link below to set up your account:</p><p><a href="%s">Accept invitation</a></p><p>The invitation is valid for 7 days.</p>`,
			role, link),
	}
}

package services

import (
	"fmt"
	"replenish-app/config"
	"replenish-app/models"
	"strings"

	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

// SendPendingApprovalEmail mails planners the list of buffer adjustments
// waiting for approval after a DBM review run.
func SendPendingApprovalEmail(pending []models.BufferAdjustmentLog) error {
	if config.MailTo == "" {
		return nil
	}
	if len(pending) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("<h3>Buffer adjustments pending approval</h3>")
	sb.WriteString("<table border='1' cellpadding='4'><tr>")
	sb.WriteString("<th>Item</th><th>Location</th><th>Current</th><th>Proposed</th><th>Change %</th><th>Trigger</th></tr>")
	for _, p := range pending {
		sb.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%s</td><td>%d</td><td>%d</td><td>%.1f</td><td>%s</td></tr>",
			p.ProductCode, p.LocationCode, p.CurrentBufferUnits, p.ProposedBufferUnits, p.ChangePct, p.TriggerReason))
	}
	sb.WriteString("</table>")

	toEmails := strings.Split(config.MailTo, ",")

	msg := gomail.NewMessage()
	msg.SetHeader("From", config.MailFrom)
	msg.SetHeader("To", toEmails...)
	msg.SetHeader("Subject", fmt.Sprintf("[Replenishment] %d buffer adjustment(s) pending approval", len(pending)))
	msg.SetBody("text/html", sb.String())

	dialer := gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPUser, config.SMTPPassword)
	return dialer.DialAndSend(msg)
}

// NotifyPendingApprovals loads the open PENDING adjustments and mails
// the summary. Called after the nightly DBM review.
func NotifyPendingApprovals(db *gorm.DB) error {
	var pending []models.BufferAdjustmentLog
	if err := db.Where("approval_status = ?", models.ApprovalPending).
		Order("created_at desc").Find(&pending).Error; err != nil {
		return err
	}
	return SendPendingApprovalEmail(pending)
}

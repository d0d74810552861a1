// Package notify pushes internal alerts to the sales team when a qualified
// lead completes the funnel.
package notify

import (
	"context"
	"fmt"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"funnel-engine/internal/common/config"
	"funnel-engine/internal/common/errors"
	"funnel-engine/internal/common/logger"
	"funnel-engine/internal/funnel/lead"
	"funnel-engine/internal/models"
)

// SESService abstracts the SES client for testing.
type SESService interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SNSService abstracts the SNS client for testing.
type SNSService interface {
	Publish(ctx context.Context, input *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

var tierRank = map[string]int{
	models.TierHot:     3,
	models.TierWarm:    2,
	models.TierCold:    1,
	models.TierNurture: 0,
}

// LeadAlertNotifier sends best-effort email and SMS alerts for completed
// sessions at or above the configured minimum tier. Alert failures are logged
// and swallowed; they must never affect the completion flow.
type LeadAlertNotifier struct {
	cfg config.AlertsConfig
	ses SESService
	sns SNSService
	log logger.Logger
}

// NewLeadAlertNotifier creates a notifier. Either client may be nil when its
// channel is disabled.
func NewLeadAlertNotifier(cfg config.AlertsConfig, sesClient SESService, snsClient SNSService, log logger.Logger) *LeadAlertNotifier {
	return &LeadAlertNotifier{cfg: cfg, ses: sesClient, sns: snsClient, log: log}
}

// NotifyCompletion sends alerts for a completed session when its tier clears
// the configured floor.
func (n *LeadAlertNotifier) NotifyCompletion(ctx context.Context, session *models.Session) {
	tier := models.TierNurture
	if session.QualificationTier != nil {
		tier = *session.QualificationTier
	}
	if tierRank[tier] < tierRank[n.cfg.MinTier] {
		return
	}

	if n.cfg.Email.Enabled && n.ses != nil {
		if err := n.sendEmail(ctx, session, tier); err != nil {
			n.log.WithError(errors.NewAlertSendFailedError("email", err)).Warn(
				"Lead alert email not delivered", map[string]interface{}{
					"sessionId": session.ID,
				})
		}
	}

	if n.cfg.SMS.Enabled && n.sns != nil {
		if err := n.sendSMS(ctx, session, tier); err != nil {
			n.log.WithError(errors.NewAlertSendFailedError("sms", err)).Warn(
				"Lead alert SMS not delivered", map[string]interface{}{
					"sessionId": session.ID,
				})
		}
	}
}

func (n *LeadAlertNotifier) sendEmail(ctx context.Context, session *models.Session, tier string) error {
	info := lead.TierFor(session.QualificationScore)
	subject := fmt.Sprintf("%s: %s just completed the funnel", info.Label, displayName(session))
	body := alertBody(session, info)

	_, err := n.ses.SendEmail(ctx, &ses.SendEmailInput{
		Source: awssdk.String(n.cfg.Email.FromEmail),
		Destination: &sestypes.Destination{
			ToAddresses: []string{n.cfg.Email.ToEmail},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: awssdk.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: awssdk.String(body)},
			},
		},
	})
	if err != nil {
		return err
	}

	n.log.Info("Lead alert email sent", map[string]interface{}{
		"sessionId": session.ID,
		"tier":      tier,
	})
	return nil
}

func (n *LeadAlertNotifier) sendSMS(ctx context.Context, session *models.Session, tier string) error {
	info := lead.TierFor(session.QualificationScore)
	message := fmt.Sprintf("%s (%d pts): %s. %s",
		info.Label, session.QualificationScore, displayName(session), info.Description)

	_, err := n.sns.Publish(ctx, &sns.PublishInput{
		PhoneNumber: awssdk.String(n.cfg.SMS.ToPhone),
		Message:     awssdk.String(message),
	})
	if err != nil {
		return err
	}

	n.log.Info("Lead alert SMS sent", map[string]interface{}{
		"sessionId": session.ID,
		"tier":      tier,
	})
	return nil
}

func alertBody(session *models.Session, info lead.TierInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A new lead just completed the funnel.\n\n")
	fmt.Fprintf(&b, "Name:  %s\n", displayName(session))
	fmt.Fprintf(&b, "Email: %s\n", deref(session.Email))
	fmt.Fprintf(&b, "Phone: %s\n", deref(session.Phone))
	fmt.Fprintf(&b, "Score: %d (%s)\n", session.QualificationScore, info.Label)
	fmt.Fprintf(&b, "Tags:  %s\n\n", strings.Join(models.ParseTags(session.Tags), ", "))
	fmt.Fprintf(&b, "%s\n", info.Description)
	fmt.Fprintf(&b, "Session: %s\n", session.ID)
	return b.String()
}

func displayName(session *models.Session) string {
	name := strings.TrimSpace(deref(session.FirstName) + " " + deref(session.LastName))
	if name == "" {
		return "Unknown lead"
	}
	return name
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

package services

import (
	"context"
	"fmt"

	"shopauth/internal/models"
	"shopauth/internal/utils"
)

const (
	PlanEmail  = "email"
	PlanMobile = "mobile"
)

// CodeDelivery доставляет код вне основного канала. Повторов нет.
type CodeDelivery interface {
	DeliverCode(ctx context.Context, user *models.User, plan, code string) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, text string) (*utils.SendSMSResponse, error)
}

type codeDelivery struct {
	emails EmailService
	sms    SMSSender
}

func NewCodeDelivery(emails EmailService, sms SMSSender) CodeDelivery {
	return &codeDelivery{emails: emails, sms: sms}
}

func (d *codeDelivery) DeliverCode(ctx context.Context, user *models.User, plan, code string) error {
	switch plan {
	case PlanEmail:
		if d.emails == nil {
			return fmt.Errorf("email delivery is not configured")
		}
		return d.emails.SendVerificationCode(user.Email, user.Username, code)
	case PlanMobile:
		if d.sms == nil {
			return fmt.Errorf("sms delivery is not configured")
		}
		if user.Phone == nil {
			return fmt.Errorf("user %d has no phone number", user.ID)
		}
		_, err := d.sms.SendSMS(ctx, *user.Phone, fmt.Sprintf("verify code is: %s", code))
		return err
	default:
		return fmt.Errorf("unknown delivery plan %q", plan)
	}
}

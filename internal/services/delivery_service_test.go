package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"shopauth/internal/models"
	"shopauth/internal/utils"
)

type fakeSMS struct {
	to, text string
	err      error
}

func (s *fakeSMS) SendSMS(_ context.Context, to, text string) (*utils.SendSMSResponse, error) {
	s.to, s.text = to, text
	return &utils.SendSMSResponse{}, s.err
}

func TestCodeDelivery_Email(t *testing.T) {
	emails := &fakeEmails{}
	d := NewCodeDelivery(emails, &fakeSMS{})
	user := &models.User{ID: 1, Username: "alice", Email: "alice@example.com"}

	require.NoError(t, d.DeliverCode(context.Background(), user, PlanEmail, "4821"))
	assert.Equal(t, []string{"alice@example.com:4821"}, emails.codes)
}

func TestCodeDelivery_Mobile(t *testing.T) {
	sms := &fakeSMS{}
	d := NewCodeDelivery(&fakeEmails{}, sms)
	user := &models.User{ID: 1, Username: "alice", Phone: strPtr("09121234567")}

	require.NoError(t, d.DeliverCode(context.Background(), user, PlanMobile, "4821"))
	assert.Equal(t, "09121234567", sms.to)
	assert.Contains(t, sms.text, "4821")

	sms.err = errors.New("gateway down")
	assert.Error(t, d.DeliverCode(context.Background(), user, PlanMobile, "4821"))

	assert.Error(t, d.DeliverCode(context.Background(), &models.User{ID: 2}, PlanMobile, "4821"))
}

func TestCodeDelivery_NotConfigured(t *testing.T) {
	d := NewCodeDelivery(nil, nil)
	user := &models.User{ID: 1, Email: "a@example.com", Phone: strPtr("09121234567")}

	assert.Error(t, d.DeliverCode(context.Background(), user, PlanEmail, "1"))
	assert.Error(t, d.DeliverCode(context.Background(), user, PlanMobile, "1"))
	assert.Error(t, d.DeliverCode(context.Background(), user, "fax", "1"))
}

type captureSender struct {
	msgs []*gomail.Message
	err  error
}

func (c *captureSender) DialAndSend(m ...*gomail.Message) error {
	c.msgs = append(c.msgs, m...)
	return c.err
}

func TestEmailService_VerificationCode(t *testing.T) {
	sender := &captureSender{}
	svc := &emailService{dialer: sender, from: "noreply@example.com"}

	require.NoError(t, svc.SendVerificationCode("alice@example.com", "alice", "4821"))
	require.Len(t, sender.msgs, 1)

	m := sender.msgs[0]
	assert.Equal(t, []string{"alice@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Verify Code"}, m.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	assert.True(t, strings.Contains(buf.String(), "4821"))

	sender.err = errors.New("dial failed")
	assert.Error(t, svc.SendWelcomeEmail("alice@example.com", "alice"))
}

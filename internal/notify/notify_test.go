package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEmail struct {
	sent []EmailMessage
	err  error
}

func (r *recordingEmail) Send(ctx context.Context, msg EmailMessage) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

type recordingSMS struct {
	to   []string
	body []string
	err  error
}

func (r *recordingSMS) SendSMS(ctx context.Context, to, body string) error {
	if r.err != nil {
		return r.err
	}
	r.to = append(r.to, to)
	r.body = append(r.body, body)
	return nil
}

func TestDispatchBothChannels(t *testing.T) {
	email := &recordingEmail{}
	sms := &recordingSMS{}
	d := NewDispatcher(email, sms, nil)

	err := d.Dispatch(context.Background(), Notification{
		Subject: "Appointment Reminder",
		Message: "see you soon",
		Email:   "jd@test.com",
		Phone:   "+15550001111",
	})
	require.NoError(t, err)

	require.Len(t, email.sent, 1)
	assert.Equal(t, "Appointment Reminder", email.sent[0].Subject)
	require.Len(t, sms.to, 1)
	assert.Equal(t, "+15550001111", sms.to[0])
	assert.Equal(t, "see you soon", sms.body[0])
}

func TestDispatchSkipsMissingRecipients(t *testing.T) {
	email := &recordingEmail{}
	sms := &recordingSMS{}
	d := NewDispatcher(email, sms, nil)

	err := d.Dispatch(context.Background(), Notification{Subject: "s", Message: "m"})
	require.NoError(t, err)
	assert.Empty(t, email.sent)
	assert.Empty(t, sms.to)
}

func TestDispatchOneChannelFailingDoesNotSuppressOther(t *testing.T) {
	email := &recordingEmail{}
	sms := &recordingSMS{err: errors.New("carrier down")}
	d := NewDispatcher(email, sms, nil)

	err := d.Dispatch(context.Background(), Notification{
		Subject: "s", Message: "m",
		Email: "jd@test.com", Phone: "+15550001111",
	})
	assert.Error(t, err)
	assert.Len(t, email.sent, 1, "email must still go out")
}

func TestSimpleSMSSenderUsesFromNumber(t *testing.T) {
	var gotFrom, gotTo string
	sender := NewSimpleSMSSender("+15559990000", func(ctx context.Context, to, from, body string) error {
		gotTo, gotFrom = to, from
		return nil
	}, nil)

	require.NoError(t, sender.SendSMS(context.Background(), "+15550001111", "hi"))
	assert.Equal(t, "+15559990000", gotFrom)
	assert.Equal(t, "+15550001111", gotTo)
}

func TestStubSendersNeverFail(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, NewStubSMSSender(nil).SendSMS(ctx, "+15550001111", "hello"))
	assert.NoError(t, NewStubEmailSender(nil).Send(ctx, EmailMessage{To: "jd@test.com", Subject: "s"}))
}

func TestNewSendGridSenderRequiresKey(t *testing.T) {
	assert.Nil(t, NewSendGridSender(SendGridConfig{}, nil))
	assert.NotNil(t, NewSendGridSender(SendGridConfig{APIKey: "SG.x", FromEmail: "noreply@clinic.test"}, nil))
}

package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/ayurveda-clinic-platform/pkg/logging"
)

func TestNewSendGridSender_NilWithoutAPIKey(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{FromEmail: "care@example.com"}, nil)
	assert.Nil(t, sender)
}

func TestNewSendGridSender_DefaultFromName(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{APIKey: "test-key", FromEmail: "care@example.com"}, nil)
	require.NotNil(t, sender)
	assert.Equal(t, DefaultFromName, sender.from.Name)

	custom := NewSendGridSender(SendGridConfig{APIKey: "test-key", FromName: "Kerala Clinic"}, nil)
	require.NotNil(t, custom)
	assert.Equal(t, "Kerala Clinic", custom.from.Name)
}

func TestSendGridSenderMessage(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{
		APIKey:    "test-key",
		FromEmail: "care@example.com",
		ReplyTo:   "front-desk@example.com",
	}, logging.Discard())
	require.NotNil(t, sender)

	m := sender.message(EmailMessage{
		To:       "patient@example.com",
		ToName:   "Asha",
		Subject:  "Confirmed",
		Body:     "plain",
		Category: CategoryConfirmation,
	})
	assert.Equal(t, "care@example.com", m.From.Address)
	require.NotNil(t, m.ReplyTo)
	assert.Equal(t, "front-desk@example.com", m.ReplyTo.Address)
	assert.Equal(t, []string{CategoryConfirmation}, m.Categories)
	require.Len(t, m.Content, 2)
	assert.Equal(t, "plain", m.Content[1].Value, "plain body doubles as html")
	require.Len(t, m.Personalizations, 1)
	assert.Equal(t, "patient@example.com", m.Personalizations[0].To[0].Address)
}

func TestSendGridSender_Send_NilClient(t *testing.T) {
	err := (&SendGridSender{}).Send(context.Background(), EmailMessage{To: "patient@example.com"})
	assert.Error(t, err)

	var nilSender *SendGridSender
	assert.Error(t, nilSender.Send(context.Background(), EmailMessage{}))
}

func TestStubEmailSender_Send(t *testing.T) {
	err := NewStubEmailSender(nil).Send(context.Background(), EmailMessage{To: "patient@example.com", Subject: "Hi"})
	assert.NoError(t, err)
}

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESSenderBuildsSimpleMessage(t *testing.T) {
	api := &fakeSES{}
	sender := newSESSender(api, SESConfig{FromEmail: "care@example.com"}, logging.Discard())

	err := sender.Send(context.Background(), EmailMessage{
		To:      "patient@example.com",
		Subject: "Confirmed",
		Body:    "plain",
		HTML:    "<p>html</p>",
	})
	require.NoError(t, err)

	require.NotNil(t, api.input)
	assert.Equal(t, DefaultFromName+" <care@example.com>", aws.ToString(api.input.FromEmailAddress))
	assert.Equal(t, []string{"patient@example.com"}, api.input.Destination.ToAddresses)
	assert.Equal(t, "Confirmed", aws.ToString(api.input.Content.Simple.Subject.Data))
	assert.Equal(t, "plain", aws.ToString(api.input.Content.Simple.Body.Text.Data))
	assert.Equal(t, "<p>html</p>", aws.ToString(api.input.Content.Simple.Body.Html.Data))
	assert.Empty(t, api.input.ReplyToAddresses)
	assert.Empty(t, api.input.EmailTags)
}

func TestSESSenderReplyToAndCategory(t *testing.T) {
	api := &fakeSES{}
	sender := newSESSender(api, SESConfig{FromEmail: "care@example.com", ReplyTo: "front-desk@example.com"}, logging.Discard())

	require.NoError(t, sender.Send(context.Background(), EmailMessage{To: "p@example.com", Body: "plain", Category: CategoryConfirmation}))
	assert.Equal(t, []string{"front-desk@example.com"}, api.input.ReplyToAddresses)
	require.Len(t, api.input.EmailTags, 1)
	assert.Equal(t, "category", aws.ToString(api.input.EmailTags[0].Name))
	assert.Equal(t, CategoryConfirmation, aws.ToString(api.input.EmailTags[0].Value))
}

func TestSESSenderOmitsEmptyHTML(t *testing.T) {
	api := &fakeSES{}
	sender := newSESSender(api, SESConfig{FromEmail: "care@example.com"}, logging.Discard())

	require.NoError(t, sender.Send(context.Background(), EmailMessage{To: "p@example.com", Body: "plain"}))
	assert.Nil(t, api.input.Content.Simple.Body.Html)
}

func TestSESSenderWrapsFailure(t *testing.T) {
	boom := errors.New("throttled")
	sender := newSESSender(&fakeSES{err: boom}, SESConfig{}, logging.Discard())

	err := sender.Send(context.Background(), EmailMessage{To: "p@example.com"})
	assert.ErrorIs(t, err, boom)
}

func TestNewSESSenderNilClient(t *testing.T) {
	assert.Nil(t, NewSESSender(nil, SESConfig{}, nil))
}

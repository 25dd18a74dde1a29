package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	in  *sesv2.SendEmailInput
	err error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("id")}, nil
}

func TestSESSenderBuildsSimpleMessage(t *testing.T) {
	api := &fakeSES{}
	sender := NewSESSenderWithAPI(api, "noreply@remino.app")

	err := sender.Send(context.Background(), &Message{To: "b@x.com", Subject: "hi", Body: "hello"})
	require.NoError(t, err)

	assert.Equal(t, "noreply@remino.app", aws.ToString(api.in.FromEmailAddress))
	assert.Equal(t, []string{"b@x.com"}, api.in.Destination.ToAddresses)
	assert.Equal(t, "hi", aws.ToString(api.in.Content.Simple.Subject.Data))
	assert.Equal(t, "hello", aws.ToString(api.in.Content.Simple.Body.Text.Data))
}

func TestSESSenderWrapsFailures(t *testing.T) {
	sender := NewSESSenderWithAPI(&fakeSES{err: errors.New("throttled")}, "noreply@remino.app")

	err := sender.Send(context.Background(), &Message{To: "b@x.com"})
	assert.ErrorIs(t, err, ErrDispatch)
}

func TestLogSenderNeverFails(t *testing.T) {
	assert.NoError(t, NewLogSender().Send(context.Background(), &Message{To: "a@x.com"}))
}

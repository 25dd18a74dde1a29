package mail

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

const charset = "UTF-8"

type SESAPI interface {
	SendEmail(ctx context.Context, in *sesv2.SendEmailInput, opts ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESSender sends mails through Amazon SES from a verified identity.
type SESSender struct {
	api  SESAPI
	from string
}

func NewSESSender(ctx context.Context, region, from string) (*SESSender, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewSESSenderWithAPI(sesv2.NewFromConfig(cfg), from), nil
}

func NewSESSenderWithAPI(api SESAPI, from string) *SESSender {
	return &SESSender{api: api, from: from}
}

func (s *SESSender) Send(ctx context.Context, msg *Message) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String(charset)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(msg.Body), Charset: aws.String(charset)},
				},
			},
		},
	}

	if _, err := s.api.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("%w: to %s: %v", ErrDispatch, msg.To, err)
	}
	return nil
}

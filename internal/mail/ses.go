package mail

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// sesAPI is the subset of the SES client used here.
type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESSender sends reset codes through Amazon SES.
type SESSender struct {
	client sesAPI
	from   string
}

// NewSESSender loads the default AWS configuration for region and returns
// a sender using from as the source address.
func NewSESSender(ctx context.Context, region, from string) (*SESSender, error) {
	if from == "" {
		return nil, errors.New("ses sender requires a from address")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &SESSender{client: ses.NewFromConfig(cfg), from: from}, nil
}

// SendResetCode emails code to the account address.
func (s *SESSender) SendResetCode(ctx context.Context, to, code string, ttl time.Duration) error {
	input := &ses.SendEmailInput{
		Destination: &sestypes.Destination{
			ToAddresses: []string{to},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{
				Data: aws.String(resetSubject),
			},
			Body: &sestypes.Body{
				Text: &sestypes.Content{
					Data: aws.String(resetBody(code, ttl)),
				},
			},
		},
		Source: aws.String(s.from),
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("ses send email: %w", err)
	}
	return nil
}

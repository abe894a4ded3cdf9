package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/shulman33/careerchat/internal/domain"
)

// EmailSender delivers the rendered follow-up notification to the site
// owner. Failures here must never surface to the visitor.
type EmailSender interface {
	Send(ctx context.Context, subject, body string) error
}

// SESClient sends email through AWS SES v2.
type SESClient struct {
	client *sesv2.Client
	sender string
	owner  string
}

// NewSESClient creates an SES sender using the default AWS credential
// chain for the given region.
func NewSESClient(ctx context.Context, region, sender, owner string) (*SESClient, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SESClient{
		client: sesv2.NewFromConfig(awsCfg),
		sender: sender,
		owner:  owner,
	}, nil
}

func (c *SESClient) Send(ctx context.Context, subject, body string) error {
	_, err := c.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(c.sender),
		Destination: &types.Destination{
			ToAddresses: []string{c.owner},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send failed: %w", err)
	}
	return nil
}

// RenderSummaryEmail turns the structured conversation digest into the
// human-readable notification body.
func RenderSummaryEmail(s *domain.ChatSummary) (subject, body string) {
	subject = fmt.Sprintf("Website chat follow-up from %s", s.UserName)

	var b strings.Builder
	fmt.Fprintf(&b, "A visitor asked the chatbot to put them in touch.\n\n")
	fmt.Fprintf(&b, "Name: %s\n", s.UserName)
	fmt.Fprintf(&b, "Email: %s\n", s.UserEmail)
	if s.ConversationSentiment != "" {
		fmt.Fprintf(&b, "Sentiment: %s\n", s.ConversationSentiment)
	}
	if s.UserInterests != "" {
		fmt.Fprintf(&b, "Interests: %s\n", s.UserInterests)
	}
	if len(s.TopicsDiscussed) > 0 {
		fmt.Fprintf(&b, "\nTopics discussed:\n")
		for _, t := range s.TopicsDiscussed {
			fmt.Fprintf(&b, "- %s\n", t)
		}
	}
	if len(s.NotableQuestions) > 0 {
		fmt.Fprintf(&b, "\nNotable questions:\n")
		for _, q := range s.NotableQuestions {
			fmt.Fprintf(&b, "- %s\n", q)
		}
	}

	return subject, b.String()
}

// NoopEmailSender is used when SES is not configured; sends are dropped
// after logging at the caller.
type NoopEmailSender struct{}

func (NoopEmailSender) Send(ctx context.Context, subject, body string) error { return nil }

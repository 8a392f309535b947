package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// Publisher delivers a human-readable notification.
type Publisher interface {
	Publish(ctx context.Context, subject, message string) error
}

// SNSAPI is the subset of the SNS client used here.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSPublisher sends every notification to a single topic.
type SNSPublisher struct {
	api      SNSAPI
	topicARN string
}

// NewSNS builds a publisher from a resolved AWS config. endpoint may be nil.
func NewSNS(awsCfg aws.Config, endpoint *string, topicARN string) (*SNSPublisher, error) {
	api := sns.NewFromConfig(awsCfg, func(o *sns.Options) {
		if endpoint != nil {
			o.BaseEndpoint = endpoint
		}
	})
	return NewSNSWithAPI(api, topicARN)
}

func NewSNSWithAPI(api SNSAPI, topicARN string) (*SNSPublisher, error) {
	if api == nil {
		return nil, fmt.Errorf("sns client required")
	}
	if strings.TrimSpace(topicARN) == "" {
		return nil, fmt.Errorf("sns topic arn required")
	}
	return &SNSPublisher{api: api, topicARN: topicARN}, nil
}

func (p *SNSPublisher) Publish(ctx context.Context, subject, message string) error {
	_, err := p.api.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", p.topicARN, err)
	}
	return nil
}

// Noop drops every notification.
type Noop struct{}

func (Noop) Publish(context.Context, string, string) error { return nil }

package awsclient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/homemade/pickleshop/pkg/config"
)

// ErrNoCredentials is returned when the default chain resolves nothing usable.
var ErrNoCredentials = errors.New("no aws credentials found")

// Load resolves the shared AWS configuration for the configured region and
// verifies that credentials can actually be retrieved.
func Load(ctx context.Context, cfg config.AWSConfig) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("loading aws config: %w", err)
	}
	if awsCfg.Credentials == nil {
		return aws.Config{}, ErrNoCredentials
	}
	creds, err := awsCfg.Credentials.Retrieve(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("%w: %v", ErrNoCredentials, err)
	}
	if !creds.HasKeys() {
		return aws.Config{}, ErrNoCredentials
	}
	return awsCfg, nil
}

// Endpoint returns the custom endpoint override, or nil for the AWS default.
func Endpoint(cfg config.AWSConfig) *string {
	if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
		return aws.String(endpoint)
	}
	return nil
}

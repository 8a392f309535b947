package dynamo

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// API is the subset of the DynamoDB client used by the storefront.
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	ListTables(ctx context.Context, params *dynamodb.ListTablesInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error)
}

// Client wraps DynamoDB with map-in/map-out helpers.
type Client struct {
	api API
}

// New builds a client from a resolved AWS config. endpoint may be nil.
func New(awsCfg aws.Config, endpoint *string) *Client {
	api := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if endpoint != nil {
			o.BaseEndpoint = endpoint
		}
	})
	return &Client{api: api}
}

// NewWithAPI wraps an existing API implementation.
func NewWithAPI(api API) *Client {
	return &Client{api: api}
}

// Ping issues the cheapest authenticated call to prove the service is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.ListTables(ctx, &dynamodb.ListTablesInput{Limit: aws.Int32(1)}); err != nil {
		return fmt.Errorf("list tables: %w", err)
	}
	return nil
}

// PutItem writes item, marshalled attribute by attribute, into table.
func (c *Client) PutItem(ctx context.Context, table string, item map[string]any) error {
	if strings.TrimSpace(table) == "" {
		return fmt.Errorf("table name is required")
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal item for %s: %w", table, err)
	}
	_, err = c.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("put item into %s: %w", table, err)
	}
	return nil
}

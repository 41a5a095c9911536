// Package dynamodb stores orders and their ledger in DynamoDB. Writes of one
// unit of work are buffered and committed with a single TransactWriteItems
// call, so an order and its events are never observed out of sync.
//
// Tables:
//   - orders: hash key order_id
//   - order events: hash key event_id, global secondary index order_id-index
//     (hash key order_id) used to list the ledger of one order
package dynamodb

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// OrderIDIndex is the global secondary index of the events table keyed by order_id.
const OrderIDIndex = "order_id-index"

// maxTransactItems is the DynamoDB limit for one TransactWriteItems call.
const maxTransactItems = 100

// maxBatchGetKeys is the DynamoDB limit for one BatchGetItem call.
const maxBatchGetKeys = 100

// DynamoDBAPI is the subset of the DynamoDB client used by the adapter.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error)
	BatchGetItem(ctx context.Context, params *dyn.BatchGetItemInput, optFns ...func(*dyn.Options)) (*dyn.BatchGetItemOutput, error)
	Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error)
	Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error)
	TransactWriteItems(ctx context.Context, params *dyn.TransactWriteItemsInput, optFns ...func(*dyn.Options)) (*dyn.TransactWriteItemsOutput, error)
}

// Tables names the two tables the adapter works with.
type Tables struct {
	Orders string
	Events string
}

// LoadAWSConfig resolves credentials and endpoints from the environment for the given region.
func LoadAWSConfig(ctx context.Context, region string) (sdkaws.Config, error) {
	if region == "" {
		region = "us-east-1"
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return cfg, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return cfg, nil
}

// NewClient returns a DynamoDB client for cfg.
func NewClient(cfg sdkaws.Config) *dyn.Client {
	return dyn.NewFromConfig(cfg)
}

func awsString(s string) *string { return &s }

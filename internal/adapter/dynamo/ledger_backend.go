package dynamo

import (
	"context"
	"fmt"
	"time"

	storecfg "github.com/YelzhanWeb/storefront/internal/config"
	"github.com/YelzhanWeb/storefront/internal/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const keyAttr = "ledger_key"

// Client is the subset of *dynamodb.Client used by the ledger backend
type Client interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

type entry struct {
	Key       string `dynamodbav:"ledger_key"`
	Payload   string `dynamodbav:"payload"`
	UpdatedAt int64  `dynamodbav:"updated_at"`
}

type ledgerBackend struct {
	client Client
	table  string
	now    func() time.Time
}

// NewClient builds a DynamoDB client from the default AWS credential chain.
// A non-empty endpoint points it at a local DynamoDB.
func NewClient(ctx context.Context, cfg storecfg.DynamoDBConfig) (*dynamodb.Client, error) {
	awsConf, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return dynamodb.NewFromConfig(awsConf, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// NewLedgerBackend stores each ledger list as one item keyed by ledger_key
func NewLedgerBackend(client Client, table string) interfaces.LedgerBackend {
	return &ledgerBackend{client: client, table: table, now: time.Now}
}

func itemKey(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		keyAttr: &types.AttributeValueMemberS{Value: key},
	}
}

func (b *ledgerBackend) Load(ctx context.Context, key string) ([]byte, bool, error) {
	out, err := b.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(b.table),
		Key:            itemKey(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to get ledger %s: %w", key, err)
	}
	if out.Item == nil {
		return nil, false, nil
	}

	var e entry
	if err := attributevalue.UnmarshalMap(out.Item, &e); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal ledger %s: %w", key, err)
	}
	return []byte(e.Payload), true, nil
}

func (b *ledgerBackend) Save(ctx context.Context, key string, payload []byte) error {
	item, err := attributevalue.MarshalMap(entry{
		Key:       key,
		Payload:   string(payload),
		UpdatedAt: b.now().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal ledger %s: %w", key, err)
	}

	_, err = b.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(b.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put ledger %s: %w", key, err)
	}
	return nil
}

func (b *ledgerBackend) Delete(ctx context.Context, key string) error {
	_, err := b.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(b.table),
		Key:       itemKey(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete ledger %s: %w", key, err)
	}
	return nil
}

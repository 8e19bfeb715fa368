package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// activeKey is the partition key of the item naming the live generation
	activeKey = "active"

	dynamoBatchSize   = 25
	dynamoMaxAttempts = 5
)

// ErrUnprocessedItems is returned when DynamoDB keeps throttling a batch write
var ErrUnprocessedItems = errors.New("dynamodb left items unprocessed")

// DynamoDBAPI is the subset of the DynamoDB client used by the store
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

type pointerItem struct {
	PK         string `dynamodbav:"pk"`
	Generation string `dynamodbav:"generation"`
	Count      int    `dynamodbav:"count"`
	UpdatedAt  string `dynamodbav:"updated_at"`
}

type domainItem struct {
	PK        string `dynamodbav:"pk"`
	Domain    string `dynamodbav:"domain"`
	ExpiresAt int64  `dynamodbav:"expires_at,omitempty"`
}

// DynamoDBStore keeps each published set as a generation of items keyed
// "<generation>#<domain>". A single pointer item names the live generation,
// so publishing a new set is one PutItem. Old generations are left to the
// table's TTL on expires_at, which must outlast the refresh interval.
type DynamoDBStore struct {
	api           DynamoDBAPI
	table         string
	generationTTL time.Duration
	logger        *zap.Logger
	now           func() time.Time
}

// NewDynamoDBStore creates a store backed by the AWS default credential chain
func NewDynamoDBStore(ctx context.Context, table, region, endpoint string, generationTTL time.Duration, logger *zap.Logger) (*DynamoDBStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return NewDynamoDBStoreWithClient(client, table, generationTTL, logger), nil
}

// NewDynamoDBStoreWithClient creates a store on top of an existing client
func NewDynamoDBStoreWithClient(api DynamoDBAPI, table string, generationTTL time.Duration, logger *zap.Logger) *DynamoDBStore {
	return &DynamoDBStore{
		api:           api,
		table:         table,
		generationTTL: generationTTL,
		logger:        logger,
		now:           time.Now,
	}
}

// IsMember reports whether domain is in the live generation
func (s *DynamoDBStore) IsMember(ctx context.Context, domain string) (bool, error) {
	generation, err := s.activeGeneration(ctx)
	if err != nil {
		return false, err
	}
	if generation == "" {
		return false, nil
	}

	// Items of a just-published generation may not have reached every replica
	out, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		ConsistentRead: aws.Bool(true),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: generation + "#" + domain},
		},
	})
	if err != nil {
		return false, fmt.Errorf("failed to get disposable domain item: %w", err)
	}
	return out.Item != nil, nil
}

func (s *DynamoDBStore) activeGeneration(ctx context.Context) (string, error) {
	out, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		ConsistentRead: aws.Bool(true),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: activeKey},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to get active generation: %w", err)
	}
	if out.Item == nil {
		return "", nil
	}

	var pointer pointerItem
	if err := attributevalue.UnmarshalMap(out.Item, &pointer); err != nil {
		return "", fmt.Errorf("failed to unmarshal active generation: %w", err)
	}
	return pointer.Generation, nil
}

// ReplaceAll writes domains as a new generation, then points the live
// pointer at it. A failure before the flip leaves the old set untouched.
func (s *DynamoDBStore) ReplaceAll(ctx context.Context, domains []string) error {
	now := s.now().UTC()
	generation := uuid.NewString()

	var expiresAt int64
	if s.generationTTL > 0 {
		expiresAt = now.Add(s.generationTTL).Unix()
	}

	for start := 0; start < len(domains); start += dynamoBatchSize {
		batch := domains[start:min(start+dynamoBatchSize, len(domains))]

		requests := make([]types.WriteRequest, 0, len(batch))
		for _, domain := range batch {
			item, err := attributevalue.MarshalMap(domainItem{
				PK:        generation + "#" + domain,
				Domain:    domain,
				ExpiresAt: expiresAt,
			})
			if err != nil {
				return fmt.Errorf("failed to marshal domain item: %w", err)
			}
			requests = append(requests, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
		}

		if err := s.writeBatch(ctx, requests); err != nil {
			return err
		}
	}

	pointer, err := attributevalue.MarshalMap(pointerItem{
		PK:         activeKey,
		Generation: generation,
		Count:      len(domains),
		UpdatedAt:  now.Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal active generation: %w", err)
	}

	_, err = s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      pointer,
	})
	if err != nil {
		return fmt.Errorf("failed to publish generation: %w", err)
	}

	s.logger.Info("Replaced disposable domain set",
		zap.String("table", s.table),
		zap.String("generation", generation),
		zap.Int("count", len(domains)))
	return nil
}

func (s *DynamoDBStore) writeBatch(ctx context.Context, requests []types.WriteRequest) error {
	pending := map[string][]types.WriteRequest{s.table: requests}

	for attempt := 0; attempt < dynamoMaxAttempts; attempt++ {
		out, err := s.api.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
		if err != nil {
			return fmt.Errorf("failed to write domain batch: %w", err)
		}
		if len(out.UnprocessedItems[s.table]) == 0 {
			return nil
		}
		pending = out.UnprocessedItems

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 50 * time.Millisecond):
		}
	}

	return ErrUnprocessedItems
}

// Close is a no-op; the AWS client holds no persistent connections to release
func (s *DynamoDBStore) Close() error {
	return nil
}

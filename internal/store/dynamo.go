package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/imrishuroy/receipt-points/internal/aws"
	"github.com/imrishuroy/receipt-points/internal/receipts"
)

// DynamoStore encapsulates receipt operations on a DynamoDB table keyed by receipt_id.
type DynamoStore struct {
	client    aws.DynamoDBAPI
	tableName string
	newID     IDFunc
	nowFunc   func() time.Time
}

// NewDynamoStore creates a new receipts DynamoStore. A nil newID defaults to NewID.
func NewDynamoStore(client aws.DynamoDBAPI, tableName string, newID IDFunc) *DynamoStore {
	if newID == nil {
		newID = NewID
	}
	return &DynamoStore{
		client:    client,
		tableName: tableName,
		newID:     newID,
		nowFunc:   time.Now,
	}
}

// Save writes r with ConditionExpression attribute_not_exists(receipt_id) so an id
// collision never overwrites an existing receipt; a collision regenerates the id.
func (s *DynamoStore) Save(ctx context.Context, r receipts.Receipt) (string, error) {
	for attempt := 0; attempt < MaxIDAttempts; attempt++ {
		rec := receipts.Record{
			ID:        s.newID(),
			Receipt:   r,
			CreatedAt: s.nowFunc().UTC(),
		}
		item, err := attributevalue.MarshalMap(rec)
		if err != nil {
			return "", fmt.Errorf("marshal receipt: %w", err)
		}

		_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
			TableName:           &s.tableName,
			Item:                item,
			ConditionExpression: awsString("attribute_not_exists(receipt_id)"),
		})
		if err == nil {
			return rec.ID, nil
		}
		if !isConditionalCheckFailed(err) {
			return "", fmt.Errorf("put item: %w", err)
		}
	}
	return "", fmt.Errorf("save receipt after %d attempts: %w", MaxIDAttempts, ErrIDExhausted)
}

// Get fetches a receipt by id. Returns (nil, nil) if not found.
func (s *DynamoStore) Get(ctx context.Context, id string) (*receipts.Receipt, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"receipt_id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var rec receipts.Record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal receipt: %w", err)
	}
	return &rec.Receipt, nil
}

// Close is a no-op; the DynamoDB client holds no per-store resources.
func (s *DynamoStore) Close() error { return nil }

func isConditionalCheckFailed(err error) bool {
	var ae smithy.APIError
	return errors.As(err, &ae) && ae.ErrorCode() == "ConditionalCheckFailedException"
}

func awsString(s string) *string { return &s }

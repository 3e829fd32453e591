package storage

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DynamoAPI is the slice of the DynamoDB client used here.
type DynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoStore is a MetadataStore backed by DynamoDB.
type DynamoStore struct {
	api DynamoAPI
}

// NewDynamoStore creates a DynamoStore over the given client.
func NewDynamoStore(api DynamoAPI) *DynamoStore {
	return &DynamoStore{api: api}
}

// PutItem marshals item and writes it to the given table.
func (d *DynamoStore) PutItem(ctx context.Context, table string, item any) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal item for %s: %w", table, err)
	}

	_, err = d.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("put item to %s: %w", table, err)
	}
	return nil
}

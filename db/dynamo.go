package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/chordex/model"
)

// BatchWriteItem takes at most 25 requests
const dynamoBatchSize = 25

const dynamoRetries = 5

// DynamoStore keeps one item per chord with "id" as the partition key.
type DynamoStore struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

// OpenDynamo connects to DynamoDB. A non-empty endpoint points at a local
// instance, e.g. http://localhost:8000.
func OpenDynamo(region, endpoint, table string) (*DynamoStore, error) {
	cfg := &aws.Config{Region: aws.String(region)}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not create a DynamoDB session: %w", err)
	}
	return NewDynamoStore(dynamodb.New(sess), table), nil
}

func NewDynamoStore(client dynamodbiface.DynamoDBAPI, table string) *DynamoStore {
	return &DynamoStore{client: client, table: table}
}

func (s *DynamoStore) ListChords(ctx context.Context) ([]model.CatalogRow, error) {
	var res []model.CatalogRow
	var decodeErr error
	err := s.client.ScanPagesWithContext(ctx, &dynamodb.ScanInput{TableName: aws.String(s.table)},
		func(page *dynamodb.ScanOutput, lastPage bool) bool {
			var rows []model.CatalogRow
			if decodeErr = dynamodbattribute.UnmarshalListOfMaps(page.Items, &rows); decodeErr != nil {
				return false
			}
			res = append(res, rows...)
			return true
		})
	if err != nil {
		return nil, err
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	return res, nil
}

func (s *DynamoStore) UpsertChords(ctx context.Context, rows []model.CatalogRow) error {
	var requests []*dynamodb.WriteRequest
	for _, r := range rows {
		item, err := dynamodbattribute.MarshalMap(r)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", r.ChordName, err)
		}
		requests = append(requests, &dynamodb.WriteRequest{PutRequest: &dynamodb.PutRequest{Item: item}})
	}
	return s.batchWrite(ctx, requests)
}

func (s *DynamoStore) DeleteChords(ctx context.Context, ids []string) error {
	var requests []*dynamodb.WriteRequest
	for _, id := range ids {
		requests = append(requests, &dynamodb.WriteRequest{DeleteRequest: &dynamodb.DeleteRequest{
			Key: map[string]*dynamodb.AttributeValue{"id": {S: aws.String(id)}},
		}})
	}
	return s.batchWrite(ctx, requests)
}

func (s *DynamoStore) batchWrite(ctx context.Context, requests []*dynamodb.WriteRequest) error {
	for start := 0; start < len(requests); start += dynamoBatchSize {
		pending := requests[start:min(start+dynamoBatchSize, len(requests))]
		for attempt := 0; len(pending) > 0; attempt++ {
			if attempt == dynamoRetries {
				return fmt.Errorf("%d writes still unprocessed after %d attempts", len(pending), dynamoRetries)
			}
			out, err := s.client.BatchWriteItemWithContext(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]*dynamodb.WriteRequest{s.table: pending},
			})
			if err != nil {
				return err
			}
			pending = out.UnprocessedItems[s.table]
		}
	}
	return nil
}

func (s *DynamoStore) UpdateNotes(ctx context.Context, id string, notes []string) error {
	value, err := dynamodbattribute.Marshal(notes)
	if err != nil {
		return err
	}
	_, err = s.client.UpdateItemWithContext(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       map[string]*dynamodb.AttributeValue{"id": {S: aws.String(id)}},
		UpdateExpression:          aws.String("SET notes = :notes"),
		ConditionExpression:       aws.String("attribute_exists(id)"),
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{":notes": value},
	})
	var aerr awserr.Error
	if errors.As(err, &aerr) && aerr.Code() == dynamodb.ErrCodeConditionalCheckFailedException {
		return &NotFoundError{ID: id}
	}
	return err
}

func (s *DynamoStore) Close() error {
	return nil
}

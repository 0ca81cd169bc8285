// Package db is the chart identity registry: a DynamoDB table keyed by a
// content-derived id, used to skip charts that were already processed.
package db

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/jsphweid/chartdex/constants"
	"github.com/jsphweid/chartdex/model"
)

type Registry struct {
	client *dynamodb.DynamoDB
	table  string
}

func NewRegistry() (*Registry, error) {
	endpoint := constants.GetRegistryEndpoint()
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String("localhost"),
		Endpoint: &endpoint,
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create a registry session")
	}
	return &Registry{
		client: dynamodb.New(sess),
		table:  constants.GetRegistryTable(),
	}, nil
}

// ChartID derives a stable identifier from the chart content itself, so
// re-registering the same chart is idempotent.
func ChartID(chartString string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(chartString)).String()
}

// RegisterChart is the check-then-register pair behind a single conditional
// put: fresh is false when the chart was seen before.
func (r *Registry) RegisterChart(chartString string) (string, bool, error) {
	id := ChartID(chartString)
	_, err := r.client.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item: map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(id)},
		},
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok &&
			aerr.Code() == dynamodb.ErrCodeConditionalCheckFailedException {
			return id, false, nil
		}
		return "", false, errors.Wrapf(err, "could not register chart %v", id)
	}
	return id, true, nil
}

func (r *Registry) RegisterMetadata(id string, meta model.Metadata) error {
	_, err := r.client.UpdateItem(&dynamodb.UpdateItemInput{
		TableName: aws.String(r.table),
		Key: map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(id)},
		},
		UpdateExpression: aws.String("SET Title = :t, Artists = :a, Genre = :g"),
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":t": {S: aws.String(orDash(meta.Title))},
			":a": {S: aws.String(orDash(meta.Composer))},
			":g": {S: aws.String(orDash(meta.Style))},
		},
	})
	return errors.Wrapf(err, "could not register metadata for %v", id)
}

func (r *Registry) RegisterJAMS(id string, jamsPath string) error {
	_, err := r.client.UpdateItem(&dynamodb.UpdateItemInput{
		TableName: aws.String(r.table),
		Key: map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(id)},
		},
		UpdateExpression: aws.String("SET JamsPath = :p"),
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":p": {S: aws.String(jamsPath)},
		},
	})
	return errors.Wrapf(err, "could not register jams path for %v", id)
}

// orDash keeps dynamodb happy: it rejects empty string attributes.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

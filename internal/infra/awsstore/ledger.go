// Where: internal/infra/awsstore/ledger.go
// What: DynamoDB revision ledger.
// Why: Keep a queryable history of preview revisions per app.
package awsstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/poruru/aca-preview/internal/usecase/preview"
)

const (
	attrApp      = "app"
	attrRevision = "revision"
)

type dynamoAPI interface {
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// Ledger upserts revision rows keyed by (app, revision).
type Ledger struct {
	client dynamoAPI
	table  string
}

// Record upserts entry. Empty fields leave stored attributes untouched.
func (l *Ledger) Record(ctx context.Context, entry preview.LedgerEntry) error {
	if l == nil || l.client == nil {
		return fmt.Errorf("dynamodb client is nil")
	}
	input, err := buildUpdateItemInput(l.table, entry)
	if err != nil {
		return err
	}
	_, err = l.client.UpdateItem(ctx, input)
	return err
}

func buildUpdateItemInput(table string, entry preview.LedgerEntry) (*dynamodb.UpdateItemInput, error) {
	if entry.App == "" || entry.Revision == "" {
		return nil, fmt.Errorf("ledger entry requires app and revision")
	}
	attrs := map[string]string{
		"pull_request": entry.PullRequest,
		"commit_sha":   entry.CommitSHA,
		"image":        entry.Image,
		"url":          entry.URL,
		"state":        entry.State,
	}
	if !entry.UpdatedAt.IsZero() {
		attrs["updated_at"] = entry.UpdatedAt.UTC().Format(time.RFC3339)
	}

	names := make([]string, 0, len(attrs))
	for name, value := range attrs {
		if value != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	assignments := make([]string, 0, len(names))
	exprNames := map[string]string{}
	exprValues := map[string]types.AttributeValue{}
	for i, name := range names {
		nameKey := fmt.Sprintf("#a%d", i)
		valueKey := fmt.Sprintf(":v%d", i)
		assignments = append(assignments, nameKey+" = "+valueKey)
		exprNames[nameKey] = name
		exprValues[valueKey] = &types.AttributeValueMemberS{Value: attrs[name]}
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(table),
		Key: map[string]types.AttributeValue{
			attrApp:      &types.AttributeValueMemberS{Value: entry.App},
			attrRevision: &types.AttributeValueMemberS{Value: entry.Revision},
		},
	}
	if len(assignments) > 0 {
		input.UpdateExpression = aws.String("SET " + strings.Join(assignments, ", "))
		input.ExpressionAttributeNames = exprNames
		input.ExpressionAttributeValues = exprValues
	}
	return input, nil
}

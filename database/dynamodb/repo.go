package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sagarc03/todos"
)

type Repo struct {
	client    Client
	tableName string
}

func NewRepo(client Client, tableName string) (*Repo, error) {
	if client == nil {
		return nil, errors.New("new repo: client is required")
	}
	if !IsValidTableName(tableName) {
		return nil, fmt.Errorf("new repo: invalid table name: %s", tableName)
	}
	return &Repo{client: client, tableName: tableName}, nil
}

func itemKey(ownerID, itemID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrOwnerID: &types.AttributeValueMemberS{Value: ownerID},
		attrItemID:  &types.AttributeValueMemberS{Value: itemID},
	}
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, todos.ErrStoreUnavailable, err)
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

func (r *Repo) ListByOwner(ctx context.Context, ownerID string) ([]todos.Item, error) {
	paginator := ddb.NewQueryPaginator(r.client, &ddb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("#owner = :owner"),
		ExpressionAttributeNames: map[string]string{
			"#owner": attrOwnerID,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":owner": &types.AttributeValueMemberS{Value: ownerID},
		},
	})

	items := []todos.Item{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, storeErr("list by owner", err)
		}

		var records []record
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &records); err != nil {
			return nil, storeErr("list by owner: unmarshal", err)
		}

		for _, rec := range records {
			item, err := rec.toItem()
			if err != nil {
				return nil, storeErr("list by owner", err)
			}
			items = append(items, item)
		}
	}

	slog.DebugContext(ctx, "listed items", "owner_id", ownerID, "count", len(items))
	return items, nil
}

func (r *Repo) Get(ctx context.Context, ownerID, itemID string) (todos.Item, error) {
	out, err := r.client.GetItem(ctx, &ddb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            itemKey(ownerID, itemID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return todos.Item{}, storeErr("get", err)
	}
	if len(out.Item) == 0 {
		return todos.Item{}, todos.ErrNotFound
	}

	return unmarshalItem("get", out.Item)
}

func (r *Repo) Create(ctx context.Context, item todos.Item) (todos.Item, error) {
	av, err := attributevalue.MarshalMap(fromItem(item))
	if err != nil {
		return todos.Item{}, fmt.Errorf("create: marshal: %w", err)
	}

	_, err = r.client.PutItem(ctx, &ddb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return todos.Item{}, storeErr("create", err)
	}

	slog.DebugContext(ctx, "created item", "owner_id", item.OwnerID, "item_id", item.ItemID)
	return item, nil
}

func (r *Repo) Update(ctx context.Context, ownerID, itemID string, patch todos.ItemUpdate) (todos.Item, error) {
	out, err := r.client.UpdateItem(ctx, &ddb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 itemKey(ownerID, itemID),
		ConditionExpression: aws.String("attribute_exists(#item)"),
		UpdateExpression:    aws.String("SET #name = :name, #dueDate = :dueDate, #done = :done, #description = :description, #priorityPoints = :priorityPoints"),
		ExpressionAttributeNames: map[string]string{
			"#item":           attrItemID,
			"#name":           attrName,
			"#dueDate":        attrDueDate,
			"#done":           attrDone,
			"#description":    attrDescription,
			"#priorityPoints": attrPriorityPoints,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":name":           &types.AttributeValueMemberS{Value: patch.Name},
			":dueDate":        &types.AttributeValueMemberS{Value: patch.DueDate},
			":done":           &types.AttributeValueMemberBOOL{Value: patch.Done},
			":description":    &types.AttributeValueMemberS{Value: patch.Description},
			":priorityPoints": &types.AttributeValueMemberN{Value: strconv.Itoa(patch.PriorityPoints)},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionFailed(err) {
			return todos.Item{}, todos.ErrNotFound
		}
		return todos.Item{}, storeErr("update", err)
	}

	slog.DebugContext(ctx, "updated item", "owner_id", ownerID, "item_id", itemID)
	return unmarshalItem("update", out.Attributes)
}

func (r *Repo) UpdateAttachment(ctx context.Context, ownerID, itemID, attachmentURL string) error {
	_, err := r.client.UpdateItem(ctx, &ddb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 itemKey(ownerID, itemID),
		ConditionExpression: aws.String("attribute_exists(#item)"),
		UpdateExpression:    aws.String("SET #attachmentUrl = :attachmentUrl"),
		ExpressionAttributeNames: map[string]string{
			"#item":          attrItemID,
			"#attachmentUrl": attrAttachmentURL,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":attachmentUrl": &types.AttributeValueMemberS{Value: attachmentURL},
		},
	})
	if err != nil {
		if isConditionFailed(err) {
			return todos.ErrNotFound
		}
		return storeErr("update attachment", err)
	}

	slog.DebugContext(ctx, "updated item attachment", "owner_id", ownerID, "item_id", itemID)
	return nil
}

func (r *Repo) Delete(ctx context.Context, ownerID, itemID string) error {
	_, err := r.client.DeleteItem(ctx, &ddb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       itemKey(ownerID, itemID),
	})
	if err != nil {
		return storeErr("delete", err)
	}

	slog.DebugContext(ctx, "deleted item", "owner_id", ownerID, "item_id", itemID)
	return nil
}

func unmarshalItem(op string, av map[string]types.AttributeValue) (todos.Item, error) {
	var rec record
	if err := attributevalue.UnmarshalMap(av, &rec); err != nil {
		return todos.Item{}, storeErr(op+": unmarshal", err)
	}

	item, err := rec.toItem()
	if err != nil {
		return todos.Item{}, storeErr(op, err)
	}
	return item, nil
}

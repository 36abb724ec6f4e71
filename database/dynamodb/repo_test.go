package dynamodb_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sagarc03/todos"
	"github.com/sagarc03/todos/database/dynamodb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testTable  = "todo_items"
	testItemID = "5b3e8f8e-4a1c-4b8e-9a55-0d6f1f0c2a11"
)

var createdAt = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func storedAV(itemID, name string, done bool) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"ownerId":   &types.AttributeValueMemberS{Value: "u1"},
		"itemId":    &types.AttributeValueMemberS{Value: itemID},
		"createdAt": &types.AttributeValueMemberS{Value: "2024-01-01T12:00:00Z"},
		"name":      &types.AttributeValueMemberS{Value: name},
		"dueDate":   &types.AttributeValueMemberS{Value: "2024-01-01"},
		"done":      &types.AttributeValueMemberBOOL{Value: done},
	}
}

func newTestRepo(t *testing.T) (*dynamodb.Repo, *SpyClient) {
	t.Helper()
	client := new(SpyClient)
	repo, err := dynamodb.NewRepo(client, testTable)
	require.NoError(t, err)
	return repo, client
}

func keyMatches(key map[string]types.AttributeValue, ownerID, itemID string) bool {
	owner, ok1 := key["ownerId"].(*types.AttributeValueMemberS)
	item, ok2 := key["itemId"].(*types.AttributeValueMemberS)
	return ok1 && ok2 && owner.Value == ownerID && item.Value == itemID && len(key) == 2
}

func TestNewRepo(t *testing.T) {
	_, err := dynamodb.NewRepo(nil, testTable)
	assert.Error(t, err)

	_, err = dynamodb.NewRepo(new(SpyClient), "x")
	assert.Error(t, err, "table names are at least 3 chars")

	_, err = dynamodb.NewRepo(new(SpyClient), "Todos-dev")
	assert.NoError(t, err)
}

func TestRepo_ListByOwner(t *testing.T) {
	t.Run("follows pagination", func(t *testing.T) {
		repo, client := newTestRepo(t)
		ctx := context.Background()

		lastKey := map[string]types.AttributeValue{
			"ownerId": &types.AttributeValueMemberS{Value: "u1"},
			"itemId":  &types.AttributeValueMemberS{Value: "a"},
		}

		client.On("Query", mock.Anything, mock.MatchedBy(func(in *ddb.QueryInput) bool {
			return in.ExclusiveStartKey == nil &&
				aws.ToString(in.TableName) == testTable &&
				aws.ToString(in.KeyConditionExpression) == "#owner = :owner" &&
				in.ExpressionAttributeValues[":owner"].(*types.AttributeValueMemberS).Value == "u1"
		})).Return(&ddb.QueryOutput{
			Items:            []map[string]types.AttributeValue{storedAV("a", "first", false)},
			LastEvaluatedKey: lastKey,
		}, nil).Once()

		client.On("Query", mock.Anything, mock.MatchedBy(func(in *ddb.QueryInput) bool {
			return in.ExclusiveStartKey != nil
		})).Return(&ddb.QueryOutput{
			Items: []map[string]types.AttributeValue{storedAV("b", "second", true)},
		}, nil).Once()

		items, err := repo.ListByOwner(ctx, "u1")
		require.NoError(t, err)

		require.Len(t, items, 2)
		assert.Equal(t, "first", items[0].Name)
		assert.Equal(t, "second", items[1].Name)
		assert.True(t, items[1].Done)
		assert.Equal(t, createdAt, items[0].CreatedAt)

		client.AssertExpectations(t)
	})

	t.Run("empty", func(t *testing.T) {
		repo, client := newTestRepo(t)

		client.On("Query", mock.Anything, mock.Anything).Return(&ddb.QueryOutput{}, nil)

		items, err := repo.ListByOwner(context.Background(), "nobody")
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("service error", func(t *testing.T) {
		repo, client := newTestRepo(t)

		client.On("Query", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

		_, err := repo.ListByOwner(context.Background(), "u1")
		assert.ErrorIs(t, err, todos.ErrStoreUnavailable)
	})
}

func TestRepo_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, client := newTestRepo(t)
		ctx := context.Background()

		client.On("GetItem", ctx, mock.MatchedBy(func(in *ddb.GetItemInput) bool {
			return keyMatches(in.Key, "u1", testItemID) && aws.ToBool(in.ConsistentRead)
		})).Return(&ddb.GetItemOutput{Item: storedAV(testItemID, "buy milk", false)}, nil)

		item, err := repo.Get(ctx, "u1", testItemID)
		require.NoError(t, err)

		assert.Equal(t, todos.Item{
			ItemID:    testItemID,
			OwnerID:   "u1",
			CreatedAt: createdAt,
			Name:      "buy milk",
			DueDate:   "2024-01-01",
		}, item)
	})

	t.Run("not found", func(t *testing.T) {
		repo, client := newTestRepo(t)

		client.On("GetItem", mock.Anything, mock.Anything).Return(&ddb.GetItemOutput{}, nil)

		_, err := repo.Get(context.Background(), "u1", testItemID)
		assert.ErrorIs(t, err, todos.ErrNotFound)
	})

	t.Run("service error", func(t *testing.T) {
		repo, client := newTestRepo(t)

		client.On("GetItem", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

		_, err := repo.Get(context.Background(), "u1", testItemID)
		assert.ErrorIs(t, err, todos.ErrStoreUnavailable)
	})
}

func TestRepo_Create(t *testing.T) {
	repo, client := newTestRepo(t)
	ctx := context.Background()

	item := todos.Item{
		ItemID:         testItemID,
		OwnerID:        "u1",
		CreatedAt:      createdAt,
		Name:           "buy milk",
		DueDate:        "2024-01-01",
		PriorityPoints: 3,
	}

	client.On("PutItem", ctx, mock.MatchedBy(func(in *ddb.PutItemInput) bool {
		name, _ := in.Item["name"].(*types.AttributeValueMemberS)
		points, _ := in.Item["priorityPoints"].(*types.AttributeValueMemberN)
		_, hasAttachment := in.Item["attachmentUrl"]
		return aws.ToString(in.TableName) == testTable &&
			keyMatches(map[string]types.AttributeValue{"ownerId": in.Item["ownerId"], "itemId": in.Item["itemId"]}, "u1", testItemID) &&
			name != nil && name.Value == "buy milk" &&
			points != nil && points.Value == "3" &&
			!hasAttachment
	})).Return(&ddb.PutItemOutput{}, nil)

	got, err := repo.Create(ctx, item)
	require.NoError(t, err)
	assert.Equal(t, item, got)

	client.AssertExpectations(t)
}

func TestRepo_Update(t *testing.T) {
	patch := todos.ItemUpdate{Name: "buy oat milk", DueDate: "2024-01-02", Done: true}

	t.Run("conditional write returns new item", func(t *testing.T) {
		repo, client := newTestRepo(t)
		ctx := context.Background()

		client.On("UpdateItem", ctx, mock.MatchedBy(func(in *ddb.UpdateItemInput) bool {
			done, _ := in.ExpressionAttributeValues[":done"].(*types.AttributeValueMemberBOOL)
			return keyMatches(in.Key, "u1", testItemID) &&
				aws.ToString(in.ConditionExpression) == "attribute_exists(#item)" &&
				in.ExpressionAttributeNames["#item"] == "itemId" &&
				in.ReturnValues == types.ReturnValueAllNew &&
				done != nil && done.Value
		})).Return(&ddb.UpdateItemOutput{Attributes: storedAV(testItemID, "buy oat milk", true)}, nil)

		got, err := repo.Update(ctx, "u1", testItemID, patch)
		require.NoError(t, err)

		assert.Equal(t, "buy oat milk", got.Name)
		assert.True(t, got.Done)
		assert.Equal(t, createdAt, got.CreatedAt)
	})

	t.Run("missing item", func(t *testing.T) {
		repo, client := newTestRepo(t)

		client.On("UpdateItem", mock.Anything, mock.Anything).
			Return(nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")})

		_, err := repo.Update(context.Background(), "u1", testItemID, patch)
		assert.ErrorIs(t, err, todos.ErrNotFound)
	})

	t.Run("service error", func(t *testing.T) {
		repo, client := newTestRepo(t)

		client.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

		_, err := repo.Update(context.Background(), "u1", testItemID, patch)
		assert.ErrorIs(t, err, todos.ErrStoreUnavailable)
	})
}

func TestRepo_UpdateAttachment(t *testing.T) {
	url := "https://bucket.s3.us-east-1.amazonaws.com/9c1f4d2a-7e6b-4f0a-8d3c-2b5e6a7f8c90"

	t.Run("sets only attachment url", func(t *testing.T) {
		repo, client := newTestRepo(t)
		ctx := context.Background()

		client.On("UpdateItem", ctx, mock.MatchedBy(func(in *ddb.UpdateItemInput) bool {
			v, _ := in.ExpressionAttributeValues[":attachmentUrl"].(*types.AttributeValueMemberS)
			return aws.ToString(in.UpdateExpression) == "SET #attachmentUrl = :attachmentUrl" &&
				len(in.ExpressionAttributeValues) == 1 &&
				v != nil && v.Value == url
		})).Return(&ddb.UpdateItemOutput{}, nil)

		assert.NoError(t, repo.UpdateAttachment(ctx, "u1", testItemID, url))
		client.AssertExpectations(t)
	})

	t.Run("missing item", func(t *testing.T) {
		repo, client := newTestRepo(t)

		client.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		err := repo.UpdateAttachment(context.Background(), "u1", testItemID, url)
		assert.ErrorIs(t, err, todos.ErrNotFound)
	})
}

func TestRepo_Delete(t *testing.T) {
	repo, client := newTestRepo(t)
	ctx := context.Background()

	client.On("DeleteItem", ctx, mock.MatchedBy(func(in *ddb.DeleteItemInput) bool {
		return keyMatches(in.Key, "u1", testItemID) && in.ConditionExpression == nil
	})).Return(&ddb.DeleteItemOutput{}, nil).Once()

	assert.NoError(t, repo.Delete(ctx, "u1", testItemID))

	client.On("DeleteItem", ctx, mock.Anything).Return(nil, errors.New("boom")).Once()
	assert.ErrorIs(t, repo.Delete(ctx, "u1", testItemID), todos.ErrStoreUnavailable)
}

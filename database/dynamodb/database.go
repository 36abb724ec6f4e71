package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sagarc03/todos"
)

// TableWaitTimeout bounds how long Migrate waits for a new table to become active.
const TableWaitTimeout = 2 * time.Minute

type database struct {
	client Client
	tables todos.Tables
}

// Connect creates a DynamoDB client from cfg.
// Tables should be validated with IsValidTableName before calling Connect.
func Connect(ctx context.Context, cfg Config, tables todos.Tables) (*database, error) {
	client, err := NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect dynamodb: %w", err)
	}
	return Open(client, tables), nil
}

// Open wraps an existing client.
func Open(client Client, tables todos.Tables) *database {
	return &database{client: client, tables: tables}
}

// Ping verifies the service is reachable with the configured credentials.
func (d *database) Ping(ctx context.Context) error {
	if _, err := d.client.ListTables(ctx, &ddb.ListTablesInput{Limit: aws.Int32(1)}); err != nil {
		return fmt.Errorf("ping dynamodb: %w", err)
	}
	return nil
}

// Migrate creates the items table with on-demand billing if it does not
// exist and waits until it is active.
func (d *database) Migrate(ctx context.Context) error {
	_, err := d.client.CreateTable(ctx, &ddb.CreateTableInput{
		TableName: aws.String(d.tables.Items),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(attrOwnerID), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(attrItemID), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(attrOwnerID), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String(attrItemID), KeyType: types.KeyTypeRange},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if !errors.As(err, &inUse) {
			return fmt.Errorf("migrate: create table %s: %w", d.tables.Items, err)
		}
		slog.DebugContext(ctx, "table already exists", "table", d.tables.Items)
	}

	waiter := ddb.NewTableExistsWaiter(d.client)
	if err := waiter.Wait(ctx, &ddb.DescribeTableInput{TableName: aws.String(d.tables.Items)}, TableWaitTimeout); err != nil {
		return fmt.Errorf("migrate: wait for table %s: %w", d.tables.Items, err)
	}

	return nil
}

// Validate checks that the items table exists with the expected key schema.
func (d *database) Validate(ctx context.Context) error {
	out, err := d.client.DescribeTable(ctx, &ddb.DescribeTableInput{TableName: aws.String(d.tables.Items)})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return fmt.Errorf("validate schema %s: table %s does not exist", d.tables.Items, d.tables.Items)
		}
		return fmt.Errorf("validate schema %s: %w", d.tables.Items, err)
	}

	if err := validateKeySchema(out.Table); err != nil {
		return fmt.Errorf("validate schema %s: %w", d.tables.Items, err)
	}
	return nil
}

func validateKeySchema(table *types.TableDescription) error {
	if table == nil {
		return errors.New("empty table description")
	}

	keys := map[string]types.KeyType{}
	for _, k := range table.KeySchema {
		keys[aws.ToString(k.AttributeName)] = k.KeyType
	}
	if keys[attrOwnerID] != types.KeyTypeHash || keys[attrItemID] != types.KeyTypeRange || len(keys) != 2 {
		return fmt.Errorf("key schema must be %s (HASH) and %s (RANGE)", attrOwnerID, attrItemID)
	}

	for _, def := range table.AttributeDefinitions {
		name := aws.ToString(def.AttributeName)
		if (name == attrOwnerID || name == attrItemID) && def.AttributeType != types.ScalarAttributeTypeS {
			return fmt.Errorf("key attribute %s must be of type S, got %s", name, def.AttributeType)
		}
	}

	return nil
}

// GetRepo returns the ItemRepo for database operations.
func (d *database) GetRepo() todos.ItemRepo {
	return &Repo{client: d.client, tableName: d.tables.Items}
}

// Close is a no-op; the SDK client holds no connections that need releasing.
func (d *database) Close() error {
	return nil
}

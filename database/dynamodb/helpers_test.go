package dynamodb_test

import (
	"context"

	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/stretchr/testify/mock"
)

type SpyClient struct {
	mock.Mock
}

func (s *SpyClient) GetItem(ctx context.Context, params *ddb.GetItemInput, _ ...func(*ddb.Options)) (*ddb.GetItemOutput, error) {
	args := s.Called(ctx, params)
	out, _ := args.Get(0).(*ddb.GetItemOutput)
	return out, args.Error(1)
}

func (s *SpyClient) PutItem(ctx context.Context, params *ddb.PutItemInput, _ ...func(*ddb.Options)) (*ddb.PutItemOutput, error) {
	args := s.Called(ctx, params)
	out, _ := args.Get(0).(*ddb.PutItemOutput)
	return out, args.Error(1)
}

func (s *SpyClient) UpdateItem(ctx context.Context, params *ddb.UpdateItemInput, _ ...func(*ddb.Options)) (*ddb.UpdateItemOutput, error) {
	args := s.Called(ctx, params)
	out, _ := args.Get(0).(*ddb.UpdateItemOutput)
	return out, args.Error(1)
}

func (s *SpyClient) DeleteItem(ctx context.Context, params *ddb.DeleteItemInput, _ ...func(*ddb.Options)) (*ddb.DeleteItemOutput, error) {
	args := s.Called(ctx, params)
	out, _ := args.Get(0).(*ddb.DeleteItemOutput)
	return out, args.Error(1)
}

func (s *SpyClient) Query(ctx context.Context, params *ddb.QueryInput, _ ...func(*ddb.Options)) (*ddb.QueryOutput, error) {
	args := s.Called(ctx, params)
	out, _ := args.Get(0).(*ddb.QueryOutput)
	return out, args.Error(1)
}

func (s *SpyClient) CreateTable(ctx context.Context, params *ddb.CreateTableInput, _ ...func(*ddb.Options)) (*ddb.CreateTableOutput, error) {
	args := s.Called(ctx, params)
	out, _ := args.Get(0).(*ddb.CreateTableOutput)
	return out, args.Error(1)
}

func (s *SpyClient) DescribeTable(ctx context.Context, params *ddb.DescribeTableInput, _ ...func(*ddb.Options)) (*ddb.DescribeTableOutput, error) {
	args := s.Called(ctx, params)
	out, _ := args.Get(0).(*ddb.DescribeTableOutput)
	return out, args.Error(1)
}

func (s *SpyClient) ListTables(ctx context.Context, params *ddb.ListTablesInput, _ ...func(*ddb.Options)) (*ddb.ListTablesOutput, error) {
	args := s.Called(ctx, params)
	out, _ := args.Get(0).(*ddb.ListTablesOutput)
	return out, args.Error(1)
}

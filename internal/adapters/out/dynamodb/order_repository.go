package dynamodb

import (
	"context"
	"fmt"
	"strconv"

	"cardorders/internal/core/domain/model/kernel"
	"cardorders/internal/core/domain/model/order"
	"cardorders/internal/pkg/errs"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// OrderRepository implements ports.OrderRepository on the orders table.
type OrderRepository struct {
	client DynamoDBAPI
	table  string
	uow    *UnitOfWork
}

// Add puts a new order, failing if the id is taken.
func (r *OrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	item, err := attributevalue.MarshalMap(orderToItem(aggregate))
	if err != nil {
		return fmt.Errorf("marshal order item: %w", err)
	}

	if err = r.uow.write(ctx, pendingWrite{
		kind: addOrder,
		id:   aggregate.ID().String(),
		item: types.TransactWriteItem{
			Put: &types.Put{
				TableName:           &r.table,
				Item:                item,
				ConditionExpression: awsString("attribute_not_exists(order_id)"),
			},
		},
	}); err != nil {
		return err
	}

	r.uow.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update replaces the stored order if it is still at the version it was loaded with.
func (r *OrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	item, err := attributevalue.MarshalMap(orderToItem(aggregate))
	if err != nil {
		return fmt.Errorf("marshal order item: %w", err)
	}

	if err = r.uow.write(ctx, pendingWrite{
		kind: updateOrder,
		id:   aggregate.ID().String(),
		item: types.TransactWriteItem{
			Put: &types.Put{
				TableName:           &r.table,
				Item:                item,
				ConditionExpression: awsString("attribute_exists(order_id) AND version = :expected"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":expected": &types.AttributeValueMemberN{Value: strconv.FormatInt(aggregate.PersistedVersion(), 10)},
				},
				ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
			},
		},
	}); err != nil {
		return err
	}

	r.uow.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get reads one order with a strongly consistent read.
func (r *OrderRepository) Get(ctx context.Context, id kernel.ID) (*order.Order, error) {
	if err := id.ValidatePrefix(kernel.OrderPrefix); err != nil {
		return nil, err
	}

	out, err := r.client.GetItem(ctx, &dyn.GetItemInput{
		TableName:      &r.table,
		Key:            orderKey(id.String()),
		ConsistentRead: awsBool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}

	var item orderItem
	if err = attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return itemToOrder(item)
}

// GetMany reads the listed orders in chunks of BatchGetItem, retrying unprocessed keys.
func (r *OrderRepository) GetMany(ctx context.Context, ids []kernel.ID) ([]*order.Order, error) {
	keys := make([]map[string]types.AttributeValue, 0, len(ids))
	for _, id := range ids {
		if err := id.ValidatePrefix(kernel.OrderPrefix); err != nil {
			return nil, err
		}
		keys = append(keys, orderKey(id.String()))
	}

	orders := make([]*order.Order, 0, len(ids))
	for start := 0; start < len(keys); start += maxBatchGetKeys {
		end := min(start+maxBatchGetKeys, len(keys))

		request := map[string]types.KeysAndAttributes{
			r.table: {Keys: keys[start:end], ConsistentRead: awsBool(true)},
		}
		for len(request) > 0 {
			out, err := r.client.BatchGetItem(ctx, &dyn.BatchGetItemInput{RequestItems: request})
			if err != nil {
				return nil, fmt.Errorf("batch get item: %w", err)
			}

			for _, raw := range out.Responses[r.table] {
				var item orderItem
				if err = attributevalue.UnmarshalMap(raw, &item); err != nil {
					return nil, fmt.Errorf("unmarshal order: %w", err)
				}
				o, err := itemToOrder(item)
				if err != nil {
					return nil, err
				}
				orders = append(orders, o)
			}

			if err = ctx.Err(); err != nil {
				return nil, err
			}
			request = out.UnprocessedKeys
		}
	}

	return orders, nil
}

func orderKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"order_id": &types.AttributeValueMemberS{Value: id},
	}
}

func awsBool(b bool) *bool { return &b }

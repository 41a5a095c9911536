package dynamodb

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"cardorders/internal/core/domain/model/kernel"
	"cardorders/internal/core/domain/model/order"
	"cardorders/internal/pkg/errs"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// OrderEventRepository implements ports.OrderEventRepository on the events table.
type OrderEventRepository struct {
	client DynamoDBAPI
	table  string
	uow    *UnitOfWork
}

// Append puts the events, failing if any id already exists.
func (r *OrderEventRepository) Append(ctx context.Context, events ...*order.Event) error {
	if len(events) == 0 {
		return nil
	}

	base := time.Now().UnixNano()
	writes := make([]pendingWrite, 0, len(events))
	for i, event := range events {
		if err := event.Validate(); err != nil {
			return err
		}

		item, err := attributevalue.MarshalMap(eventToItem(event, base+int64(i)))
		if err != nil {
			return fmt.Errorf("marshal event item: %w", err)
		}

		writes = append(writes, pendingWrite{
			kind: appendEvent,
			id:   event.ID().String(),
			item: types.TransactWriteItem{
				Put: &types.Put{
					TableName:           &r.table,
					Item:                item,
					ConditionExpression: awsString("attribute_not_exists(event_id)"),
				},
			},
		})
	}

	return r.uow.write(ctx, writes...)
}

// ListForOrder queries the order_id index and returns the ledger oldest first.
func (r *OrderEventRepository) ListForOrder(ctx context.Context, orderID kernel.ID) ([]*order.Event, error) {
	if err := orderID.ValidatePrefix(kernel.OrderPrefix); err != nil {
		return nil, err
	}

	var items []eventItem
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dyn.QueryInput{
			TableName:              &r.table,
			IndexName:              awsString(OrderIDIndex),
			KeyConditionExpression: awsString("order_id = :order_id"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":order_id": &types.AttributeValueMemberS{Value: orderID.String()},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("query events: %w", err)
		}

		page, err := unmarshalEvents(out.Items)
		if err != nil {
			return nil, err
		}
		items = append(items, page...)

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	sortEvents(items)
	return toEvents(items)
}

// ListUnpublished scans for events without a published_at stamp and returns
// the oldest limit of them.
func (r *OrderEventRepository) ListUnpublished(ctx context.Context, limit int) ([]*order.Event, error) {
	if limit < 1 {
		return nil, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}

	var items []eventItem
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dyn.ScanInput{
			TableName:         &r.table,
			FilterExpression:  awsString("attribute_not_exists(published_at)"),
			ConsistentRead:    awsBool(true),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scan events: %w", err)
		}

		page, err := unmarshalEvents(out.Items)
		if err != nil {
			return nil, err
		}
		items = append(items, page...)

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	slices.SortFunc(items, func(a, b eventItem) int { return cmp.Compare(a.Seq, b.Seq) })
	if len(items) > limit {
		items = items[:limit]
	}
	return toEvents(items)
}

// MarkPublished stamps the events. Events already published keep their first
// stamp. The stamps are not part of the surrounding unit of work.
func (r *OrderEventRepository) MarkPublished(ctx context.Context, ids []kernel.ID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	stamp, err := attributevalue.Marshal(at.UTC())
	if err != nil {
		return fmt.Errorf("marshal published_at: %w", err)
	}

	writes := make([]pendingWrite, 0, len(ids))
	for _, id := range ids {
		if err := id.ValidatePrefix(kernel.OrderEventPrefix); err != nil {
			return err
		}

		writes = append(writes, pendingWrite{
			kind: markEvent,
			id:   id.String(),
			item: types.TransactWriteItem{
				Update: &types.Update{
					TableName: &r.table,
					Key: map[string]types.AttributeValue{
						"event_id": &types.AttributeValueMemberS{Value: id.String()},
					},
					UpdateExpression:          awsString("SET published_at = if_not_exists(published_at, :at)"),
					ConditionExpression:       awsString("attribute_exists(event_id)"),
					ExpressionAttributeValues: map[string]types.AttributeValue{":at": stamp},
				},
			},
		})
	}

	// Stamps are idempotent and written straight away, in chunks that fit one
	// transaction, so relays larger than the transaction item limit still work.
	for start := 0; start < len(writes); start += maxTransactItems {
		if err := r.uow.flush(ctx, writes[start:min(start+maxTransactItems, len(writes))]); err != nil {
			return err
		}
	}
	return nil
}

func unmarshalEvents(raw []map[string]types.AttributeValue) ([]eventItem, error) {
	items := make([]eventItem, 0, len(raw))
	if err := attributevalue.UnmarshalListOfMaps(raw, &items); err != nil {
		return nil, fmt.Errorf("unmarshal events: %w", err)
	}
	return items, nil
}

func sortEvents(items []eventItem) {
	slices.SortFunc(items, func(a, b eventItem) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Seq, b.Seq)
	})
}

func toEvents(items []eventItem) ([]*order.Event, error) {
	events := make([]*order.Event, 0, len(items))
	for _, item := range items {
		e, err := itemToEvent(item)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

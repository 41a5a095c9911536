package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type attrs = map[string]types.AttributeValue

// fakeDynamo is a small in-memory DynamoDB covering the expressions the
// adapter sends. Pages hold at most pageSize items so paging is exercised.
type fakeDynamo struct {
	mu       sync.Mutex
	tables   map[string]map[string]attrs
	keyAttrs map[string]string
	pageSize int

	// unprocessOnce makes the next BatchGetItem return its first key as unprocessed.
	unprocessOnce bool

	// transactErr, when set, is returned by the next TransactWriteItems call.
	transactErr error

	transactCalls int
	batchGetCalls int
}

func newFakeDynamo(tables Tables) *fakeDynamo {
	return &fakeDynamo{
		tables: map[string]map[string]attrs{
			tables.Orders: {},
			tables.Events: {},
		},
		keyAttrs: map[string]string{
			tables.Orders: "order_id",
			tables.Events: "event_id",
		},
		pageSize: 2,
	}
}

func (f *fakeDynamo) GetItem(_ context.Context, params *dyn.GetItemInput, _ ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.lookup(*params.TableName, params.Key)
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (f *fakeDynamo) BatchGetItem(_ context.Context, params *dyn.BatchGetItemInput, _ ...func(*dyn.Options)) (*dyn.BatchGetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchGetCalls++

	out := &dyn.BatchGetItemOutput{Responses: map[string][]attrs{}}
	for table, request := range params.RequestItems {
		if len(request.Keys) > maxBatchGetKeys {
			return nil, fmt.Errorf("too many keys: %d", len(request.Keys))
		}

		keys := request.Keys
		if f.unprocessOnce && len(keys) > 0 {
			f.unprocessOnce = false
			out.UnprocessedKeys = map[string]types.KeysAndAttributes{table: {Keys: keys[:1]}}
			keys = keys[1:]
		}
		for _, key := range keys {
			if item, ok := f.lookup(table, key); ok {
				out.Responses[table] = append(out.Responses[table], item)
			}
		}
	}
	return out, nil
}

func (f *fakeDynamo) Query(_ context.Context, params *dyn.QueryInput, _ ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if params.IndexName == nil || *params.IndexName != OrderIDIndex || *params.KeyConditionExpression != "order_id = :order_id" {
		return nil, errors.New("unsupported query")
	}
	want := params.ExpressionAttributeValues[":order_id"].(*types.AttributeValueMemberS).Value

	items, last := f.page(*params.TableName, params.ExclusiveStartKey, func(item attrs) bool {
		return str(item, "order_id") == want
	})
	return &dyn.QueryOutput{Items: items, LastEvaluatedKey: last}, nil
}

func (f *fakeDynamo) Scan(_ context.Context, params *dyn.ScanInput, _ ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if params.FilterExpression == nil || *params.FilterExpression != "attribute_not_exists(published_at)" {
		return nil, errors.New("unsupported scan")
	}

	items, last := f.page(*params.TableName, params.ExclusiveStartKey, func(item attrs) bool {
		_, ok := item["published_at"]
		return !ok
	})
	return &dyn.ScanOutput{Items: items, LastEvaluatedKey: last}, nil
}

func (f *fakeDynamo) TransactWriteItems(_ context.Context, params *dyn.TransactWriteItemsInput, _ ...func(*dyn.Options)) (*dyn.TransactWriteItemsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transactCalls++

	if err := f.transactErr; err != nil {
		f.transactErr = nil
		return nil, err
	}

	if len(params.TransactItems) > maxTransactItems {
		return nil, fmt.Errorf("too many transact items: %d", len(params.TransactItems))
	}

	reasons := make([]types.CancellationReason, len(params.TransactItems))
	failed := false
	for i, it := range params.TransactItems {
		reasons[i] = types.CancellationReason{Code: awsString("None")}

		table, key, condition, values, returnOld := f.describe(it)
		existing, exists := f.lookup(table, key)
		if f.holds(condition, existing, exists, values) {
			continue
		}

		failed = true
		reasons[i].Code = awsString("ConditionalCheckFailed")
		if returnOld && exists {
			reasons[i].Item = existing
		}
	}
	if failed {
		return nil, &types.TransactionCanceledException{
			Message:             awsString("Transaction cancelled"),
			CancellationReasons: reasons,
		}
	}

	for _, it := range params.TransactItems {
		switch {
		case it.Put != nil:
			f.tables[*it.Put.TableName][f.keyOf(*it.Put.TableName, it.Put.Item)] = it.Put.Item
		case it.Update != nil:
			if *it.Update.UpdateExpression != "SET published_at = if_not_exists(published_at, :at)" {
				return nil, errors.New("unsupported update")
			}
			table := *it.Update.TableName
			item, _ := f.lookup(table, it.Update.Key)
			if _, ok := item["published_at"]; !ok {
				item["published_at"] = it.Update.ExpressionAttributeValues[":at"]
			}
		}
	}
	return &dyn.TransactWriteItemsOutput{}, nil
}

func (f *fakeDynamo) describe(it types.TransactWriteItem) (table string, key attrs, condition string, values attrs, returnOld bool) {
	switch {
	case it.Put != nil:
		table = *it.Put.TableName
		key = attrs{f.keyAttrs[table]: it.Put.Item[f.keyAttrs[table]]}
		condition = deref(it.Put.ConditionExpression)
		values = it.Put.ExpressionAttributeValues
		returnOld = it.Put.ReturnValuesOnConditionCheckFailure == types.ReturnValuesOnConditionCheckFailureAllOld
	case it.Update != nil:
		table = *it.Update.TableName
		key = it.Update.Key
		condition = deref(it.Update.ConditionExpression)
		values = it.Update.ExpressionAttributeValues
	}
	return
}

func (f *fakeDynamo) holds(condition string, existing attrs, exists bool, values attrs) bool {
	switch condition {
	case "":
		return true
	case "attribute_not_exists(order_id)", "attribute_not_exists(event_id)":
		return !exists
	case "attribute_exists(event_id)":
		return exists
	case "attribute_exists(order_id) AND version = :expected":
		if !exists {
			return false
		}
		current, _ := existing["version"].(*types.AttributeValueMemberN)
		return current != nil && current.Value == values[":expected"].(*types.AttributeValueMemberN).Value
	default:
		panic("unsupported condition " + condition)
	}
}

// page walks a table in key order after startKey and returns up to pageSize
// matching items. Like DynamoDB, the filter is applied within the page.
func (f *fakeDynamo) page(table string, startKey attrs, match func(attrs) bool) ([]attrs, attrs) {
	rows := f.tables[table]
	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	if startKey != nil {
		after := f.keyOf(table, startKey)
		keys = slices.DeleteFunc(keys, func(k string) bool { return k <= after })
	}

	var last attrs
	if len(keys) > f.pageSize {
		keys = keys[:f.pageSize]
		last = attrs{f.keyAttrs[table]: &types.AttributeValueMemberS{Value: keys[len(keys)-1]}}
	}

	var items []attrs
	for _, k := range keys {
		if match(rows[k]) {
			items = append(items, rows[k])
		}
	}
	return items, last
}

func (f *fakeDynamo) lookup(table string, key attrs) (attrs, bool) {
	item, ok := f.tables[table][f.keyOf(table, key)]
	return item, ok
}

func (f *fakeDynamo) keyOf(table string, item attrs) string {
	return str(item, f.keyAttrs[table])
}

func (f *fakeDynamo) count(table string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tables[table])
}

func str(item attrs, name string) string {
	if v, ok := item[name].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"cardorders/internal/core/domain/model/order"
	"cardorders/internal/pkg/errs"
)

// Store backends selectable with STORE_BACKEND.
const (
	BackendPostgres = "postgres"
	BackendDynamoDB = "dynamodb"
)

const defaultRelayBatchSize = 100

type Config struct {
	HTTPPort            string
	DBHost              string
	DBPort              string
	DBUser              string
	DBPassword          string
	DBName              string
	DBSslMode           string
	StoreBackend        string
	AWSRegion           string
	DynamoDBOrdersTable string
	DynamoDBEventsTable string
	KafkaHost           string
	KafkaOrderChanged   string
	EventRelaySchedule  string
	EventRelayBatchSize int
	NonCancelableStates []order.State
}

// LoadConfig reads the configuration through getenv, usually os.Getenv after
// the .env file has been loaded.
func LoadConfig(getenv func(string) string) (Config, error) {
	config := Config{
		HTTPPort:            getenv("HTTP_PORT"),
		DBHost:              getenv("DB_HOST"),
		DBPort:              getenv("DB_PORT"),
		DBUser:              getenv("DB_USER"),
		DBPassword:          getenv("DB_PASSWORD"),
		DBName:              getenv("DB_NAME"),
		DBSslMode:           getenv("DB_SSLMODE"),
		StoreBackend:        strings.ToLower(strings.TrimSpace(getenv("STORE_BACKEND"))),
		AWSRegion:           getenv("AWS_REGION"),
		DynamoDBOrdersTable: getenv("DYNAMODB_ORDERS_TABLE"),
		DynamoDBEventsTable: getenv("DYNAMODB_EVENTS_TABLE"),
		KafkaHost:           getenv("KAFKA_HOST"),
		KafkaOrderChanged:   getenv("KAFKA_ORDER_CHANGED_TOPIC"),
		EventRelaySchedule:  getenv("EVENT_RELAY_SCHEDULE"),
		EventRelayBatchSize: defaultRelayBatchSize,
	}

	if config.HTTPPort == "" {
		config.HTTPPort = "8080"
	}
	if config.DBSslMode == "" {
		config.DBSslMode = "disable"
	}
	if config.DynamoDBOrdersTable == "" {
		config.DynamoDBOrdersTable = "orders"
	}
	if config.DynamoDBEventsTable == "" {
		config.DynamoDBEventsTable = "order_events"
	}
	if config.KafkaOrderChanged == "" {
		config.KafkaOrderChanged = "order.changed"
	}

	switch config.StoreBackend {
	case "":
		config.StoreBackend = BackendPostgres
	case BackendPostgres, BackendDynamoDB:
	default:
		return Config{}, errs.NewValueIsInvalidErrorWithCause("STORE_BACKEND",
			fmt.Errorf("%q is neither %q nor %q", config.StoreBackend, BackendPostgres, BackendDynamoDB))
	}

	if raw := strings.TrimSpace(getenv("EVENT_RELAY_BATCH_SIZE")); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, errs.NewValueIsInvalidErrorWithCause("EVENT_RELAY_BATCH_SIZE", err)
		}
		config.EventRelayBatchSize = size
	}

	states, err := parseStates(getenv("NON_CANCELABLE_STATES"))
	if err != nil {
		return Config{}, err
	}
	config.NonCancelableStates = states

	return config, nil
}

// DSN is the Postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// TransitionPolicy builds the default policy without the configured cancellation edges.
func (c Config) TransitionPolicy() (order.TransitionPolicy, error) {
	return order.DefaultTransitionPolicy(order.WithoutCancellationFrom(c.NonCancelableStates...))
}

func parseStates(raw string) ([]order.State, error) {
	var states []order.State
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		state, err := order.ParseState(name)
		if err != nil {
			return nil, fmt.Errorf("NON_CANCELABLE_STATES: %w", err)
		}
		states = append(states, state)
	}
	return states, nil
}

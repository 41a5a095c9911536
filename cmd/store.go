package cmd

import (
	"context"
	"fmt"

	"cardorders/internal/adapters/out/dynamodb"
	postgres_adapter "cardorders/internal/adapters/out/postgres"
	"cardorders/internal/core/ports"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Store is an opened persistence backend. DB is nil unless the backend is Postgres.
type Store struct {
	UoWFactory ports.UnitOfWorkFactory
	DB         *gorm.DB
	close      func() error
}

// Close releases the backend's connections.
func (s Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// OpenStore connects to the configured backend. Postgres tables are migrated on open.
func OpenStore(ctx context.Context, configs Config) (Store, error) {
	switch configs.StoreBackend {
	case BackendDynamoDB:
		awsConfig, err := dynamodb.LoadAWSConfig(ctx, configs.AWSRegion)
		if err != nil {
			return Store{}, err
		}
		client := dynamodb.NewClient(awsConfig)
		tables := dynamodb.Tables{Orders: configs.DynamoDBOrdersTable, Events: configs.DynamoDBEventsTable}
		return Store{UoWFactory: dynamodb.NewUnitOfWorkFactory(client, tables)}, nil

	default:
		db, err := gorm.Open(postgres.Open(configs.DSN()), &gorm.Config{})
		if err != nil {
			return Store{}, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err = postgres_adapter.Migrate(db); err != nil {
			return Store{}, fmt.Errorf("failed to migrate database: %w", err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			return Store{}, err
		}
		return Store{
			UoWFactory: postgres_adapter.NewGormUnitOfWorkFactory(db),
			DB:         db,
			close:      sqlDB.Close,
		}, nil
	}
}

package orderstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"sync"

	"github.com/buger/jsonparser"
	"github.com/golang/glog"
	_ "github.com/lib/pq"

	"github.com/Automattic/newspack-ads-sub000/errortypes"
)

const (
	selectConfigQuery = "SELECT config FROM newspack_order_configs WHERE order_id = $1"
	upsertConfigQuery = `INSERT INTO newspack_order_configs (order_id, config) VALUES ($1, $2)
		ON CONFLICT (order_id) DO UPDATE SET config = EXCLUDED.config`

	// Legacy rows predate keying by order id: order_id is NULL and the id
	// lives only inside the blob.
	selectLegacyQuery = "SELECT id, config FROM newspack_order_configs WHERE order_id IS NULL"
	rekeyLegacyQuery  = "UPDATE newspack_order_configs SET order_id = $1 WHERE id = $2 AND order_id IS NULL"
)

// PostgresStore persists order configs in the newspack_order_configs table.
// This should be instantiated through the NewPostgresStore() function.
type PostgresStore struct {
	db            *sql.DB
	legacyMigrate sync.Once
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	if db == nil {
		glog.Fatalf("The Postgres order config store requires a database connection. Please report this as a bug.")
	}
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, orderID int64) (OrderConfig, error) {
	blob, err := s.getBlob(ctx, orderID)
	if err == sql.ErrNoRows {
		// First miss triggers the one-shot legacy migration; un-keyed rows
		// written by old plugin versions get re-keyed from their blob.
		s.legacyMigrate.Do(func() { s.migrateLegacyRows(ctx) })
		blob, err = s.getBlob(ctx, orderID)
	}
	if err == sql.ErrNoRows {
		return OrderConfig{}, &errortypes.NotFound{
			ID:       strconv.FormatInt(orderID, 10),
			DataType: "Order config",
		}
	}
	if err != nil {
		glog.Errorf("Error reading order config %d: %v", orderID, err)
		return OrderConfig{}, err
	}

	var cfg OrderConfig
	if err := json.Unmarshal(blob, &cfg); err != nil {
		return OrderConfig{}, err
	}
	cfg.OrderID = orderID
	return cfg, nil
}

func (s *PostgresStore) MergeUpdate(ctx context.Context, orderID int64, patch Patch) (OrderConfig, error) {
	blob, err := s.getBlob(ctx, orderID)
	if err != nil && err != sql.ErrNoRows {
		return OrderConfig{}, err
	}

	merged, cfg, err := mergeBlob(orderID, blob, patch)
	if err != nil {
		return OrderConfig{}, err
	}

	if _, err := s.db.ExecContext(ctx, upsertConfigQuery, orderID, merged); err != nil {
		glog.Errorf("Error writing order config %d: %v", orderID, err)
		return OrderConfig{}, err
	}
	return cfg, nil
}

func (s *PostgresStore) getBlob(ctx context.Context, orderID int64) ([]byte, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, selectConfigQuery, orderID).Scan(&blob)
	return blob, err
}

// migrateLegacyRows re-keys every un-keyed row it can attribute to an order
// id. Failures are logged and skipped so one bad legacy blob cannot wedge
// every lookup.
func (s *PostgresStore) migrateLegacyRows(ctx context.Context) {
	rows, err := s.db.QueryContext(ctx, selectLegacyQuery)
	if err != nil {
		glog.Errorf("Error scanning legacy order configs: %v", err)
		return
	}
	defer func() {
		if err := rows.Close(); err != nil {
			glog.Errorf("error closing DB connection: %v", err)
		}
	}()

	type legacyRow struct {
		id      int64
		orderID int64
	}
	var migratable []legacyRow

	for rows.Next() {
		var id int64
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			glog.Errorf("Error reading legacy order config row: %v", err)
			return
		}
		orderID, err := jsonparser.GetInt(blob, "order_id")
		if err != nil || orderID == 0 {
			glog.Errorf("Legacy order config row %d has no usable order_id. This will be ignored.", id)
			continue
		}
		migratable = append(migratable, legacyRow{id: id, orderID: orderID})
	}
	if err := rows.Err(); err != nil {
		glog.Errorf("Error scanning legacy order configs: %v", err)
		return
	}

	for _, row := range migratable {
		if _, err := s.db.ExecContext(ctx, rekeyLegacyQuery, row.orderID, row.id); err != nil {
			glog.Errorf("Error re-keying legacy order config row %d: %v", row.id, err)
			continue
		}
		glog.Infof("Re-keyed legacy order config row %d to order %d", row.id, row.orderID)
	}
}

// Package orderstore keeps the local idempotency record for each provisioned
// order: which granularity it was built from, which line items exist, and how
// far creative association has progressed. Repeated provisioning runs read it
// to stay cheap and safe; it is never deleted except on explicit archive.
package orderstore

import (
	"context"
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

// OrderConfig is the per-order record. OrderID doubles as the storage key.
type OrderConfig struct {
	OrderID             int64    `json:"order_id"`
	OrderName           string   `json:"order_name"`
	PriceGranularityKey string   `json:"price_granularity_key"`
	Bidders             []string `json:"bidders,omitempty"`
	RevenueShare        int      `json:"revenue_share"`
	LineItemIDs         []int64  `json:"line_item_ids,omitempty"`
	LicaBatchCount      int      `json:"lica_batch_count"`
	Archived            bool     `json:"archived,omitempty"`
}

// Patch is a partial OrderConfig for merge updates. Nil fields are left
// untouched in the stored record.
type Patch struct {
	OrderName           *string   `json:"order_name,omitempty"`
	PriceGranularityKey *string   `json:"price_granularity_key,omitempty"`
	Bidders             *[]string `json:"bidders,omitempty"`
	RevenueShare        *int      `json:"revenue_share,omitempty"`
	LineItemIDs         *[]int64  `json:"line_item_ids,omitempty"`
	LicaBatchCount      *int      `json:"lica_batch_count,omitempty"`
	Archived            *bool     `json:"archived,omitempty"`
}

// Store persists OrderConfig records keyed by order id.
//
// Get returns *errortypes.NotFound when no record exists. MergeUpdate applies
// an RFC 7396 merge over the stored record, creating it when absent, and
// returns the refreshed config.
type Store interface {
	Get(ctx context.Context, orderID int64) (OrderConfig, error)
	MergeUpdate(ctx context.Context, orderID int64, patch Patch) (OrderConfig, error)
}

// mergeBlob applies a patch to a stored JSON blob. An empty original starts
// from a fresh record holding only the order id.
func mergeBlob(orderID int64, original []byte, patch Patch) ([]byte, OrderConfig, error) {
	if len(original) == 0 {
		original = []byte(fmt.Sprintf(`{"order_id":%d}`, orderID))
	}

	patchJSON, err := json.Marshal(patch)
	if err != nil {
		return nil, OrderConfig{}, fmt.Errorf("marshaling order config patch: %w", err)
	}

	merged, err := jsonpatch.MergePatch(original, patchJSON)
	if err != nil {
		return nil, OrderConfig{}, fmt.Errorf("merging order config for order %d: %w", orderID, err)
	}

	var cfg OrderConfig
	if err := json.Unmarshal(merged, &cfg); err != nil {
		return nil, OrderConfig{}, fmt.Errorf("unmarshaling merged order config for order %d: %w", orderID, err)
	}
	cfg.OrderID = orderID

	return merged, cfg, nil
}

// Package provision turns a publisher's price granularity into remote
// ad-manager inventory: targeting keys for every price point, one line item
// per price point, and creative associations so the line items can deliver.
// Every operation is idempotent with respect to remote existence, so a failed
// run can simply be repeated.
package provision

import (
	"context"
	"fmt"

	"github.com/golang/glog"

	"github.com/Automattic/newspack-ads-sub000/config"
	"github.com/Automattic/newspack-ads-sub000/errortypes"
	"github.com/Automattic/newspack-ads-sub000/gam"
	"github.com/Automattic/newspack-ads-sub000/granularity"
	"github.com/Automattic/newspack-ads-sub000/orderstore"
)

// Engine runs provisioning operations against one ad-manager network. It is
// constructed once per run and holds no hidden cross-call state.
//
// The engine provides no concurrent-run protection: two simultaneous runs for
// the same order could both miss an existing line item at a price and create
// duplicates. Callers must serialize runs per order.
type Engine struct {
	client       gam.Client
	store        orderstore.Store
	cfg          config.Provisioning
	advertiserID int64
}

// NewEngine wires the engine's collaborators.
func NewEngine(client gam.Client, store orderstore.Store, cfg config.Provisioning, advertiserID int64) *Engine {
	if client == nil {
		glog.Fatalf("The provisioning engine requires an inventory client. Please report this as a bug.")
	}
	if store == nil {
		glog.Fatalf("The provisioning engine requires an order config store. Please report this as a bug.")
	}
	return &Engine{
		client:       client,
		store:        store,
		cfg:          cfg,
		advertiserID: advertiserID,
	}
}

// OrderSpec is the caller's request to set up an order.
type OrderSpec struct {
	Name                string   `json:"name"`
	PriceGranularityKey string   `json:"price_granularity_key"`
	Bidders             []string `json:"bidders,omitempty"`
	RevenueShare        *int     `json:"revenue_share,omitempty"`
}

// CreateOrder ensures the remote order exists and seeds its local config
// record. Calling it again with the same name reuses the existing remote
// order instead of creating a duplicate.
func (e *Engine) CreateOrder(ctx context.Context, spec OrderSpec) (orderstore.OrderConfig, error) {
	var none orderstore.OrderConfig

	if spec.Name == "" {
		return none, &errortypes.Validation{Message: "order name is required"}
	}
	g, err := granularity.Get(spec.PriceGranularityKey)
	if err != nil {
		return none, err
	}
	if err := g.Validate(); err != nil {
		return none, err
	}
	share := e.cfg.RevenueShare
	if spec.RevenueShare != nil {
		share = *spec.RevenueShare
	}
	if share < 0 || share > 100 {
		return none, &errortypes.Validation{Message: fmt.Sprintf("revenue share must be 0-100, got %d", share)}
	}

	order, err := e.client.OrderByName(ctx, spec.Name)
	if err != nil {
		return none, err
	}
	if order == nil {
		created, err := e.client.CreateOrder(ctx, spec.Name, e.advertiserID)
		if err != nil {
			return none, err
		}
		order = &created
		glog.Infof("Created order %d (%s)", order.ID, order.Name)
	} else {
		glog.Infof("Reusing existing order %d (%s)", order.ID, order.Name)
	}

	bidders := spec.Bidders
	if bidders == nil {
		bidders = []string{}
	}
	return e.store.MergeUpdate(ctx, order.ID, orderstore.Patch{
		OrderName:           &spec.Name,
		PriceGranularityKey: &spec.PriceGranularityKey,
		Bidders:             &bidders,
		RevenueShare:        &share,
	})
}

// ArchiveOrder archives the remote order and flags the local record. The
// record itself is kept; archive is the only path that retires it.
func (e *Engine) ArchiveOrder(ctx context.Context, orderID int64) (orderstore.OrderConfig, error) {
	if _, err := e.store.Get(ctx, orderID); err != nil {
		return orderstore.OrderConfig{}, err
	}
	if err := e.client.ArchiveOrder(ctx, orderID); err != nil {
		return orderstore.OrderConfig{}, err
	}
	archived := true
	return e.store.MergeUpdate(ctx, orderID, orderstore.Patch{Archived: &archived})
}

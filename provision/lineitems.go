package provision

import (
	"context"
	"fmt"

	"github.com/golang/glog"

	"github.com/Automattic/newspack-ads-sub000/errortypes"
	"github.com/Automattic/newspack-ads-sub000/gam"
	"github.com/Automattic/newspack-ads-sub000/granularity"
	"github.com/Automattic/newspack-ads-sub000/orderstore"
)

// lineItemName labels the line item serving one price point.
func lineItemName(orderName string, costMicros int64) string {
	return fmt.Sprintf("%s - %s", orderName, granularity.FormatMicros(costMicros))
}

// valueCostMicros discounts a bid price by a revenue share percentage,
// rounding half up. Delivery bids at the full price; reporting accrues the
// discounted value.
func valueCostMicros(costMicros int64, share int) int64 {
	return (costMicros*int64(100-share) + 50) / 100
}

// CreateOrUpdateLineItems provisions one line item per price point of the
// order's granularity. With validate set it first fetches the order's remote
// line items and matches them by exact cost so re-runs update in place; price
// points whose line item already exists produce zero new creates.
//
// The operation only ever creates or updates. Line items orphaned by a
// shrunken ladder are left in place on purpose.
func (e *Engine) CreateOrUpdateLineItems(ctx context.Context, orderID int64, validate bool) (orderstore.OrderConfig, error) {
	var none orderstore.OrderConfig

	cfg, err := e.store.Get(ctx, orderID)
	if err != nil {
		return none, err
	}
	if cfg.Archived {
		return none, &errortypes.Validation{Message: fmt.Sprintf("order %d is archived", orderID)}
	}

	g, err := granularity.Get(cfg.PriceGranularityKey)
	if err != nil {
		return none, err
	}
	ladder, err := granularity.Ladder(g)
	if err != nil {
		return none, err
	}

	// Cost micro-amount to line item id. The system invariant is at most one
	// line item per distinct price within an order.
	existing := map[int64]int64{}
	if validate {
		items, err := e.client.LineItemsByOrder(ctx, orderID)
		if err != nil {
			return none, err
		}
		for _, item := range items {
			existing[item.CostMicros] = item.ID
		}
	}

	prices := make([]string, len(ladder))
	for i, micros := range ladder {
		prices[i] = granularity.FormatMicros(micros)
	}
	priceKey, err := e.SyncTargetingKey(ctx, e.cfg.PriceKeyName, DefaultKeyType, prices)
	if err != nil {
		return none, err
	}
	priceValueIDs := priceKey.ValueIDs()

	var bidderValueIDs []int64
	var bidderKeyID int64
	if len(cfg.Bidders) > 0 {
		bidderKey, err := e.SyncTargetingKey(ctx, e.cfg.BidderKeyName, DefaultKeyType, cfg.Bidders)
		if err != nil {
			return none, err
		}
		bidderKeyID = bidderKey.KeyID
		merged := bidderKey.ValueIDs()
		for _, bidder := range dedupe(cfg.Bidders) {
			bidderValueIDs = append(bidderValueIDs, merged[bidder])
		}
	}

	specs := make([]gam.LineItemSpec, len(ladder))
	for i, micros := range ladder {
		targeting := map[int64][]int64{
			priceKey.KeyID: {priceValueIDs[prices[i]]},
		}
		if len(bidderValueIDs) > 0 {
			targeting[bidderKeyID] = bidderValueIDs
		}
		spec := gam.LineItemSpec{
			OrderID:         orderID,
			Name:            lineItemName(cfg.OrderName, micros),
			CostMicros:      micros,
			ValueCostMicros: valueCostMicros(micros, cfg.RevenueShare),
			Targeting:       targeting,
		}
		if id, ok := existing[micros]; ok {
			spec.ID = &id
		}
		specs[i] = spec
	}

	items, err := e.client.CreateOrUpdateLineItems(ctx, specs)
	if err != nil {
		return none, err
	}
	glog.Infof("Provisioned %d line items for order %d (%d pre-existing)", len(items), orderID, len(existing))

	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return e.store.MergeUpdate(ctx, orderID, orderstore.Patch{LineItemIDs: &ids})
}

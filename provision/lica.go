package provision

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang/glog"

	"github.com/Automattic/newspack-ads-sub000/errortypes"
	"github.com/Automattic/newspack-ads-sub000/gam"
	"github.com/Automattic/newspack-ads-sub000/orderstore"
)

// creativeSnippet is the universal creative tag served by every pool
// creative. The ad server expands the pattern macros at render time.
const creativeSnippet = `<script src="https://cdn.jsdelivr.net/npm/prebid-universal-creative@latest/dist/creative.js"></script>
<script>
  var ucTagData = {};
  ucTagData.adServerDomain = "";
  ucTagData.pubUrl = "%%PATTERN:url%%";
  ucTagData.targetingMap = %%PATTERN:TARGETINGMAP%%;
  try {
    ucTag.renderAd(document, ucTagData);
  } catch (e) {
    console.log(e);
  }
</script>`

// AssociateCreatives links every line item of the order with every creative
// in the pool. A positive batch number submits only that 1-based slice of the
// pair set; zero submits everything at once.
//
// Duplicate-association conflicts are handled locally: the remote reports
// which pair indices already exist, exactly those are pruned, and the rest is
// resubmitted. Each retry strictly shrinks the batch, so the loop terminates
// within len(batch) iterations. A batch that empties out is a no-op success.
func (e *Engine) AssociateCreatives(ctx context.Context, orderID int64, batch int) (orderstore.OrderConfig, error) {
	var none orderstore.OrderConfig

	if batch < 0 {
		return none, &errortypes.Validation{Message: fmt.Sprintf("batch number must not be negative, got %d", batch)}
	}

	cfg, err := e.store.Get(ctx, orderID)
	if err != nil {
		return none, err
	}
	if cfg.Archived {
		return none, &errortypes.Validation{Message: fmt.Sprintf("order %d is archived", orderID)}
	}
	if len(cfg.LineItemIDs) == 0 {
		return none, &errortypes.Validation{Message: fmt.Sprintf("order %d has no provisioned line items to associate", orderID)}
	}

	creatives, err := e.ensureCreativePool(ctx)
	if err != nil {
		return none, err
	}

	pairs := make([]gam.LicaPair, 0, len(cfg.LineItemIDs)*len(creatives))
	for _, lineItemID := range cfg.LineItemIDs {
		for _, creative := range creatives {
			pairs = append(pairs, gam.LicaPair{LineItemID: lineItemID, CreativeID: creative.ID})
		}
	}

	totalBatches := (len(pairs) + e.cfg.LicaBatchSize - 1) / e.cfg.LicaBatchSize
	if batch > 0 {
		lo := (batch - 1) * e.cfg.LicaBatchSize
		hi := batch * e.cfg.LicaBatchSize
		if lo >= len(pairs) {
			pairs = nil
		} else {
			if hi > len(pairs) {
				hi = len(pairs)
			}
			pairs = pairs[lo:hi]
		}
	}

	if err := e.submitAssociations(ctx, pairs); err != nil {
		return none, err
	}

	progress := totalBatches
	if batch > 0 {
		progress = batch
	}
	return e.store.MergeUpdate(ctx, orderID, orderstore.Patch{LicaBatchCount: &progress})
}

// submitAssociations runs the index-pruning retry protocol. The in-flight
// batch is never mutated; each conflict produces a freshly pruned slice.
func (e *Engine) submitAssociations(ctx context.Context, pairs []gam.LicaPair) error {
	// Each iteration after the first removed at least one pair, so more than
	// len(pairs)+1 attempts means the remote is misreporting conflicts.
	maxAttempts := len(pairs) + 1

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if len(pairs) == 0 {
			return nil
		}

		_, err := e.client.AssociateCreatives(ctx, pairs)
		if err == nil {
			glog.Infof("Associated %d line item/creative pairs", len(pairs))
			return nil
		}

		var conflict *errortypes.AssociationConflict
		if !errors.As(err, &conflict) {
			return err
		}
		pruned := pruneIndices(pairs, conflict.OffendingIndices)
		if len(pruned) >= len(pairs) {
			// Conflict without usable indices cannot shrink the batch.
			return err
		}
		glog.Infof("Pruned %d already-existing associations, resubmitting %d", len(pairs)-len(pruned), len(pruned))
		pairs = pruned
	}
	return &errortypes.Remote{Message: "association batch did not converge"}
}

// pruneIndices returns a new slice without the pairs at the given zero-based
// indices. Out-of-range indices are ignored.
func pruneIndices(pairs []gam.LicaPair, indices []int) []gam.LicaPair {
	drop := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(pairs) {
			drop[i] = struct{}{}
		}
	}
	out := make([]gam.LicaPair, 0, len(pairs)-len(drop))
	for i, p := range pairs {
		if _, ok := drop[i]; ok {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ensureCreativePool tops the advertiser's creative pool up to the configured
// size with universal-creative placeholders.
func (e *Engine) ensureCreativePool(ctx context.Context) ([]gam.Creative, error) {
	creatives, err := e.client.Creatives(ctx, e.advertiserID)
	if err != nil {
		return nil, err
	}
	if len(creatives) >= e.cfg.CreativePoolSize {
		return creatives, nil
	}

	specs := make([]gam.CreativeSpec, 0, e.cfg.CreativePoolSize-len(creatives))
	for i := len(creatives); i < e.cfg.CreativePoolSize; i++ {
		specs = append(specs, gam.CreativeSpec{
			Name:         fmt.Sprintf("Newspack header bidding %d", i+1),
			AdvertiserID: e.advertiserID,
			Snippet:      creativeSnippet,
			Width:        1,
			Height:       1,
		})
	}
	created, err := e.client.CreateCreatives(ctx, specs)
	if err != nil {
		return nil, err
	}
	glog.Infof("Created %d pool creatives", len(created))
	return append(creatives, created...), nil
}

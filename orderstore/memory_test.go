package orderstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Automattic/newspack-ads-sub000/errortypes"
)

func strPtr(s string) *string    { return &s }
func intPtr(i int) *int          { return &i }
func idsPtr(ids []int64) *[]int64 { return &ids }

func TestMemoryStoreGetMissing(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Get(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, errortypes.NotFoundErrorCode, errortypes.ReadCode(err))
}

func TestMemoryStoreMergeUpdateCreates(t *testing.T) {
	store := NewMemoryStore()

	cfg, err := store.MergeUpdate(context.Background(), 42, Patch{
		OrderName:           strPtr("Newspack Ads"),
		PriceGranularityKey: strPtr("newspack"),
		RevenueShare:        intPtr(10),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.OrderID)
	assert.Equal(t, "Newspack Ads", cfg.OrderName)
	assert.Equal(t, "newspack", cfg.PriceGranularityKey)
	assert.Equal(t, 10, cfg.RevenueShare)
}

func TestMemoryStoreMergeUpdateLeavesOtherFieldsIntact(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.MergeUpdate(ctx, 42, Patch{
		OrderName:           strPtr("Newspack Ads"),
		PriceGranularityKey: strPtr("newspack"),
		Bidders:             &[]string{"adsense", "criteo"},
	})
	require.NoError(t, err)

	cfg, err := store.MergeUpdate(ctx, 42, Patch{
		LineItemIDs:    idsPtr([]int64{100, 101}),
		LicaBatchCount: intPtr(2),
	})
	require.NoError(t, err)

	assert.Equal(t, "Newspack Ads", cfg.OrderName)
	assert.Equal(t, "newspack", cfg.PriceGranularityKey)
	assert.Equal(t, []string{"adsense", "criteo"}, cfg.Bidders)
	assert.Equal(t, []int64{100, 101}, cfg.LineItemIDs)
	assert.Equal(t, 2, cfg.LicaBatchCount)

	got, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestMemoryStoreMergeUpdateReplacesSlices(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.MergeUpdate(ctx, 42, Patch{LineItemIDs: idsPtr([]int64{1, 2, 3})})
	require.NoError(t, err)

	cfg, err := store.MergeUpdate(ctx, 42, Patch{LineItemIDs: idsPtr([]int64{4})})
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, cfg.LineItemIDs)
}

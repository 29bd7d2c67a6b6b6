package provision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Automattic/newspack-ads-sub000/config"
	"github.com/Automattic/newspack-ads-sub000/errortypes"
	"github.com/Automattic/newspack-ads-sub000/orderstore"
)

const testAdvertiserID int64 = 777

func testProvisioningConfig() config.Provisioning {
	return config.Provisioning{
		PriceKeyName:     "hb_pb",
		BidderKeyName:    "hb_bidder",
		CreativePoolSize: 1,
		LicaBatchSize:    500,
	}
}

func newTestEngine(t *testing.T, cfg config.Provisioning) (*Engine, *fakeClient, *orderstore.MemoryStore) {
	t.Helper()
	client := newFakeClient()
	store := orderstore.NewMemoryStore()
	return NewEngine(client, store, cfg, testAdvertiserID), client, store
}

func intp(i int) *int { return &i }

func TestCreateOrderSeedsConfig(t *testing.T) {
	engine, client, store := newTestEngine(t, testProvisioningConfig())

	cfg, err := engine.CreateOrder(context.Background(), OrderSpec{
		Name:                "Newspack Ads",
		PriceGranularityKey: "low",
		Bidders:             []string{"adsense"},
		RevenueShare:        intp(10),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, client.createdOrders)
	assert.Equal(t, "Newspack Ads", cfg.OrderName)
	assert.Equal(t, "low", cfg.PriceGranularityKey)
	assert.Equal(t, []string{"adsense"}, cfg.Bidders)
	assert.Equal(t, 10, cfg.RevenueShare)

	stored, err := store.Get(context.Background(), cfg.OrderID)
	require.NoError(t, err)
	assert.Equal(t, cfg, stored)
}

func TestCreateOrderReusesExistingRemoteOrder(t *testing.T) {
	engine, client, _ := newTestEngine(t, testProvisioningConfig())
	ctx := context.Background()

	first, err := engine.CreateOrder(ctx, OrderSpec{Name: "Newspack Ads", PriceGranularityKey: "low"})
	require.NoError(t, err)

	second, err := engine.CreateOrder(ctx, OrderSpec{Name: "Newspack Ads", PriceGranularityKey: "med"})
	require.NoError(t, err)

	assert.Equal(t, 1, client.createdOrders)
	assert.Equal(t, first.OrderID, second.OrderID)
	assert.Equal(t, "med", second.PriceGranularityKey)
}

func TestCreateOrderValidation(t *testing.T) {
	engine, client, _ := newTestEngine(t, testProvisioningConfig())
	ctx := context.Background()

	_, err := engine.CreateOrder(ctx, OrderSpec{PriceGranularityKey: "low"})
	assert.Equal(t, errortypes.ValidationErrorCode, errortypes.ReadCode(err))

	_, err = engine.CreateOrder(ctx, OrderSpec{Name: "x", PriceGranularityKey: "nope"})
	assert.Equal(t, errortypes.NotFoundErrorCode, errortypes.ReadCode(err))

	_, err = engine.CreateOrder(ctx, OrderSpec{Name: "x", PriceGranularityKey: "low", RevenueShare: intp(101)})
	assert.Equal(t, errortypes.ValidationErrorCode, errortypes.ReadCode(err))

	// No remote calls were made for invalid requests.
	assert.Equal(t, 0, client.createdOrders)
}

func TestCreateOrderDefaultsRevenueShareFromConfig(t *testing.T) {
	cfg := testProvisioningConfig()
	cfg.RevenueShare = 25
	engine, _, _ := newTestEngine(t, cfg)

	orderCfg, err := engine.CreateOrder(context.Background(), OrderSpec{Name: "x", PriceGranularityKey: "low"})
	require.NoError(t, err)
	assert.Equal(t, 25, orderCfg.RevenueShare)
}

func TestArchiveOrder(t *testing.T) {
	engine, client, _ := newTestEngine(t, testProvisioningConfig())
	ctx := context.Background()

	cfg, err := engine.CreateOrder(ctx, OrderSpec{Name: "x", PriceGranularityKey: "low"})
	require.NoError(t, err)

	archived, err := engine.ArchiveOrder(ctx, cfg.OrderID)
	require.NoError(t, err)
	assert.True(t, archived.Archived)
	assert.Equal(t, "ARCHIVED", client.orders[cfg.OrderID].Status)

	// The record survives archiving.
	stored, err := engine.store.Get(ctx, cfg.OrderID)
	require.NoError(t, err)
	assert.True(t, stored.Archived)
}

func TestArchiveOrderUnknown(t *testing.T) {
	engine, _, _ := newTestEngine(t, testProvisioningConfig())
	_, err := engine.ArchiveOrder(context.Background(), 9999)
	assert.Equal(t, errortypes.NotFoundErrorCode, errortypes.ReadCode(err))
}

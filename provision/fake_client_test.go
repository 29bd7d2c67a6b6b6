package provision

import (
	"context"
	"fmt"

	"github.com/Automattic/newspack-ads-sub000/errortypes"
	"github.com/Automattic/newspack-ads-sub000/gam"
)

// fakeClient is an in-memory gam.Client with the remote system's observable
// behavior: name-keyed orders and targeting keys, id-keyed line items, and
// duplicate association detection that reports offending indices the way the
// bridge does.
type fakeClient struct {
	nextID int64

	orders    map[int64]gam.Order
	lineItems map[int64]gam.LineItem
	creatives []gam.Creative
	keys      map[string]gam.TargetingKey
	values    map[int64]map[string]gam.TargetingValue
	licas     map[[2]int64]bool

	createdOrders    int
	createdLineItems int
	updatedLineItems int
	createdKeys      int
	createdValues    int
	associateCalls   int

	// failNext maps a method name to an error returned on its next call.
	failNext map[string]error
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		orders:    map[int64]gam.Order{},
		lineItems: map[int64]gam.LineItem{},
		keys:      map[string]gam.TargetingKey{},
		values:    map[int64]map[string]gam.TargetingValue{},
		licas:     map[[2]int64]bool{},
		failNext:  map[string]error{},
	}
}

func (f *fakeClient) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeClient) fail(method string) error {
	if err, ok := f.failNext[method]; ok {
		delete(f.failNext, method)
		return err
	}
	return nil
}

func (f *fakeClient) OrderByName(ctx context.Context, name string) (*gam.Order, error) {
	if err := f.fail("OrderByName"); err != nil {
		return nil, err
	}
	for _, o := range f.orders {
		if o.Name == name {
			order := o
			return &order, nil
		}
	}
	return nil, nil
}

func (f *fakeClient) CreateOrder(ctx context.Context, name string, advertiserID int64) (gam.Order, error) {
	if err := f.fail("CreateOrder"); err != nil {
		return gam.Order{}, err
	}
	order := gam.Order{ID: f.id(), Name: name, AdvertiserID: advertiserID, Status: "DRAFT"}
	f.orders[order.ID] = order
	f.createdOrders++
	return order, nil
}

func (f *fakeClient) ArchiveOrder(ctx context.Context, id int64) error {
	if err := f.fail("ArchiveOrder"); err != nil {
		return err
	}
	order, ok := f.orders[id]
	if !ok {
		return &errortypes.NotFound{ID: fmt.Sprint(id), DataType: "Order"}
	}
	order.Status = "ARCHIVED"
	f.orders[id] = order
	return nil
}

func (f *fakeClient) LineItemsByOrder(ctx context.Context, orderID int64) ([]gam.LineItem, error) {
	if err := f.fail("LineItemsByOrder"); err != nil {
		return nil, err
	}
	var items []gam.LineItem
	for _, item := range f.lineItems {
		if item.OrderID == orderID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (f *fakeClient) CreateOrUpdateLineItems(ctx context.Context, specs []gam.LineItemSpec) ([]gam.LineItem, error) {
	if err := f.fail("CreateOrUpdateLineItems"); err != nil {
		return nil, err
	}
	items := make([]gam.LineItem, len(specs))
	for i, spec := range specs {
		item := gam.LineItem{
			OrderID:         spec.OrderID,
			Name:            spec.Name,
			CostMicros:      spec.CostMicros,
			ValueCostMicros: spec.ValueCostMicros,
			Targeting:       spec.Targeting,
			Sizes:           spec.Sizes,
			Status:          "READY",
		}
		if spec.ID != nil {
			item.ID = *spec.ID
			f.updatedLineItems++
		} else {
			item.ID = f.id()
			f.createdLineItems++
		}
		f.lineItems[item.ID] = item
		items[i] = item
	}
	return items, nil
}

func (f *fakeClient) Creatives(ctx context.Context, advertiserID int64) ([]gam.Creative, error) {
	if err := f.fail("Creatives"); err != nil {
		return nil, err
	}
	return append([]gam.Creative(nil), f.creatives...), nil
}

func (f *fakeClient) CreateCreatives(ctx context.Context, specs []gam.CreativeSpec) ([]gam.Creative, error) {
	if err := f.fail("CreateCreatives"); err != nil {
		return nil, err
	}
	created := make([]gam.Creative, len(specs))
	for i, spec := range specs {
		created[i] = gam.Creative{
			ID:           f.id(),
			Name:         spec.Name,
			AdvertiserID: spec.AdvertiserID,
			Snippet:      spec.Snippet,
			Width:        spec.Width,
			Height:       spec.Height,
		}
	}
	f.creatives = append(f.creatives, created...)
	return created, nil
}

func (f *fakeClient) TargetingKeyByName(ctx context.Context, name string) (*gam.TargetingKey, error) {
	if err := f.fail("TargetingKeyByName"); err != nil {
		return nil, err
	}
	if key, ok := f.keys[name]; ok {
		return &key, nil
	}
	return nil, nil
}

func (f *fakeClient) CreateTargetingKey(ctx context.Context, name string, keyType string) (gam.TargetingKey, error) {
	if err := f.fail("CreateTargetingKey"); err != nil {
		return gam.TargetingKey{}, err
	}
	if _, ok := f.keys[name]; ok {
		return gam.TargetingKey{}, &errortypes.Remote{RemoteCode: "NOT_UNIQUE", Message: "key exists"}
	}
	key := gam.TargetingKey{ID: f.id(), Name: name, Type: keyType, Status: "ACTIVE"}
	f.keys[name] = key
	f.values[key.ID] = map[string]gam.TargetingValue{}
	f.createdKeys++
	return key, nil
}

func (f *fakeClient) TargetingValues(ctx context.Context, keyID int64, names []string) ([]gam.TargetingValue, error) {
	if err := f.fail("TargetingValues"); err != nil {
		return nil, err
	}
	var out []gam.TargetingValue
	if len(names) == 0 {
		for _, v := range f.values[keyID] {
			out = append(out, v)
		}
		return out, nil
	}
	for _, name := range names {
		if v, ok := f.values[keyID][name]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeClient) CreateTargetingValues(ctx context.Context, keyID int64, names []string) ([]gam.TargetingValue, error) {
	if err := f.fail("CreateTargetingValues"); err != nil {
		return nil, err
	}
	created := make([]gam.TargetingValue, 0, len(names))
	for _, name := range names {
		if _, ok := f.values[keyID][name]; ok {
			return nil, &errortypes.Remote{RemoteCode: "NOT_UNIQUE", Message: "value exists: " + name}
		}
		v := gam.TargetingValue{ID: f.id(), KeyID: keyID, Name: name, Status: "ACTIVE"}
		f.values[keyID][name] = v
		created = append(created, v)
		f.createdValues++
	}
	return created, nil
}

func (f *fakeClient) AssociateCreatives(ctx context.Context, pairs []gam.LicaPair) ([]gam.Lica, error) {
	f.associateCalls++
	if err := f.fail("AssociateCreatives"); err != nil {
		return nil, err
	}

	var offending []int
	for i, p := range pairs {
		if f.licas[[2]int64{p.LineItemID, p.CreativeID}] {
			offending = append(offending, i)
		}
	}
	if len(offending) > 0 {
		return nil, &errortypes.AssociationConflict{
			Message:          "association already exists",
			OffendingIndices: offending,
		}
	}

	licas := make([]gam.Lica, len(pairs))
	for i, p := range pairs {
		f.licas[[2]int64{p.LineItemID, p.CreativeID}] = true
		licas[i] = gam.Lica{LineItemID: p.LineItemID, CreativeID: p.CreativeID, Status: "ACTIVE"}
	}
	return licas, nil
}

package gam

import "context"

// Client is the remote inventory collaborator. Implementations assemble full
// result sets before returning; callers never see pagination mechanics.
//
// List methods report absence with a nil pointer, not an error. Mutating
// methods return typed errors from the errortypes package: a recognized
// duplicate-association response surfaces as *errortypes.AssociationConflict
// with the offending batch indices, connection and auth failures as
// *errortypes.RemoteUnavailable, anything else as *errortypes.Remote.
type Client interface {
	// OrderByName returns the active order with the given name, or nil.
	OrderByName(ctx context.Context, name string) (*Order, error)
	CreateOrder(ctx context.Context, name string, advertiserID int64) (Order, error)
	ArchiveOrder(ctx context.Context, id int64) error

	// LineItemsByOrder returns every line item under the order.
	LineItemsByOrder(ctx context.Context, orderID int64) ([]LineItem, error)

	// CreateOrUpdateLineItems submits one batched call that internally
	// partitions specs into creates (nil ID) and updates (populated ID) and
	// returns the merged result set.
	CreateOrUpdateLineItems(ctx context.Context, specs []LineItemSpec) ([]LineItem, error)

	// Creatives returns the creative pool for the advertiser.
	Creatives(ctx context.Context, advertiserID int64) ([]Creative, error)
	CreateCreatives(ctx context.Context, specs []CreativeSpec) ([]Creative, error)

	// TargetingKeyByName returns the active key with the given name, or nil.
	TargetingKeyByName(ctx context.Context, name string) (*TargetingKey, error)
	CreateTargetingKey(ctx context.Context, name string, keyType string) (TargetingKey, error)

	// TargetingValues returns the active values under the key whose names are
	// in the given set. An empty names slice returns every value.
	TargetingValues(ctx context.Context, keyID int64, names []string) ([]TargetingValue, error)
	CreateTargetingValues(ctx context.Context, keyID int64, names []string) ([]TargetingValue, error)

	// AssociateCreatives submits one batch of line-item-creative pairs.
	AssociateCreatives(ctx context.Context, pairs []LicaPair) ([]Lica, error)
}

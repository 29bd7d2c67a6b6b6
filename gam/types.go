// Package gam talks to the remote ad-manager inventory system: orders, line
// items, creatives, custom targeting keys, and line-item-creative
// associations. The provisioning engine depends only on the Client interface;
// HTTPClient is the production implementation against the inventory bridge.
package gam

import "github.com/Automattic/newspack-ads-sub000/sizemap"

// Order is a remote order grouping the line items provisioned for one
// publisher configuration.
type Order struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	AdvertiserID int64  `json:"advertiserId"`
	Status       string `json:"status"`
}

// LineItem is a priced, targetable slice of ad delivery.
type LineItem struct {
	ID              int64             `json:"id"`
	OrderID         int64             `json:"orderId"`
	Name            string            `json:"name"`
	CostMicros      int64             `json:"costMicros"`
	ValueCostMicros int64             `json:"valueCostMicros"`
	Targeting       map[int64][]int64 `json:"targeting,omitempty"`
	Sizes           []sizemap.Size    `json:"sizes,omitempty"`
	Status          string            `json:"status"`
}

// LineItemSpec describes a line item to create or update in a batched call.
// A nil ID means create; a populated ID means update in place.
type LineItemSpec struct {
	ID              *int64            `json:"id,omitempty"`
	OrderID         int64             `json:"orderId"`
	Name            string            `json:"name"`
	CostMicros      int64             `json:"costMicros"`
	ValueCostMicros int64             `json:"valueCostMicros"`
	Targeting       map[int64][]int64 `json:"targeting,omitempty"`
	Sizes           []sizemap.Size    `json:"sizes,omitempty"`
}

// Creative is a placeholder creative from the fixed pool every line item is
// associated with.
type Creative struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	AdvertiserID int64  `json:"advertiserId"`
	Snippet      string `json:"snippet,omitempty"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}

// CreativeSpec describes a creative to add to the pool.
type CreativeSpec struct {
	Name         string `json:"name"`
	AdvertiserID int64  `json:"advertiserId"`
	Snippet      string `json:"snippet,omitempty"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}

// TargetingKey is a remote custom targeting key.
type TargetingKey struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

// TargetingValue is a value under a custom targeting key.
type TargetingValue struct {
	ID     int64  `json:"id"`
	KeyID  int64  `json:"keyId"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// LicaPair links a creative to a line item for delivery.
type LicaPair struct {
	LineItemID int64          `json:"lineItemId"`
	CreativeID int64          `json:"creativeId"`
	Sizes      []sizemap.Size `json:"sizes,omitempty"`
}

// Lica is an established line-item-creative association.
type Lica struct {
	LineItemID int64  `json:"lineItemId"`
	CreativeID int64  `json:"creativeId"`
	Status     string `json:"status"`
}

package provision

import (
	"context"

	"github.com/golang/glog"

	"github.com/Automattic/newspack-ads-sub000/errortypes"
)

// DefaultKeyType is the targeting key type used when the caller does not
// specify one. Freeform keys accept values created on the fly, which is what
// price points need.
const DefaultKeyType = "freeform"

// TargetingKeyResult reports the outcome of one key sync: the key id plus the
// values that already existed and the values this run created. It is
// recomputed per provisioning run, never persisted.
type TargetingKeyResult struct {
	KeyID   int64
	Found   map[string]int64
	Created map[string]int64
}

// ValueIDs merges found and created values into one name-to-id map.
func (r TargetingKeyResult) ValueIDs() map[string]int64 {
	merged := make(map[string]int64, len(r.Found)+len(r.Created))
	for name, id := range r.Found {
		merged[name] = id
	}
	for name, id := range r.Created {
		merged[name] = id
	}
	return merged
}

// SyncTargetingKey ensures the named key exists remotely with every requested
// value under it, creating only what is missing. It never duplicates a key or
// a value for the same name and is safe to call repeatedly. Key creation and
// value creation are independent steps: a failure creating values still
// happened after the key exists, and the next run picks up from there.
func (e *Engine) SyncTargetingKey(ctx context.Context, name, keyType string, values []string) (TargetingKeyResult, error) {
	var none TargetingKeyResult

	if name == "" {
		return none, &errortypes.Validation{Message: "targeting key name is required"}
	}
	if keyType == "" {
		keyType = DefaultKeyType
	}

	key, err := e.client.TargetingKeyByName(ctx, name)
	if err != nil {
		return none, err
	}
	if key == nil {
		created, err := e.client.CreateTargetingKey(ctx, name, keyType)
		if err != nil {
			return none, err
		}
		key = &created
		glog.Infof("Created targeting key %q (%d)", name, key.ID)
	}

	result := TargetingKeyResult{
		KeyID:   key.ID,
		Found:   map[string]int64{},
		Created: map[string]int64{},
	}
	if len(values) == 0 {
		return result, nil
	}

	wanted := dedupe(values)
	existing, err := e.client.TargetingValues(ctx, key.ID, wanted)
	if err != nil {
		return none, err
	}
	for _, v := range existing {
		result.Found[v.Name] = v.ID
	}

	var missing []string
	for _, name := range wanted {
		if _, ok := result.Found[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		created, err := e.client.CreateTargetingValues(ctx, key.ID, missing)
		if err != nil {
			return none, err
		}
		for _, v := range created {
			result.Created[v.Name] = v.ID
		}
		glog.Infof("Created %d values under targeting key %q", len(created), name)
	}

	return result, nil
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

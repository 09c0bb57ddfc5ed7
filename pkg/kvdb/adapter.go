// Package kvdb wraps CometBFT's dbm.DB interface to implement bridge.KV,
// the bridge registry's persistence capability.
package kvdb

import (
	dbm "github.com/cometbft/cometbft-db"
)

// KVAdapter wraps a CometBFT dbm.DB and exposes the bridge.KV interface.
type KVAdapter struct {
	db dbm.DB
}

// NewKVAdapter creates a new KVAdapter for the given underlying DB.
func NewKVAdapter(db dbm.DB) *KVAdapter {
	return &KVAdapter{db: db}
}

// Get implements bridge.KV.Get.
func (a *KVAdapter) Get(key []byte) ([]byte, error) {
	if a.db == nil {
		return nil, nil
	}

	if v, err := a.db.Get(key); err != nil {
		return nil, err
	} else {
		// v may be nil if key not found – that's fine, the registry treats nil as "not present".
		return v, nil
	}
}

// Set implements bridge.KV.Set.
func (a *KVAdapter) Set(key, value []byte) error {
	if a.db == nil {
		return nil
	}

	// Use SetSync for durable writes at commit time
	if err := a.db.SetSync(key, value); err != nil {
		return err
	}
	return nil
}
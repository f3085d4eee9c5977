package sqldb

import (
	"fmt"
	"sync"
)

// ClientFactory is a callback that constructs a Client from Conf.
// It is registered with RegisterFactory and called by sqldb.New.
type ClientFactory func(conf *Conf) (Client, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]ClientFactory{}
)

func RegisterFactory(dbType string, factory ClientFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[dbType] = factory
}

// New builds an uninitialized client for conf.Type. Call Init before use.
func New(conf *Conf) (Client, error) {
	registryMu.RLock()
	factory, ok := registry[conf.Type]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported sql database type: %q", conf.Type)
	}
	return factory(conf)
}

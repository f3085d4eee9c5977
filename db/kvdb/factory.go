package kvdb

import (
	"fmt"
	"sync"

	"github.com/zeptools/fichas/sec"
)

// ClientFactory constructs an uninitialized Client from Conf
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

// New builds the client for conf.Type, wrapped in Sealed when an encryption key is set.
// The returned client is not initialized yet.
func New(conf *Conf) (Client, error) {
	registryMu.RLock()
	factory, ok := registry[conf.Type]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported key-value database type: %q", conf.Type)
	}
	c, err := factory(conf)
	if err != nil {
		return nil, err
	}
	if conf.EncryptionKey == "" {
		return c, nil
	}
	sealer, err := sec.NewSealerBase64(conf.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("kvdb encryption key: %w", err)
	}
	return NewSealed(c, sealer), nil
}

package kvdb

import (
	"context"
	"fmt"

	"github.com/zeptools/fichas/sec"
)

// Sealed encrypts values on the way in and decrypts them on the way out.
// The slot key is bound as additional data so a value cannot be moved between slots.
type Sealed struct {
	Client
	sealer *sec.Sealer
}

var _ Client = (*Sealed)(nil)

func NewSealed(inner Client, sealer *sec.Sealer) *Sealed {
	return &Sealed{Client: inner, sealer: sealer}
}

func (s *Sealed) Get(ctx context.Context, key string) (string, bool, error) {
	val, found, err := s.Client.Get(ctx, key)
	if err != nil || !found {
		return "", found, err
	}
	plain, err := s.sealer.Open(val, []byte(key))
	if err != nil {
		return "", false, fmt.Errorf("kvdb: open sealed slot %q: %w", key, err)
	}
	return string(plain), true, nil
}

func (s *Sealed) Set(ctx context.Context, key string, value string) error {
	sealed, err := s.sealer.Seal([]byte(value), []byte(key))
	if err != nil {
		return fmt.Errorf("kvdb: seal slot %q: %w", key, err)
	}
	return s.Client.Set(ctx, key, sealed)
}

package kvstore

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"
)

// ValkeyStore keeps values in Valkey (or any Redis-compatible server).
type ValkeyStore struct {
	client valkey.Client
}

// NewValkeyStore connects to the Valkey server at addr.
func NewValkeyStore(addr string) (*ValkeyStore, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("valkey connect: %w", err)
	}

	return &ValkeyStore{client: client}, nil
}

func (v *ValkeyStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := v.client.Do(ctx, v.client.B().Get().Key(key).Build()).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("valkey get: %w", err)
	}

	return value, nil
}

func (v *ValkeyStore) Set(ctx context.Context, key string, value []byte) error {
	cmd := v.client.B().Set().Key(key).Value(valkey.BinaryString(value)).Build()
	if err := v.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("valkey set: %w", err)
	}

	return nil
}

func (v *ValkeyStore) Ping(ctx context.Context) error {
	return v.client.Do(ctx, v.client.B().Ping().Build()).Error()
}

func (v *ValkeyStore) Close() error {
	v.client.Close()
	return nil
}

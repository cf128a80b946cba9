package secretkv

import (
	"context"
	"errors"
	"time"
)

// Default is set by the composition root when a remote provider is
// configured. Package-level Get fails until then.
var Default Provider

type Provider interface {
	// Get fetches one secret version. Version 0 means latest.
	Get(ctx context.Context, key string, version int) (Payload, error)
	List(ctx context.Context, key string) ([]Payload, error)
}

type Payload struct {
	Key       string
	Version   int
	CreatedAt time.Time
	Payload   []byte
}

func Get(ctx context.Context, key string, version int) (Payload, error) {
	if Default == nil {
		return Payload{}, errors.New("no secret provider configured")
	}
	return Default.Get(ctx, key, version)
}

func List(ctx context.Context, key string) ([]Payload, error) {
	if Default == nil {
		return nil, errors.New("no secret provider configured")
	}
	return Default.List(ctx, key)
}

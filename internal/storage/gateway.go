// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jeranaias/chatnotes/internal/config"
	"github.com/jeranaias/chatnotes/internal/model"
)

// =============================================================================
// GATEWAY
// =============================================================================

// Gateway translates between the in-memory collection and the KV store.
// It holds no copy of the collection and never returns an error: failures are
// logged and, for writes, reported to the optional failure hook.
type Gateway struct {
	kv        KV
	key       string
	timeout   time.Duration
	log       zerolog.Logger
	onFailure func(op string, err error)
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithKey sets the storage key (default config.DefaultStorageKey).
func WithKey(key string) GatewayOption {
	return func(g *Gateway) {
		if key != "" {
			g.key = key
		}
	}
}

// WithTimeout bounds each store operation. Zero disables the bound.
func WithTimeout(d time.Duration) GatewayOption {
	return func(g *Gateway) { g.timeout = d }
}

// WithLogger sets the diagnostic logger.
func WithLogger(log zerolog.Logger) GatewayOption {
	return func(g *Gateway) { g.log = log }
}

// WithFailureHook registers fn to be called after a failed save or clear.
func WithFailureHook(fn func(op string, err error)) GatewayOption {
	return func(g *Gateway) { g.onFailure = fn }
}

// NewGateway creates a gateway over kv.
func NewGateway(kv KV, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		kv:      kv,
		key:     config.DefaultStorageKey,
		timeout: 5 * time.Second,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// OnFailure replaces the failure hook.
func (g *Gateway) OnFailure(fn func(op string, err error)) {
	g.onFailure = fn
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Load returns the stored collection in stored order. Absent, unreadable or
// malformed data yields an empty collection.
func (g *Gateway) Load() []*model.Conversation {
	ctx, cancel := g.context()
	defer cancel()

	data, ok, err := g.kv.Get(ctx, g.key)
	if err != nil {
		g.log.Warn().Err(err).Str("op", "load").Str("key", g.key).Msg("store read failed, starting empty")
		return []*model.Conversation{}
	}
	if !ok {
		g.log.Debug().Str("op", "load").Str("key", g.key).Msg("no stored conversations")
		return []*model.Conversation{}
	}

	convs, err := Decode(data)
	if err != nil {
		g.log.Warn().Err(err).Str("op", "load").Str("key", g.key).Msg("stored conversations are malformed, starting empty")
		return []*model.Conversation{}
	}

	g.log.Debug().Str("op", "load").Int("conversations", len(convs)).Msg("conversations loaded")
	return convs
}

// Save encodes convs and overwrites the stored value.
func (g *Gateway) Save(convs []*model.Conversation) {
	data, err := Encode(convs)
	if err != nil {
		g.fail("save", err)
		return
	}

	ctx, cancel := g.context()
	defer cancel()

	if err := g.kv.Set(ctx, g.key, data); err != nil {
		g.fail("save", err)
		return
	}
	g.log.Debug().Str("op", "save").Int("conversations", len(convs)).Int("bytes", len(data)).Msg("conversations saved")
}

// Clear removes the stored value entirely.
func (g *Gateway) Clear() {
	ctx, cancel := g.context()
	defer cancel()

	if err := g.kv.Delete(ctx, g.key); err != nil {
		g.fail("clear", err)
		return
	}
	g.log.Debug().Str("op", "clear").Str("key", g.key).Msg("stored conversations cleared")
}

// =============================================================================
// HELPERS
// =============================================================================

func (g *Gateway) context() (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), g.timeout)
}

func (g *Gateway) fail(op string, err error) {
	event := g.log.Error().Err(err).Str("op", op).Str("key", g.key)
	if errors.Is(err, ErrQuotaExceeded) {
		event = event.Bool("quota", true)
	}
	event.Msg("store write failed, in-memory state kept")

	if g.onFailure != nil {
		g.onFailure(op, err)
	}
}

//go:generate go run go.uber.org/mock/mockgen -source=resolver.go -destination=../mocks/mock_resolver.go -package=mocks

// Package identity finds the local number that received a message.
// Providers are tried in order and the first non-empty answer wins,
// so the pipeline always gets a usable receiving identity.
package identity

import (
	"context"
	"log/slog"
	"sms-forwarder/contract"
	"sms-forwarder/domain"
	"sms-forwarder/errors"
)

type IResolver interface {
	Resolve(ctx context.Context) string
}

type Resolver struct {
	log       *slog.Logger
	providers []contract.IdentityProvider
	fallback  string
}

func NewResolver(log *slog.Logger, providers ...contract.IdentityProvider) *Resolver {
	return &Resolver{log: log, providers: providers, fallback: domain.DefaultIdentity}
}

// NewDeviceResolver builds the usual chain: primary line, subscriptions, default.
func NewDeviceResolver(log *slog.Logger, line LineNumberFunc, subscriptions SubscriptionsFunc, defaultIdentity string) *Resolver {
	return NewResolver(log,
		NewPrimaryLineProvider(line),
		NewSubscriptionListProvider(subscriptions),
		NewDefaultProvider(defaultIdentity),
	)
}

// Resolve never fails. A provider error or panic only moves the lookup to the next tier.
func (r *Resolver) Resolve(ctx context.Context) string {
	for _, provider := range r.providers {
		identity, err := r.lookup(ctx, provider)
		if err != nil {
			r.log.Debug("Identity provider failed, trying next", "provider", provider.Name(), "error", err)
			continue
		}
		if identity != "" {
			r.log.Debug("Receiving identity resolved", "provider", provider.Name())
			return identity
		}
	}
	r.log.Warn("No identity provider answered, using sentinel", "error", errors.ErrIdentityUnresolved)
	return r.fallback
}

func (r *Resolver) lookup(ctx context.Context, provider contract.IdentityProvider) (identity string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.ErrIdentityUnresolved
		}
	}()
	return provider.LookupIdentity(ctx)
}

package identity

import (
	"context"
	"sms-forwarder/contract"
	"sms-forwarder/domain"
	"strings"

	"github.com/samber/lo"
)

var (
	_ contract.IdentityProvider = PrimaryLineProvider{}
	_ contract.IdentityProvider = SubscriptionListProvider{}
	_ contract.IdentityProvider = DefaultProvider{}
)

// LineNumberFunc asks the telephony layer for the device's own line number.
type LineNumberFunc func(ctx context.Context) (string, error)

// SubscriptionsFunc lists the numbers of every active SIM profile.
type SubscriptionsFunc func(ctx context.Context) ([]string, error)

type PrimaryLineProvider struct {
	lookup LineNumberFunc
}

func NewPrimaryLineProvider(lookup LineNumberFunc) PrimaryLineProvider {
	return PrimaryLineProvider{lookup: lookup}
}

// StaticLine serves a configured line number, empty meaning unknown.
func StaticLine(number string) LineNumberFunc {
	return func(context.Context) (string, error) { return number, nil }
}

func (p PrimaryLineProvider) Name() string { return "primary_line" }

func (p PrimaryLineProvider) LookupIdentity(ctx context.Context) (string, error) {
	if p.lookup == nil {
		return "", nil
	}
	number, err := p.lookup(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(number), nil
}

type SubscriptionListProvider struct {
	list SubscriptionsFunc
}

func NewSubscriptionListProvider(list SubscriptionsFunc) SubscriptionListProvider {
	return SubscriptionListProvider{list: list}
}

// StaticSubscriptions serves a comma separated list of subscription numbers.
func StaticSubscriptions(csv string) SubscriptionsFunc {
	numbers := lo.Map(strings.Split(csv, ","), func(item string, _ int) string {
		return strings.TrimSpace(item)
	})
	return func(context.Context) ([]string, error) { return numbers, nil }
}

func (p SubscriptionListProvider) Name() string { return "subscription_list" }

// LookupIdentity returns the first non-empty number among the active subscriptions.
func (p SubscriptionListProvider) LookupIdentity(ctx context.Context) (string, error) {
	if p.list == nil {
		return "", nil
	}
	numbers, err := p.list(ctx)
	if err != nil {
		return "", err
	}
	number, _ := lo.Find(numbers, func(item string) bool {
		return strings.TrimSpace(item) != ""
	})
	return strings.TrimSpace(number), nil
}

// DefaultProvider always answers, it closes the chain.
type DefaultProvider struct {
	identity string
}

func NewDefaultProvider(identity string) DefaultProvider {
	if identity == "" {
		identity = domain.DefaultIdentity
	}
	return DefaultProvider{identity: identity}
}

func (p DefaultProvider) Name() string { return "default" }

func (p DefaultProvider) LookupIdentity(context.Context) (string, error) {
	return p.identity, nil
}

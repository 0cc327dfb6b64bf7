package entity

import "fmt"

type Role string

const (
	RoleIndividual Role = "individual"
	RoleBusiness   Role = "business"
	RoleCharity    Role = "charity"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleIndividual, RoleBusiness, RoleCharity:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown user type %q", s)
}

type FeedKind string

const (
	FeedTrading FeedKind = "trading"
	FeedBrowse  FeedKind = "browse"
)

type FeedSourceKind string

const (
	// SourceBuyerTrades follows the caller's trading transactions and resolves their products.
	SourceBuyerTrades FeedSourceKind = "buyer_trades"
	// SourceOwnerTrading follows the caller's own products that are in a trade.
	SourceOwnerTrading FeedSourceKind = "owner_trading"
	// SourceProductQuery follows a fixed product filter across all users.
	SourceProductQuery FeedSourceKind = "product_query"
)

type FeedSpec struct {
	Kind   FeedKind       `json:"kind"`
	Source FeedSourceKind `json:"source"`
	Filter ProductFilter  `json:"filter"`
}

type ProfileField string

const (
	ProfileFieldUsername     ProfileField = UserFieldUsername
	ProfileFieldAddress      ProfileField = UserFieldAddress
	ProfileFieldIntroduction ProfileField = UserFieldIntroduction
)

// RoleConfig is everything that differs between the three kinds of user.
type RoleConfig struct {
	Role          Role           `json:"role"`
	HomeScreen    Screen         `json:"home_screen"`
	TradingFeed   FeedSpec       `json:"trading_feed"`
	BrowseFeed    *FeedSpec      `json:"browse_feed,omitempty"`
	ProfileFields []ProfileField `json:"profile_fields"`
	CanList       bool           `json:"can_list"`
}

func (c RoleConfig) Feed(kind FeedKind) (FeedSpec, bool) {
	switch kind {
	case FeedTrading:
		return c.TradingFeed, true
	case FeedBrowse:
		if c.BrowseFeed != nil {
			return *c.BrowseFeed, true
		}
	}
	return FeedSpec{}, false
}

func (c RoleConfig) HasProfileField(field ProfileField) bool {
	for _, f := range c.ProfileFields {
		if f == field {
			return true
		}
	}
	return false
}

var roleConfigs = map[Role]RoleConfig{
	RoleIndividual: {
		Role:        RoleIndividual,
		HomeScreen:  ScreenIndividualHome,
		TradingFeed: FeedSpec{Kind: FeedTrading, Source: SourceBuyerTrades},
		BrowseFeed: &FeedSpec{
			Kind:   FeedBrowse,
			Source: SourceProductQuery,
			Filter: ProductFilter{OwnerType: RoleBusiness},
		},
		ProfileFields: []ProfileField{ProfileFieldUsername},
		CanList:       true,
	},
	RoleBusiness: {
		Role:          RoleBusiness,
		HomeScreen:    ScreenBusinessHome,
		TradingFeed:   FeedSpec{Kind: FeedTrading, Source: SourceOwnerTrading, Filter: ProductFilter{IsTrading: Bool(true)}},
		ProfileFields: []ProfileField{ProfileFieldUsername, ProfileFieldAddress, ProfileFieldIntroduction},
		CanList:       true,
	},
	RoleCharity: {
		Role:        RoleCharity,
		HomeScreen:  ScreenCharityHome,
		TradingFeed: FeedSpec{Kind: FeedTrading, Source: SourceBuyerTrades},
		BrowseFeed: &FeedSpec{
			Kind:   FeedBrowse,
			Source: SourceProductQuery,
			Filter: ProductFilter{IsTrading: Bool(false)},
		},
		ProfileFields: []ProfileField{ProfileFieldUsername, ProfileFieldAddress, ProfileFieldIntroduction},
		CanList:       false,
	},
}

func RoleConfigFor(role Role) (RoleConfig, bool) {
	cfg, ok := roleConfigs[role]
	return cfg, ok
}

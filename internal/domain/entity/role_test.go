package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, s := range []string{"individual", "business", "charity"} {
		r, err := ParseRole(s)
		require.NoError(t, err)
		assert.Equal(t, Role(s), r)
	}

	_, err := ParseRole("admin")
	assert.Error(t, err)
	_, err = ParseRole("")
	assert.Error(t, err)
}

func TestUserProfileRoleDefaultsToIndividual(t *testing.T) {
	assert.Equal(t, RoleIndividual, (&UserProfile{}).Role())
	assert.Equal(t, RoleIndividual, (&UserProfile{UserType: "weird"}).Role())
	assert.Equal(t, RoleCharity, (&UserProfile{UserType: RoleCharity}).Role())
}

func TestRoleConfigs(t *testing.T) {
	individual, ok := RoleConfigFor(RoleIndividual)
	require.True(t, ok)
	assert.True(t, individual.CanList)
	assert.Equal(t, SourceBuyerTrades, individual.TradingFeed.Source)
	browse, ok := individual.Feed(FeedBrowse)
	require.True(t, ok)
	assert.Equal(t, RoleBusiness, browse.Filter.OwnerType)
	assert.False(t, individual.HasProfileField(ProfileFieldAddress))

	business, ok := RoleConfigFor(RoleBusiness)
	require.True(t, ok)
	_, ok = business.Feed(FeedBrowse)
	assert.False(t, ok)
	assert.Equal(t, SourceOwnerTrading, business.TradingFeed.Source)
	assert.True(t, business.HasProfileField(ProfileFieldIntroduction))

	charity, ok := RoleConfigFor(RoleCharity)
	require.True(t, ok)
	assert.False(t, charity.CanList)
	browse, ok = charity.Feed(FeedBrowse)
	require.True(t, ok)
	require.NotNil(t, browse.Filter.IsTrading)
	assert.False(t, *browse.Filter.IsTrading)

	_, ok = RoleConfigFor("admin")
	assert.False(t, ok)
}

func TestProductFilterMatches(t *testing.T) {
	p := &Product{ID: "p1", OwnerID: "u1", OwnerType: RoleBusiness, IsTrading: false}

	assert.True(t, ProductFilter{}.Matches(p))
	assert.True(t, ProductFilter{OwnerType: RoleBusiness}.Matches(p))
	assert.False(t, ProductFilter{OwnerType: RoleCharity}.Matches(p))
	assert.True(t, ProductFilter{IsTrading: Bool(false)}.Matches(p))
	assert.False(t, ProductFilter{IsTrading: Bool(true)}.Matches(p))
	assert.False(t, ProductFilter{OwnerID: "u2"}.Matches(p))
	assert.False(t, ProductFilter{}.Matches(nil))
}

func TestHomeStateScreens(t *testing.T) {
	assert.Equal(t, ScreenBusinessHome, HomeState(RoleBusiness).Screen())
	assert.Equal(t, ScreenCharityHome, HomeState(RoleCharity).Screen())
	assert.Equal(t, ScreenIndividualHome, HomeState(RoleIndividual).Screen())
	assert.Equal(t, ScreenStart, StateRoleResolving.Screen())
}

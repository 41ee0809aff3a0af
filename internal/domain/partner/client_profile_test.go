package partner

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientProfile(t *testing.T) {
	t.Run("creates profile with valid client ID", func(t *testing.T) {
		profile, err := NewClientProfile("alice")
		require.NoError(t, err)

		assert.Equal(t, "alice", profile.ClientID)
		assert.False(t, profile.LastUpdated.IsZero())

		events := profile.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeClientProfileCreated, events[0].EventType())
	})

	t.Run("trims whitespace from client ID", func(t *testing.T) {
		profile, err := NewClientProfile("  bob  ")
		require.NoError(t, err)
		assert.Equal(t, "bob", profile.ClientID)
	})

	t.Run("rejects empty client ID", func(t *testing.T) {
		_, err := NewClientProfile("")
		assert.Error(t, err)
	})

	t.Run("rejects client ID over 100 characters", func(t *testing.T) {
		_, err := NewClientProfile(strings.Repeat("a", 101))
		assert.Error(t, err)
	})
}

func TestClientProfileSetContact(t *testing.T) {
	profile, err := NewClientProfile("alice")
	require.NoError(t, err)

	t.Run("sets valid contact details", func(t *testing.T) {
		before := profile.LastUpdated
		time.Sleep(time.Millisecond)

		err := profile.SetContact("Alice", "Martin", "alice@example.ch", "+41 79 123 45 67")
		require.NoError(t, err)

		assert.Equal(t, "Alice", profile.FirstName)
		assert.Equal(t, "Martin", profile.LastName)
		assert.Equal(t, "alice@example.ch", profile.Email)
		assert.True(t, profile.LastUpdated.After(before))
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		err := profile.SetContact("Alice", "Martin", "not-an-email", "")
		assert.Error(t, err)
	})

	t.Run("rejects phone with letters", func(t *testing.T) {
		err := profile.SetContact("Alice", "Martin", "", "call-me")
		assert.Error(t, err)
	})

	t.Run("allows empty email and phone", func(t *testing.T) {
		err := profile.SetContact("Alice", "Martin", "", "")
		assert.NoError(t, err)
	})
}

func TestClientProfileSetShop(t *testing.T) {
	profile, err := NewClientProfile("alice")
	require.NoError(t, err)

	t.Run("sets shop details", func(t *testing.T) {
		err := profile.SetShop("Martin Promo", "Rue du Marche 12", "Geneva", "1204")
		require.NoError(t, err)

		assert.Equal(t, "Martin Promo", profile.ShopName)
		assert.Equal(t, "Rue du Marche 12", profile.ShopAddress)
		assert.Equal(t, "Geneva", profile.ShopCity)
		assert.Equal(t, "1204", profile.ShopZipCode)
	})

	t.Run("rejects overly long shop name", func(t *testing.T) {
		err := profile.SetShop(strings.Repeat("s", 201), "", "", "")
		assert.Error(t, err)
	})

	t.Run("rejects overly long zip code", func(t *testing.T) {
		err := profile.SetShop("Shop", "", "", strings.Repeat("9", 21))
		assert.Error(t, err)
	})
}

func TestClientProfileFullName(t *testing.T) {
	profile, err := NewClientProfile("alice")
	require.NoError(t, err)

	assert.Equal(t, "", profile.FullName())

	require.NoError(t, profile.SetContact("Alice", "Martin", "", ""))
	assert.Equal(t, "Alice Martin", profile.FullName())

	require.NoError(t, profile.SetContact("", "Martin", "", ""))
	assert.Equal(t, "Martin", profile.FullName())
}

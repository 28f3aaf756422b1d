package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	for _, cat := range Categories() {
		parsed, err := ParseCategory(string(cat))
		require.NoError(t, err)
		require.Equal(t, cat, parsed)
	}

	// The compact spelling is accepted on the wire.
	parsed, err := ParseCategory("ElectricBike")
	require.NoError(t, err)
	require.Equal(t, CategoryElectricBike, parsed)

	_, err = ParseCategory("Truck")
	require.Error(t, err)
	_, err = ParseCategory("")
	require.Error(t, err)
	_, err = ParseCategory("bike")
	require.Error(t, err)
}

func TestCategoryTables(t *testing.T) {
	seen := make(map[string]bool)
	for _, cat := range Categories() {
		table := cat.Table()
		require.NotEmpty(t, table)
		require.False(t, seen[table], "table %s mapped twice", table)
		seen[table] = true
	}
	require.Equal(t, "electric_bikes", CategoryElectricBike.Table())
}

func TestValidCNIC(t *testing.T) {
	valid := []string{"35201-1234567-1", "00000-0000000-0", "99999-9999999-9"}
	for _, s := range valid {
		require.True(t, ValidCNIC(s), s)
	}

	invalid := []string{
		"",
		"35201-1234567",
		"3520-1234567-1",
		"35201-123456-1",
		"35201-1234567-12",
		"35201 1234567 1",
		"abcde-1234567-1",
		" 35201-1234567-1",
	}
	for _, s := range invalid {
		require.False(t, ValidCNIC(s), s)
	}
}

func TestParsePaymentType(t *testing.T) {
	for _, pt := range []PaymentType{PaymentCash, PaymentCard, PaymentInstallment} {
		parsed, err := ParsePaymentType(string(pt))
		require.NoError(t, err)
		require.Equal(t, pt, parsed)
	}
	_, err := ParsePaymentType("Cheque")
	require.Error(t, err)
}

func TestIdentityIsAdmin(t *testing.T) {
	require.True(t, Identity{Role: RoleAdmin}.IsAdmin())
	require.False(t, Identity{Role: RoleShowroom}.IsAdmin())
	require.False(t, Identity{}.IsAdmin())
}

package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/motormart/services/showroom/internal/models"
)

func TestResolvePartnerPrecedence(t *testing.T) {
	tenant := &models.User{
		ShowroomName: "City Motors",
		CNIC:         "11111-1111111-1",
	}

	cases := []struct {
		name     string
		vehicle  models.Vehicle
		tenant   *models.User
		wantName string
		wantCNIC string
	}{
		{
			name:     "vehicle partner wins",
			vehicle:  models.Vehicle{Partner: "Ali Traders", PartnerCNIC: "22222-2222222-2"},
			tenant:   tenant,
			wantName: "Ali Traders",
			wantCNIC: "22222-2222222-2",
		},
		{
			name:     "tenant fills gaps",
			vehicle:  models.Vehicle{},
			tenant:   tenant,
			wantName: "City Motors",
			wantCNIC: "11111-1111111-1",
		},
		{
			name:     "placeholders when nothing known",
			vehicle:  models.Vehicle{},
			tenant:   &models.User{},
			wantName: "None",
			wantCNIC: models.PlaceholderCNIC,
		},
		{
			name:     "nil tenant",
			vehicle:  models.Vehicle{},
			tenant:   nil,
			wantName: "None",
			wantCNIC: models.PlaceholderCNIC,
		},
		{
			name:     "mixed sources",
			vehicle:  models.Vehicle{Partner: "Ali Traders"},
			tenant:   tenant,
			wantName: "Ali Traders",
			wantCNIC: "11111-1111111-1",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			name, cnic := ResolvePartner(&tc.vehicle, tc.tenant)
			require.Equal(t, tc.wantName, name)
			require.Equal(t, tc.wantCNIC, cnic)
		})
	}
}

func TestResolvePartnerPlaceholderIsValidCNIC(t *testing.T) {
	// The placeholder must pass the same validation real CNICs do, or
	// every defaulted sale would be rejected.
	require.True(t, models.ValidCNIC(models.PlaceholderCNIC))
}

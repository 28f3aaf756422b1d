package services

import "example.com/motormart/services/showroom/internal/models"

// ResolvePartner determines the partner attribution recorded on a sale's
// audit event. Precedence, highest first:
//
//	name:  vehicle partner -> tenant showroom name -> "None"
//	cnic:  vehicle partner CNIC -> tenant CNIC -> placeholder
//
// The resolved CNIC still has to pass ValidCNIC; a vehicle stocked with a
// malformed partner CNIC must not produce a sale.
func ResolvePartner(vehicle *models.Vehicle, tenant *models.User) (name, cnic string) {
	name = vehicle.Partner
	if name == "" && tenant != nil {
		name = tenant.ShowroomName
	}
	if name == "" {
		name = "None"
	}

	cnic = vehicle.PartnerCNIC
	if cnic == "" && tenant != nil {
		cnic = tenant.CNIC
	}
	if cnic == "" {
		cnic = models.PlaceholderCNIC
	}
	return name, cnic
}

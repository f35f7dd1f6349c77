package models

// Counties accepted on new listings.
var Counties = []string{
	"Nairobi", "Mombasa", "Kisumu", "Nakuru", "Eldoret",
	"Kiambu", "Machakos", "Kajiado", "Nyeri", "Thika",
}

// PropertyTypes accepted on new listings.
var PropertyTypes = []string{
	"Apartment", "Bungalow", "Maisonette", "Bedsitter", "Studio",
	"Villa", "Townhouse",
}

// SuggestedAmenities is offered to clients as a checklist. Listings may carry
// other amenity tags too.
var SuggestedAmenities = []string{
	"Parking", "Security", "Pool", "Gym", "Garden", "Backup Water", "CCTV", "Lift",
}

func IsCounty(s string) bool {
	return contains(Counties, s)
}

func IsPropertyType(s string) bool {
	return contains(PropertyTypes, s)
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}

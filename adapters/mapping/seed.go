package mapping

// SamplePlaces is the built-in place index used for demos and tests when
// no place file is configured. A small spread of real-city addresses with
// and without directional street tokens.
func SamplePlaces() []PlaceRecord {
	return []PlaceRecord{
		{
			Address:      "123 Main St, Dallas, TX 75201",
			StreetNumber: "123",
			Street:       "Main St",
			City:         "Dallas",
			Region:       "TX",
			PostalCode:   "75201",
			Lat:          32.7807,
			Lng:          -96.7982,
		},
		{
			Address:      "500 N Akard St, Dallas, TX 75201",
			StreetNumber: "500",
			Street:       "N Akard St",
			City:         "Dallas",
			Region:       "TX",
			PostalCode:   "75201",
			Lat:          32.7838,
			Lng:          -96.7994,
		},
		{
			Address:      "2400 E Hennepin Ave, Minneapolis, MN 55413",
			StreetNumber: "2400",
			Street:       "E Hennepin Ave",
			City:         "Minneapolis",
			Region:       "MN",
			PostalCode:   "55413",
			Lat:          44.9905,
			Lng:          -93.2216,
		},
		{
			Address:      "814 Elmwood Ave, Austin, TX 78705",
			StreetNumber: "814",
			Street:       "Elmwood Ave",
			City:         "Austin",
			Region:       "TX",
			PostalCode:   "78705",
			Lat:          30.2982,
			Lng:          -97.7312,
		},
		{
			Address:      "77 Lakeview Dr SW, Atlanta, GA 30311",
			StreetNumber: "77",
			Street:       "Lakeview Dr SW",
			City:         "Atlanta",
			Region:       "GA",
			PostalCode:   "30311",
			Lat:          33.7296,
			Lng:          -84.4521,
		},
		{
			Address:      "1020 W Addison St, Chicago, IL 60613",
			StreetNumber: "1020",
			Street:       "W Addison St",
			City:         "Chicago",
			Region:       "IL",
			PostalCode:   "60613",
			Lat:          41.9474,
			Lng:          -87.6561,
		},
	}
}

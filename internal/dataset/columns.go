package dataset

// Literal column headers consumed from the source CSVs. These must match the
// files byte-for-byte; the upstream exports are not sanitized (note the
// trailing space in ColPublicToilets).
const (
	ColZoneName = "Zone Name"
	ColWardName = "Ward Name"

	// water_sanitation
	ColTotalHouseholds   = "Total number of households (HH)"
	ColSewerageHH        = "HH part of the city sewerage network"
	ColToiletHH          = "Number of Households with toilets"
	ColPublicToilets     = "Number of Public Toilet "
	ColFreeToiletsFemale = "Number of free public toilets - Female"
	ColFreeToiletsMale   = "Number of free public toilets - Male"
	ColPaidToiletsFemale = "Number of paid public toilets - Female"
	ColPaidToiletsMale   = "Number of paid public toilets - Male"

	// environment
	ColMonthYear = "Month -Year"

	// crimes
	ColYear        = "Year"
	ColTotalCrimes = "Total number of crimes recorded"

	// intersections
	ColIntersections = "No. of intersections / junctions"
	ColSignalized    = "Total number of operational signalized intersections"

	// employment (single aggregate row)
	ColEmployed    = "No. of employed persons"
	ColUnemployed  = "No. of unemployed persons (seeking or available for work)"
	ColLabourForce = "Total labour force in the city (age 15-59) [Employed + Unemployed Persons)"
)

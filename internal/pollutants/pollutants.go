// Package pollutants provides shared constants and validation for air-quality readings
package pollutants

// Pollutant key constants
const (
	PM25 = "pm2.5"
	PM10 = "pm10"
	NO2  = "no2"
	SO2  = "so2"
	O3   = "o3"
)

// ValidPollutants contains all pollutant keys tracked in the environment dataset
var ValidPollutants = []string{PM25, PM10, NO2, SO2, O3}

// columns maps pollutant keys to the literal source column headers. PM2.5
// uses a different phrasing than the other pollutants in the source file.
var columns = map[string]string{
	PM25: "Monthly mean/average concentration - PM2.5",
	PM10: "Monthly mean concentration - PM10",
	NO2:  "Monthly mean concentration - NO2",
	SO2:  "Monthly mean concentration - SO2",
	O3:   "Monthly mean concentration - O3",
}

// WHO guideline concentrations in µg/m³, shown alongside measured averages
var guidelines = map[string]float64{
	PM25: 15,
	PM10: 35,
	NO2:  40,
	SO2:  20,
	O3:   100,
}

// IsValid checks if the given key is a tracked pollutant
func IsValid(key string) bool {
	for _, p := range ValidPollutants {
		if key == p {
			return true
		}
	}
	return false
}

// Column returns the source CSV column header for a pollutant key.
// The second return is false for unknown keys.
func Column(key string) (string, bool) {
	col, ok := columns[key]
	return col, ok
}

// Guideline returns the WHO guideline concentration for a pollutant key,
// or 0 for unknown keys.
func Guideline(key string) float64 {
	return guidelines[key]
}

// Unit returns the measurement unit shared by all tracked pollutants.
func Unit() string {
	return "µg/m³"
}

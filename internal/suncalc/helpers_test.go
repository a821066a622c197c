package suncalc

import "time"

// Chisinau coordinates for testing
const (
	testLatitude  = 47.0105
	testLongitude = 28.8638
)

func testLocation() *time.Location {
	loc, err := time.LoadLocation("Europe/Chisinau")
	if err != nil {
		// tzdata missing on the host, fixed summer offset is close enough
		return time.FixedZone("EEST", 3*60*60)
	}
	return loc
}

// newTestSunCalc creates a SunCalc instance for a Chisinau station.
func newTestSunCalc() *SunCalc {
	return NewSunCalc(testLatitude, testLongitude, testLocation())
}

// midsummerAt returns June 21, 2024 at the given station-local hour.
func midsummerAt(hour int) time.Time {
	return time.Date(2024, 6, 21, hour, 0, 0, 0, testLocation())
}

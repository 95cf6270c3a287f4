package sheet

import (
	"math"
	"time"
)

// unixEpochSerial is the serial number of 1970-01-01 in the 1900 date
// system. Serials count days from 1899-12-30, which absorbs the phantom
// 1900-02-29 for every serial from 61 on.
const unixEpochSerial = 25569

// SerialDate converts a 1900-system date serial to UTC midnight of its day.
// The time-of-day fraction is discarded.
func SerialDate(serial float64) time.Time {
	days := int64(math.Floor(serial)) - unixEpochSerial
	return time.Unix(days*secondsPerDay, 0).UTC()
}

const secondsPerDay = 24 * 60 * 60

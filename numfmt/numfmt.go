// Package numfmt renders date serials and durations with Excel number format
// strings such as "yyyy-mm-dd ddd" or "[h]:mm".
//
// Format strings are tokenized by [github.com/xuri/nfp]; this package only
// renders the resulting tokens. Date, time, elapsed-time and literal tokens
// are supported. Numeric placeholders fall back to the General rendering.
package numfmt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/nfp"
)

// Defaults used when a format string is empty.
const (
	DefaultDate     = "yyyy-mm-dd ddd"
	DefaultDuration = "[h]:mm"
)

// epoch is day 0 of the 1900 date system as used by serials from 61 on.
var epoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// Format renders serial, a number of days since the 1900 epoch, with format.
// Invalid serials and formats without any renderable token are rendered like
// the General format.
func Format(serial float64, format string) string {
	if format == "" || strings.EqualFold(format, "General") {
		return general(serial)
	}
	parser := nfp.NumberFormatParser()
	sections := parser.Parse(format)
	if len(sections) == 0 {
		return general(serial)
	}
	sec := pick(sections, serial)
	if !hasDateTokens(sec) {
		return general(serial)
	}
	return renderDateTime(serial, sec)
}

// Date renders t with a date format. The zone of t is ignored.
func Date(t time.Time, format string) string {
	if format == "" {
		format = DefaultDate
	}
	return Format(Serial(t), format)
}

// Minutes renders a duration in minutes with an elapsed-time format.
func Minutes(minutes int, format string) string {
	if format == "" {
		format = DefaultDuration
	}
	return Format(float64(minutes)/(24*60), format)
}

// Serial converts t to a 1900-system serial, keeping the time of day.
func Serial(t time.Time) float64 {
	y, m, d := t.Date()
	h, mi, s := t.Clock()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	days := math.Round(day.Sub(epoch).Hours() / 24)
	return days + float64(h*3600+mi*60+s)/86400
}

// pick selects the section that applies to the sign of v.
func pick(sections []nfp.Section, v float64) nfp.Section {
	switch {
	case len(sections) == 1:
		return sections[0]
	case v < 0:
		return sections[1]
	case v == 0 && len(sections) > 2:
		return sections[2]
	default:
		return sections[0]
	}
}

func hasDateTokens(sec nfp.Section) bool {
	for _, tok := range sec.Items {
		if tok.TType == nfp.TokenTypeDateTimes || tok.TType == nfp.TokenTypeElapsedDateTimes {
			return true
		}
	}
	return false
}

func general(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'G', 10, 64)
}

// clock splits serial into a calendar time and the total number of elapsed
// seconds, both rounded to the second.
func clock(serial float64) (time.Time, int64) {
	secs := int64(math.Round(serial * 86400))
	return epoch.Add(time.Duration(secs) * time.Second), secs
}

func renderDateTime(serial float64, sec nfp.Section) string {
	if math.IsNaN(serial) || math.IsInf(serial, 0) {
		return general(serial)
	}
	t, elapsed := clock(serial)

	ampm := false
	for _, tok := range sec.Items {
		if tok.TType == nfp.TokenTypeDateTimes {
			if u := strings.ToUpper(tok.TValue); u == "AM/PM" || u == "A/P" {
				ampm = true
			}
		}
	}

	var sb strings.Builder
	afterHour := false
	for _, tok := range sec.Items {
		u := strings.ToUpper(tok.TValue)
		switch tok.TType {
		case nfp.TokenTypeDateTimes:
			sb.WriteString(dateToken(u, t, ampm, afterHour))
			afterHour = u == "H" || u == "HH"
		case nfp.TokenTypeElapsedDateTimes:
			sb.WriteString(elapsedToken(u, elapsed))
			afterHour = u == "H" || u == "HH"
		case nfp.TokenTypeLiteral:
			// A separator between hours and minutes keeps afterHour.
			sb.WriteString(tok.TValue)
		default:
			afterHour = false
		}
	}
	if sb.Len() == 0 {
		return general(serial)
	}
	return sb.String()
}

// dateToken renders one calendar token. M and MM mean minutes right after an
// hour token and months otherwise.
func dateToken(u string, t time.Time, ampm, afterHour bool) string {
	hour := t.Hour()
	if ampm {
		hour %= 12
		if hour == 0 {
			hour = 12
		}
	}
	switch u {
	case "YYYY":
		return fmt.Sprintf("%04d", t.Year())
	case "YY":
		return fmt.Sprintf("%02d", t.Year()%100)
	case "MMMMM":
		return t.Month().String()[:1]
	case "MMMM":
		return t.Month().String()
	case "MMM":
		return t.Month().String()[:3]
	case "MM":
		if afterHour {
			return fmt.Sprintf("%02d", t.Minute())
		}
		return fmt.Sprintf("%02d", int(t.Month()))
	case "M":
		if afterHour {
			return strconv.Itoa(t.Minute())
		}
		return strconv.Itoa(int(t.Month()))
	case "DDDD":
		return t.Weekday().String()
	case "DDD":
		return t.Weekday().String()[:3]
	case "DD":
		return fmt.Sprintf("%02d", t.Day())
	case "D":
		return strconv.Itoa(t.Day())
	case "HH":
		return fmt.Sprintf("%02d", hour)
	case "H":
		return strconv.Itoa(hour)
	case "SS":
		return fmt.Sprintf("%02d", t.Second())
	case "S":
		return strconv.Itoa(t.Second())
	case "AM/PM":
		if t.Hour() < 12 {
			return "AM"
		}
		return "PM"
	case "A/P":
		if t.Hour() < 12 {
			return "A"
		}
		return "P"
	}
	return ""
}

// elapsedToken renders a bracketed token such as [h] or [mm]. The unit is
// the largest one of the format and does not wrap around.
func elapsedToken(u string, secs int64) string {
	neg := ""
	if secs < 0 {
		neg, secs = "-", -secs
	}
	var n int64
	switch u {
	case "H", "HH":
		n = secs / 3600
	case "M", "MM":
		n = secs / 60
	case "S", "SS":
		n = secs
	default:
		return ""
	}
	return neg + fmt.Sprintf("%0*d", len(u), n)
}

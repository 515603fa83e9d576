package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// BuildRequest flattens validated form values plus the scheduling context into
// the request body the booking service expects. Pass-through parameters are
// copied first, so named fields win on key collision. Deterministic and
// side-effect free; the only error is an unknown time-zone identifier.
func BuildRequest(values ContactFormValues, sctx SchedulingContext, passThrough map[string]string) (Request, error) {
	loc, err := time.LoadLocation(sctx.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("time zone %q: %w", sctx.TimeZone, err)
	}

	req := make(Request, len(passThrough)+12)
	for k, v := range passThrough {
		req[k] = v
	}

	req["duration_id"] = sctx.DurationID
	req["date"] = sctx.Date.Format("2006-01-02")
	req["start_time"] = sctx.SlotStart
	req["end_time"] = sctx.SlotEnd
	req["user_timezone_offset"] = strconv.Itoa(offsetMinutes(sctx.Date, loc))
	req["user_name"] = values.FullName
	req["user_email"] = values.Email
	req["user_phone_number"] = values.PhoneNumber
	req["user_company"] = values.Company
	req["user_demand"] = values.Demand
	req["user_field"] = values.Field
	req["other_participants"] = strings.Join(values.Guests, ", ")

	return req, nil
}

// offsetMinutes reports the zone's deviation from UTC, in signed minutes, in
// force on the given calendar day. Sampled at noon so a DST switchover at
// midnight cannot skew the result.
func offsetMinutes(day time.Time, loc *time.Location) int {
	y, m, d := day.Date()
	_, secs := time.Date(y, m, d, 12, 0, 0, 0, loc).Zone()
	return secs / 60
}

package cmd

import (
	"errors"
	"fmt"
	"time"
)

// DateTimeFormat is the expected format for the --begin and --end flags.
const DateTimeFormat = "2006-01-02 15:04:05"

// parseTimeFlags turns --begin, --end, --window and --last into a
// begin/end pair. Zero values mean unbounded.
func parseTimeFlags() (time.Time, time.Time, error) {
	if lastFlag != "" {
		if beginTime != "" || endTime != "" || windowFlag != "" {
			return time.Time{}, time.Time{}, errors.New("--last cannot be combined with --begin, --end or --window")
		}
		return parseLast(lastFlag)
	}

	if beginTime != "" && endTime != "" && windowFlag != "" {
		return time.Time{}, time.Time{}, errors.New("--begin, --end and --window cannot all be used together")
	}

	begin, end, err := parseDateTimes(beginTime, endTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	window, err := parseWindow(windowFlag)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	begin, end, err = applyTimeWindow(begin, end, window)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if !begin.IsZero() && !end.IsZero() && end.Before(begin) {
		return time.Time{}, time.Time{}, fmt.Errorf("--end %s is before --begin %s",
			end.Format(DateTimeFormat), begin.Format(DateTimeFormat))
	}
	return begin, end, nil
}

// parseDateTimes parses the begin and end datetime strings.
// Returns zero time.Time values for empty strings.
func parseDateTimes(beginStr, endStr string) (time.Time, time.Time, error) {
	var begin, end time.Time

	if beginStr != "" {
		parsed, err := time.Parse(DateTimeFormat, beginStr)
		if err != nil {
			return begin, end, fmt.Errorf("invalid --begin datetime %q, expected format %s", beginStr, DateTimeFormat)
		}
		begin = parsed
	}

	if endStr != "" {
		parsed, err := time.Parse(DateTimeFormat, endStr)
		if err != nil {
			return begin, end, fmt.Errorf("invalid --end datetime %q, expected format %s", endStr, DateTimeFormat)
		}
		end = parsed
	}

	return begin, end, nil
}

// parseWindow converts the window flag string to a time.Duration.
// Returns 0 for an empty string.
//
// Examples of valid duration strings:
//   - "30m" (30 minutes)
//   - "2h" (2 hours)
//   - "1h30m" (1 hour and 30 minutes)
func parseWindow(windowStr string) (time.Duration, error) {
	if windowStr == "" {
		return 0, nil
	}

	duration, err := time.ParseDuration(windowStr)
	if err != nil {
		return 0, fmt.Errorf("invalid --window duration: %w", err)
	}
	if duration <= 0 {
		return 0, fmt.Errorf("--window duration must be positive, got %s", windowStr)
	}
	return duration, nil
}

// parseLast converts the --last flag to begin/end timestamps, where
// end = now and begin = now - duration.
//
// Examples of valid duration strings:
//   - "1h" (last 1 hour)
//   - "30m" (last 30 minutes)
//   - "24h" (last 24 hours)
func parseLast(lastStr string) (time.Time, time.Time, error) {
	duration, err := time.ParseDuration(lastStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --last duration: %w", err)
	}
	if duration <= 0 {
		return time.Time{}, time.Time{}, fmt.Errorf("--last duration must be positive, got %s", lastStr)
	}

	now := time.Now()
	return now.Add(-duration), now, nil
}

// applyTimeWindow applies the time window to the begin/end times.
// When only one boundary is set, the window derives the other.
func applyTimeWindow(begin, end time.Time, window time.Duration) (time.Time, time.Time, error) {
	if window <= 0 {
		return begin, end, nil
	}

	switch {
	case !begin.IsZero() && end.IsZero():
		end = begin.Add(window)
	case begin.IsZero() && !end.IsZero():
		begin = end.Add(-window)
	case begin.IsZero() && end.IsZero():
		return begin, end, errors.New("--window requires --begin or --end to anchor it")
	}
	// Both set: unreachable, rejected earlier as a flag conflict.

	return begin, end, nil
}

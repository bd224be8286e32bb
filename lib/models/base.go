// Package models defines the typed response models the MCP tools return.
// Raw GitLab API objects are inconsistently shaped: timestamps arrive as
// ISO strings or time values, users arrive embedded or as bare usernames,
// optional text arrives as null or "". Every model here normalizes that
// into a stable, compact shape before it is serialized back to the agent,
// so callers never see a raw null where a typed default is promised.
//
// Models are built through FromNative (client-go objects), FromNativeList,
// or FromMap (decoded JSON); see decode.go for the field tag language.
package models

import (
	"fmt"
	"strings"
	"time"
)

// now is the wall clock used by the relative-time serializers. Tests
// replace it to get deterministic output.
var now = time.Now

// RelativeTime formats an ISO-8601 timestamp as a human-readable relative
// time such as "2 hours ago". The empty string yields "unknown" and
// timestamps ahead of the wall clock yield "in the future". Timestamps
// without a zone are assumed to be UTC.
func RelativeTime(ts string) string {
	return relativeTime(ts, now())
}

// RelativeTimeOf is RelativeTime for an already-parsed time value.
func RelativeTimeOf(t time.Time) string {
	return relativeSince(now().Sub(t))
}

func relativeTime(ts string, at time.Time) string {
	if ts == "" {
		return "unknown"
	}

	t, err := parseTimestamp(ts)
	if err != nil {
		return "unknown"
	}

	return relativeSince(at.Sub(t))
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

func parseTimestamp(ts string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		// Zone-less layouts parse in UTC; RFC 3339 carries its own offset
		// (a trailing "Z" included).
		if t, err := time.ParseInLocation(layout, ts, time.UTC); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", ts)
}

// relativeSince buckets an elapsed duration into seconds, minutes, hours,
// days, weeks, and 30-day months. All divisions truncate.
func relativeSince(d time.Duration) string {
	if d < 0 {
		return "in the future"
	}

	seconds := int64(d / time.Second)

	switch {
	case seconds < 60:
		return "just now"
	case seconds < 3600:
		return agoString(seconds/60, "minute")
	case seconds < 86400:
		return agoString(seconds/3600, "hour")
	case seconds < 604800:
		return agoString(seconds/86400, "day")
	case seconds < 2592000:
		return agoString(seconds/604800, "week")
	default:
		return agoString(seconds/2592000, "month")
	}
}

func agoString(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}

	return fmt.Sprintf("%d %ss ago", n, unit)
}

// FormatDuration renders a duration in seconds as a compact human string,
// emitting only the non-zero hour and minute components with no separator:
// 5400 -> "1h30m", 125 -> "2m", 0 -> "0m". Seconds are never emitted.
func FormatDuration(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60

	var b strings.Builder

	if hours > 0 {
		fmt.Fprintf(&b, "%dh", hours)
	}

	if minutes > 0 {
		fmt.Fprintf(&b, "%dm", minutes)
	}

	if b.Len() == 0 {
		return "0m"
	}

	return b.String()
}

// shortSHA truncates a commit SHA to its first 8 characters for display.
func shortSHA(s string) string {
	if len(s) > 8 {
		return s[:8]
	}

	return s
}

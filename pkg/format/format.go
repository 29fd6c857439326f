// Package format holds small stateless helpers shared by the logbook features.
package format

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var fileSizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FileSize renders a byte count with binary units and at most two decimals,
// for example "1.5 KB".
func FileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(fileSizeUnits) {
		i = len(fileSizeUnits) - 1
	}
	v := float64(bytes) / math.Pow(1024, float64(i))
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + fileSizeUnits[i]
}

var (
	unsafeFilenameChars = regexp.MustCompile(`[^a-z0-9.]`)
	repeatedHyphens     = regexp.MustCompile(`-+`)
)

// SanitizeFilename lowercases a filename and replaces anything outside
// [a-z0-9.] with single hyphens. An empty result becomes "file".
func SanitizeFilename(name string) string {
	name = strings.ToLower(name)
	name = unsafeFilenameChars.ReplaceAllString(name, "-")
	name = repeatedHyphens.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")
	if name == "" || strings.Trim(name, ".") == "" {
		return "file"
	}
	return name
}

// ActivityLevel scales the base calorie need.
type ActivityLevel string

const (
	ActivityLow      ActivityLevel = "low"
	ActivityModerate ActivityLevel = "moderate"
	ActivityHigh     ActivityLevel = "high"
)

var activityMultiplier = map[ActivityLevel]float64{
	ActivityLow:      1.0,
	ActivityModerate: 1.2,
	ActivityHigh:     1.4,
}

// ParseActivityLevel validates a level submitted by a client.
func ParseActivityLevel(s string) (ActivityLevel, error) {
	level := ActivityLevel(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := activityMultiplier[level]; !ok {
		return "", fmt.Errorf("unknown activity level %q", s)
	}
	return level, nil
}

// Calories suggests a daily calorie target: 30 kcal per kg, scaled by activity.
// Unknown levels are treated as low.
func Calories(weightKg float64, level ActivityLevel) int {
	m, ok := activityMultiplier[level]
	if !ok {
		m = activityMultiplier[ActivityLow]
	}
	return int(math.Round(weightKg * 30 * m))
}

// Date renders t as a long Traditional Chinese date, e.g. "2026年3月1日".
func Date(t time.Time) string {
	return fmt.Sprintf("%d年%d月%d日", t.Year(), int(t.Month()), t.Day())
}

// CSVTimestamp is the layout used in exported feeding logs.
const CSVTimestamp = "2006-01-02 15:04:05"

// Amount renders grams without a trailing ".0" for whole numbers.
func Amount(grams float64) string {
	return strconv.FormatFloat(grams, 'f', -1, 64)
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

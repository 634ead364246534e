package util

import "fmt"

// timeRangeMinutes maps the supported time range tokens to their length in
// minutes. This is the full vocabulary accepted by the query tools.
var timeRangeMinutes = map[string]int{
	"5m":  5,
	"15m": 15,
	"30m": 30,
	"1h":  60,
	"3h":  180,
	"24h": 1440,
}

// TimeRangeTokens lists the supported tokens in ascending window order.
var TimeRangeTokens = []string{"5m", "15m", "30m", "1h", "3h", "24h"}

// ParseTimeRange converts a time range token into minutes.
// Unknown tokens are an error naming the token and the valid set.
func ParseTimeRange(timeRange string) (int, error) {
	minutes, ok := timeRangeMinutes[timeRange]
	if !ok {
		return 0, fmt.Errorf("Invalid time_range: %q. Valid options: %v", timeRange, TimeRangeTokens)
	}
	return minutes, nil
}

package model

import "time"

// Shared defaults used by the dashboard, the headless server and the CLI.
const (
	DefaultBaseURL          = "http://localhost:8080"
	DefaultPollInterval     = 30 * time.Second
	DefaultRequestTimeout   = 10 * time.Second
	DefaultActiveWindowDays = 7
	DefaultChartDays        = 30
	DefaultAPIAddr          = "127.0.0.1:3000"
)

// ChartDayOptions are the selectable windows for the history charts.
var ChartDayOptions = []int{7, 14, 30, 90}

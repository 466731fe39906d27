package order

import (
	"fmt"
	"strings"
	"time"
)

// FormatNumber substitutes date and counter tokens into the configured order
// number template, e.g. "{yyyy}{mm}{dd}-{counter}" -> "20260829-1042".
func FormatNumber(format string, counter int64, now time.Time) string {
	r := strings.NewReplacer(
		"{yyyy}", now.Format("2006"),
		"{yy}", now.Format("06"),
		"{mm}", now.Format("01"),
		"{dd}", now.Format("02"),
		"{counter}", fmt.Sprintf("%d", counter),
	)
	return r.Replace(format)
}

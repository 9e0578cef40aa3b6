package conversation

import (
	"time"

	"swampy-server/internal/infrastructure/metrics"
)

// track times one repository query for the db_query_duration histogram.
// Use as `defer track("conversation_create")()`.
func track(queryType string) func() {
	start := time.Now()
	return func() {
		metrics.RecordDBQuery(queryType, time.Since(start).Seconds())
	}
}

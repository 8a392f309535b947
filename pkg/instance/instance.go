package instance

import (
	"os"

	"github.com/homemade/pickleshop/pkg/env"
)

const fallbackID = "local"

// ID identifies this process in logs: PICKLE_INSTANCE_ID, then DYNO, then the
// hostname.
func ID() string {
	if id := env.Get("PICKLE_INSTANCE_ID", env.Get("DYNO", "")); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return fallbackID
}

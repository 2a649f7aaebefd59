// Package statsview runs a local HTTP server offering runtime statistics of
// the process as graphs, with the standard pprof endpoints next to them.
// Underlying functionality is provided by "github.com/go-echarts/statsview".
package statsview

import (
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// DefaultAddress is where the server listens unless told otherwise.
const DefaultAddress = "localhost:12600"

const path = "/debug/statsview"

// URL returns where the graphs are served for a server listening on addr.
func URL(addr string) string {
	return "http://" + addr + path
}

// Launch starts the server in a new goroutine and returns the URL of the
// graphs. The server runs until the process exits.
func Launch(addr string) string {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(addr))
		mgr := statsview.New()
		mgr.Start()
	}()
	return URL(addr)
}

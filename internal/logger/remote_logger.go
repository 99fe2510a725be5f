package logger

import (
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
)

type remoteSink struct {
	uri string
	job string
}

var (
	sink       atomic.Pointer[remoteSink]
	pushClient = resty.New().SetTimeout(5 * time.Second)
)

// ConfigureRemote enables shipping of log lines to a Loki push endpoint.
// An empty uri disables it.
func ConfigureRemote(uri, job string) {
	if uri == "" {
		sink.Store(nil)
		return
	}
	sink.Store(&remoteSink{uri: uri, job: job})
}

// sendLog sends log entry in background
func sendLog(level, message string, attrs []slog.Attr) {
	s := sink.Load()
	if s == nil {
		return
	}

	entry := buildLogEntry(s.job, level, message, attrs, time.Now())
	go func() {
		resp, err := pushClient.R().
			SetHeader("Content-Type", "application/json").
			SetBody(entry).
			Post(s.uri)
		if err != nil {
			// stderr only, never recurse into the logger
			fmt.Fprintf(os.Stderr, "Failed to send to remote log: %v\n", err)
			return
		}
		if resp.IsError() {
			fmt.Fprintf(os.Stderr, "Remote log returned error status: %d\n", resp.StatusCode())
		}
	}()
}

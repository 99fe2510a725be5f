package logger

import (
	"os"
	"sync"
)

var Hostname = sync.OnceValue(func() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
})

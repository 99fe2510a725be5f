package logger

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"time"
)

// lokiPush is the body of POST /loki/api/v1/push.
type lokiPush struct {
	Streams []lokiStream `json:"streams"`
}

type lokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][2]string       `json:"values"`
}

func buildLogEntry(job, level, message string, attrs []slog.Attr, at time.Time) lokiPush {
	return lokiPush{
		Streams: []lokiStream{{
			Stream: map[string]string{
				"level": level,
				"job":   job,
				"host":  Hostname(),
			},
			Values: [][2]string{{
				strconv.FormatInt(at.UnixNano(), 10),
				buildLogLine(level, message, attrs, at),
			}},
		}},
	}
}

// buildLogLine renders one JSON line; attributes win over the fixed keys.
func buildLogLine(level, message string, attrs []slog.Attr, at time.Time) string {
	line := make(map[string]any, len(attrs)+3)
	line["level"] = level
	line["message"] = message
	line["time"] = at.Format(time.RFC3339Nano)
	for _, a := range attrs {
		line[a.Key] = a.Value.Resolve().Any()
	}

	b, err := json.Marshal(line)
	if err != nil {
		return `{"level":"` + level + `","message":` + strconv.Quote(message) + `}`
	}
	return string(b)
}

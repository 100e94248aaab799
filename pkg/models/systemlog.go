package models

import (
	"time"

	"github.com/erpdesk/erpdesk.go/pkg/wire"
)

// SystemLog mirrors one backend system-log entry.
type SystemLog struct {
	ID        int64
	Level     string
	Source    string
	Message   string
	UserName  string
	Timestamp time.Time
}

func DecodeSystemLog(m map[string]any) SystemLog {
	return SystemLog{
		ID:        wire.Int64(m, "Id", "LogId"),
		Level:     wire.Str(m, "Level", "LogLevel"),
		Source:    wire.Str(m, "Source"),
		Message:   wire.Str(m, "Message"),
		UserName:  wire.Str(m, "UserName"),
		Timestamp: wire.Date(m, "Timestamp", "CreatedAt"),
	}
}

func DecodeSystemLogs(items []map[string]any) []SystemLog {
	out := make([]SystemLog, 0, len(items))
	for _, m := range items {
		out = append(out, DecodeSystemLog(m))
	}
	return out
}

package logging

import (
	"encoding/json"
	"log"
	"time"
)

const Service = "farmconnect"

type Fields struct {
	RequestID  string `json:"request_id,omitempty"`
	UserID     uint64 `json:"user_id,omitempty"`
	OrderID    uint64 `json:"order_id,omitempty"`
	Event      string `json:"event,omitempty"`
	Method     string `json:"method,omitempty"`
	Path       string `json:"path,omitempty"`
	Status     int    `json:"status,omitempty"`
	DurationMS int64  `json:"duration_ms,omitempty"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Log writes one JSON line through the standard logger.
func Log(fields Fields) {
	payload := struct {
		Service   string `json:"service"`
		Timestamp string `json:"timestamp"`
		Fields
	}{
		Service:   Service,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Fields:    fields,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("{\"service\":%q,\"status\":\"log_error\",\"error\":%q}", Service, err.Error())
		return
	}
	log.Print(string(data))
}

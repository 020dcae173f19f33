// SPDX-License-Identifier: MIT
package transport

import (
	"encoding/json"

	applog "haptic/internal/log"
)

// LoggingTransport implements Transport by writing payloads to the
// application log. Useful as a stand-in when no network consumer is
// configured.
type LoggingTransport struct{}

// NewLoggingTransport creates a new LoggingTransport instance.
func NewLoggingTransport() *LoggingTransport {
	applog.Debugf("Transport: using LoggingTransport")
	return &LoggingTransport{}
}

// Send logs the payload at debug level.
func (lt *LoggingTransport) Send(data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		applog.Debugf("LoggingTransport: (%T) %+v", data, data)
		return nil
	}
	applog.Debugf("LoggingTransport: %s", jsonData)
	return nil
}

// Close is a no-op for LoggingTransport.
func (lt *LoggingTransport) Close() error {
	return nil
}

var _ Transport = (*LoggingTransport)(nil)

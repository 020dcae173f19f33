// SPDX-License-Identifier: MIT
package transport

// Transport defines a generic interface for sending analysis progress
// and results to external consumers. Implementations must be
// thread-safe.
type Transport interface {
	Send(data any) error
	Close() error
}

// SPDX-License-Identifier: MIT
package udp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	"haptic/internal/haptic"
	applog "haptic/internal/log"
)

// maxPulsesPerPacket keeps packets comfortably under a 1500-byte MTU
// (14-byte header + 10 bytes per pulse).
const maxPulsesPerPacket = 100

// PulsePublisher packs a vibration pulse timeline into binary packets
// and streams them to an actuation host over UDP.
type PulsePublisher struct {
	sender      *Sender
	sequenceNum uint32

	// Reusable buffer for constructing packets.
	packetBuffer bytes.Buffer
}

// NewPulsePublisher creates a publisher over an established sender.
func NewPulsePublisher(sender *Sender) (*PulsePublisher, error) {
	if sender == nil {
		return nil, fmt.Errorf("PulsePublisher: UDP sender cannot be nil")
	}
	return &PulsePublisher{sender: sender}, nil
}

/*
UDP Packet Structure (BigEndian)

+------------------------------------------------------------------------+
| Field           | Data Type | Size (Bytes) | Description               |
|-----------------|-----------|--------------|---------------------------|
| Sequence Number | uint32    | 4            | Monotonically increasing  |
| Timestamp       | int64     | 8            | Nanoseconds since epoch   |
| Pulse Count     | uint16    | 2            | Pulses in this packet (N) |
| Pulses          | N records | N * 10       | See per-pulse layout      |
+------------------------------------------------------------------------+

Per-pulse record:

|<-- 4 Bytes -->|<-- 4 Bytes -->|<-- 2 Bytes -->|
+---------------+---------------+---------------+
|    Time (ms)  |   Intensity   | Duration (ms) |
|    (uint32)   |   (float32)   |    (uint16)   |
+---------------+---------------+---------------+
*/

// PublishTimeline streams the whole pulse sequence, chunked so each
// packet stays within a single MTU. Returns on the first send failure.
func (p *PulsePublisher) PublishTimeline(pulses []haptic.VibrationPulse) error {
	for start := 0; start < len(pulses); start += maxPulsesPerPacket {
		end := start + maxPulsesPerPacket
		if end > len(pulses) {
			end = len(pulses)
		}

		packet, err := p.buildPacket(pulses[start:end])
		if err != nil {
			return fmt.Errorf("failed to pack pulse packet: %w", err)
		}
		if err := p.sender.Send(packet); err != nil {
			return err
		}
		applog.Debugf("PulsePublisher: sent packet %d (%d pulses, %d bytes)",
			p.sequenceNum, end-start, len(packet))
	}
	return nil
}

// buildPacket packs one chunk of pulses into the wire format above.
// The returned slice aliases the internal buffer and is only valid
// until the next call.
func (p *PulsePublisher) buildPacket(pulses []haptic.VibrationPulse) ([]byte, error) {
	p.sequenceNum++
	p.packetBuffer.Reset()

	err := binary.Write(&p.packetBuffer, binary.BigEndian, p.sequenceNum)
	if err == nil {
		err = binary.Write(&p.packetBuffer, binary.BigEndian, time.Now().UnixNano())
	}
	if err == nil {
		err = binary.Write(&p.packetBuffer, binary.BigEndian, uint16(len(pulses)))
	}
	for _, pulse := range pulses {
		if err != nil {
			break
		}
		err = binary.Write(&p.packetBuffer, binary.BigEndian, uint32(pulse.TimeMs))
		if err == nil {
			err = binary.Write(&p.packetBuffer, binary.BigEndian, float32(pulse.Intensity))
		}
		if err == nil {
			err = binary.Write(&p.packetBuffer, binary.BigEndian, uint16(pulse.DurationMs))
		}
	}
	if err != nil {
		return nil, err
	}
	return p.packetBuffer.Bytes(), nil
}

// Close closes the underlying sender.
func (p *PulsePublisher) Close() error {
	return p.sender.Close()
}

var _ interface{ Close() error } = (*PulsePublisher)(nil)

// SPDX-License-Identifier: MIT
package udp

import (
	"encoding/binary"
	"math"
	"net"
	"testing"

	"haptic/internal/haptic"
)

func TestBuildPacketLayout(t *testing.T) {
	p := &PulsePublisher{sender: &Sender{}}

	pulses := []haptic.VibrationPulse{
		{TimeMs: 25, Intensity: 0.7, DurationMs: 82},
		{TimeMs: 500, Intensity: 0.94, DurationMs: 96},
	}

	packet, err := p.buildPacket(pulses)
	if err != nil {
		t.Fatalf("buildPacket: %v", err)
	}

	const headerLen = 4 + 8 + 2
	if want := headerLen + len(pulses)*10; len(packet) != want {
		t.Fatalf("packet length = %d, want %d", len(packet), want)
	}

	if seq := binary.BigEndian.Uint32(packet[0:4]); seq != 1 {
		t.Errorf("sequence = %d, want 1", seq)
	}
	if ts := int64(binary.BigEndian.Uint64(packet[4:12])); ts <= 0 {
		t.Errorf("timestamp = %d, want positive", ts)
	}
	if count := binary.BigEndian.Uint16(packet[12:14]); count != 2 {
		t.Errorf("pulse count = %d, want 2", count)
	}

	for i, pulse := range pulses {
		rec := packet[headerLen+i*10:]
		if got := binary.BigEndian.Uint32(rec[0:4]); got != uint32(pulse.TimeMs) {
			t.Errorf("pulse %d time = %d, want %d", i, got, pulse.TimeMs)
		}
		intensity := math.Float32frombits(binary.BigEndian.Uint32(rec[4:8]))
		if math.Abs(float64(intensity)-pulse.Intensity) > 1e-6 {
			t.Errorf("pulse %d intensity = %f, want %f", i, intensity, pulse.Intensity)
		}
		if got := binary.BigEndian.Uint16(rec[8:10]); got != uint16(pulse.DurationMs) {
			t.Errorf("pulse %d duration = %d, want %d", i, got, pulse.DurationMs)
		}
	}
}

func TestBuildPacketSequenceAdvances(t *testing.T) {
	p := &PulsePublisher{sender: &Sender{}}

	for want := uint32(1); want <= 3; want++ {
		packet, err := p.buildPacket(nil)
		if err != nil {
			t.Fatalf("buildPacket: %v", err)
		}
		if seq := binary.BigEndian.Uint32(packet[0:4]); seq != want {
			t.Errorf("sequence = %d, want %d", seq, want)
		}
	}
}

func TestPublishTimelineChunks(t *testing.T) {
	// Bind a throwaway loopback listener so sends have a real peer.
	listener, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Skipf("loopback UDP unavailable: %v", err)
	}
	defer listener.Close()

	sender, err := NewSender(listener.LocalAddr().String())
	if err != nil {
		t.Fatalf("NewSender: %v", err)
	}
	defer sender.Close()

	p, err := NewPulsePublisher(sender)
	if err != nil {
		t.Fatal(err)
	}

	pulses := make([]haptic.VibrationPulse, 250)
	for i := range pulses {
		pulses[i] = haptic.VibrationPulse{TimeMs: int64(i * 100), Intensity: 0.5, DurationMs: 40}
	}

	if err := p.PublishTimeline(pulses); err != nil {
		t.Fatalf("PublishTimeline: %v", err)
	}
	// 250 pulses at 100 per packet is 3 packets.
	if p.sequenceNum != 3 {
		t.Errorf("sequence after publish = %d, want 3", p.sequenceNum)
	}
}

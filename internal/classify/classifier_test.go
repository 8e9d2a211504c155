package classify

import (
	"strings"
	"testing"

	"github.com/richardbrown-dev/dht-doctor/internal/core"
)

func TestLine_Signals(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    []core.SignalKind
		anomaly bool
	}{
		{
			name: "bootstrap completed",
			line: "[session] DHT Bootstrap completed successfully",
			want: []core.SignalKind{core.SignalBootstrap},
		},
		{
			name: "bootstrap is case sensitive",
			line: "dht bootstrap completed",
			want: nil,
		},
		{
			name: "peers found",
			line: "INFO: 12 peers found for torrent",
			want: []core.SignalKind{core.SignalPeers},
		},
		{
			name: "peers reply",
			line: "dht_get_peers_reply: 8 PEERS received",
			want: []core.SignalKind{core.SignalPeers},
		},
		{
			name: "peers keyword alone is not enough",
			line: "waiting for peers",
			want: nil,
		},
		{
			name: "metadata request",
			line: "sending metadata request to peer 1.2.3.4",
			want: []core.SignalKind{core.SignalMetadata},
		},
		{
			name: "queued metadata",
			line: "Queued metadata download for hash",
			want: []core.SignalKind{core.SignalMetadata},
		},
		{
			name: "alert keyword",
			line: "got alert: dht_bootstrap_alert",
			want: []core.SignalKind{core.SignalAlerts},
		},
		{
			name: "processing alerts without the singular keyword ordering",
			line: "processing 3 session alerts",
			want: []core.SignalKind{core.SignalAlerts},
		},
		{
			name:    "anomalous line still sets a signal",
			line:    "ERROR: peers found: 0 reply received",
			want:    []core.SignalKind{core.SignalPeers},
			anomaly: true,
		},
		{
			name:    "failed marker",
			line:    "bootstrap failed: no nodes responded",
			anomaly: true,
		},
		{
			name:    "benign mention of error handling still flags",
			line:    "installed error handler for udp socket",
			anomaly: true,
		},
		{
			name: "empty line",
			line: "",
			want: nil,
		},
		{
			name: "unrelated line",
			line: "listening on 0.0.0.0:6881",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Line(tt.line)

			for _, kind := range core.AllSignals() {
				want := contains(tt.want, kind)
				if got.Signals.Has(kind) != want {
					t.Errorf("Line(%q) signal %s = %v, want %v", tt.line, kind, got.Signals.Has(kind), want)
				}
			}
			if got.Anomaly != tt.anomaly {
				t.Errorf("Line(%q) anomaly = %v, want %v", tt.line, got.Anomaly, tt.anomaly)
			}
		})
	}
}

func TestLine_Pure(t *testing.T) {
	line := "DHT Bootstrap completed, 4 peers found, processing alerts, one error"
	first := Line(line)
	for i := 0; i < 10; i++ {
		if got := Line(line); got != first {
			t.Fatalf("Line() not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestLine_ArbitraryBytes(t *testing.T) {
	// Classification must never fail on non-UTF8 or control bytes.
	lines := []string{
		string([]byte{0xff, 0xfe, 0x00}),
		"\x00\x01\x02 peers found",
		strings.Repeat("x", 1<<16),
	}
	for _, line := range lines {
		_ = Line(line) // must not panic
	}
}

func contains(kinds []core.SignalKind, kind core.SignalKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

package session

import "github.com/richardbrown-dev/dht-doctor/internal/core"

// adviceTable holds the fixed remediation guidance per missing milestone.
// Content is keyed purely by which signals are absent, never by what the
// anomaly lines said.
var adviceTable = map[core.SignalKind]core.AdviceBlock{
	core.SignalBootstrap: {
		Signal: core.SignalBootstrap,
		Title:  "DHT Bootstrap Issue",
		Suggestions: []string{
			"Check internet connectivity",
			"Verify DHT routers are reachable",
			"Check firewall/NAT settings",
			"Try manual DHT router addition",
		},
	},
	core.SignalPeers: {
		Signal: core.SignalPeers,
		Title:  "Peer Discovery Issue",
		Suggestions: []string{
			"DHT may not be working properly",
			"Try using trackers in addition to DHT",
			"Check if the target hashes belong to active torrents",
			"Verify port 6881 is accessible",
		},
	},
	core.SignalMetadata: {
		Signal: core.SignalMetadata,
		Title:  "Metadata Request Issue",
		Suggestions: []string{
			"Session configuration problem",
			"Magnet link parsing issue",
			"Review the crawler's metadata manager settings",
		},
	},
	core.SignalAlerts: {
		Signal: core.SignalAlerts,
		Title:  "Alert Processing Issue",
		Suggestions: []string{
			"libtorrent session not working",
			"Alert mask configuration problem",
			"Build/library issue",
		},
	},
}

// AdviceFor derives remediation blocks from the final signal set. It is a
// pure function: identical sets always produce identical advice, in the
// fixed signal order.
func AdviceFor(signals core.SignalSet) []core.AdviceBlock {
	var blocks []core.AdviceBlock
	for _, kind := range signals.Missing() {
		blocks = append(blocks, adviceTable[kind])
	}
	return blocks
}

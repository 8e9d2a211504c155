package core

// SignalKind identifies one of the crawler health milestones tracked during
// a diagnostic session.
type SignalKind string

const (
	SignalBootstrap SignalKind = "dht_bootstrap"
	SignalPeers     SignalKind = "peer_discovery"
	SignalMetadata  SignalKind = "metadata_requests"
	SignalAlerts    SignalKind = "alert_processing"
)

// AllSignals returns the tracked signal kinds in report order.
func AllSignals() []SignalKind {
	return []SignalKind{SignalBootstrap, SignalPeers, SignalMetadata, SignalAlerts}
}

// Label returns the human-readable name used in report output.
func (k SignalKind) Label() string {
	switch k {
	case SignalBootstrap:
		return "DHT Bootstrap"
	case SignalPeers:
		return "Peer Discovery"
	case SignalMetadata:
		return "Metadata Requests"
	case SignalAlerts:
		return "Alert Processing"
	default:
		return string(k)
	}
}

// SignalSet tracks which milestones have been observed. Bits are monotonic:
// once a signal is set it stays set for the lifetime of the session.
type SignalSet struct {
	Bootstrap bool `json:"dht_bootstrap" yaml:"dht_bootstrap"`
	Peers     bool `json:"peer_discovery" yaml:"peer_discovery"`
	Metadata  bool `json:"metadata_requests" yaml:"metadata_requests"`
	Alerts    bool `json:"alert_processing" yaml:"alert_processing"`
}

// Set marks a signal as observed. Unknown kinds are ignored.
func (s *SignalSet) Set(kind SignalKind) {
	switch kind {
	case SignalBootstrap:
		s.Bootstrap = true
	case SignalPeers:
		s.Peers = true
	case SignalMetadata:
		s.Metadata = true
	case SignalAlerts:
		s.Alerts = true
	}
}

// Merge folds another set into this one. Only ORs bits in; nothing is ever
// cleared.
func (s *SignalSet) Merge(other SignalSet) {
	s.Bootstrap = s.Bootstrap || other.Bootstrap
	s.Peers = s.Peers || other.Peers
	s.Metadata = s.Metadata || other.Metadata
	s.Alerts = s.Alerts || other.Alerts
}

// Has reports whether a signal has been observed.
func (s SignalSet) Has(kind SignalKind) bool {
	switch kind {
	case SignalBootstrap:
		return s.Bootstrap
	case SignalPeers:
		return s.Peers
	case SignalMetadata:
		return s.Metadata
	case SignalAlerts:
		return s.Alerts
	default:
		return false
	}
}

// Missing returns the absent signals in report order.
func (s SignalSet) Missing() []SignalKind {
	var missing []SignalKind
	for _, kind := range AllSignals() {
		if !s.Has(kind) {
			missing = append(missing, kind)
		}
	}
	return missing
}

// AllObserved reports whether every milestone was seen.
func (s SignalSet) AllObserved() bool {
	return s.Bootstrap && s.Peers && s.Metadata && s.Alerts
}

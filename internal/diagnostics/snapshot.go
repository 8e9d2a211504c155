// Package diagnostics collects best-effort host environment context for the
// report header. Memory pressure, load, and interface state are legitimate
// remediation context for a crawler that opens hundreds of sockets.
package diagnostics

import (
	"os"
	"runtime"
	"slices"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"

	"github.com/richardbrown-dev/dht-doctor/internal/core"
)

// Collect gathers the host snapshot. Every metric is best-effort: a probe
// that fails leaves its field at the zero value and never blocks the
// diagnosis.
func Collect() core.EnvSnapshot {
	var snap core.EnvSnapshot

	snap.OS = runtime.GOOS + "/" + runtime.GOARCH
	if host, err := os.Hostname(); err == nil {
		snap.Hostname = host
	}
	if count, err := cpu.Counts(true); err == nil {
		snap.CPUCount = count
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		snap.MemTotalMB = float64(vm.Total) / 1024 / 1024
		snap.MemUsedPct = vm.UsedPercent
	}
	if avg, err := load.Avg(); err == nil {
		snap.LoadAvg1 = avg.Load1
	}
	if ifaces, err := net.Interfaces(); err == nil {
		snap.NetInterfaces = countUsable(ifaces)
	}

	return snap
}

// countUsable counts interfaces that are up and not loopbacks.
func countUsable(ifaces net.InterfaceStatList) int {
	n := 0
	for _, iface := range ifaces {
		if slices.Contains(iface.Flags, "up") && !slices.Contains(iface.Flags, "loopback") {
			n++
		}
	}
	return n
}

// Package sysmon reads point-in-time host utilization (CPU, RAM, disk) and
// formats it into the /status report.
package sysmon

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
)

const cpuSampleInterval = 250 * time.Millisecond

// Snapshot is a point-in-time reading of host utilization.
type Snapshot struct {
	CPUPercent  float64
	MemUsed     uint64
	MemTotal    uint64
	MemPercent  float64
	DiskUsed    uint64
	DiskTotal   uint64
	DiskPercent float64
}

// Source supplies utilization snapshots. The command dispatcher depends on
// this interface so tests can substitute fixed readings.
type Source interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// HostSource reads utilization from the local machine.
type HostSource struct {
	diskPath string
}

// NewHostSource creates a source reporting disk usage for the given mount
// point ("/" when empty).
func NewHostSource(diskPath string) *HostSource {
	if diskPath == "" {
		diskPath = "/"
	}
	return &HostSource{diskPath: diskPath}
}

// Snapshot samples CPU over a short interval and reads memory and disk usage.
func (s *HostSource) Snapshot(ctx context.Context) (*Snapshot, error) {
	cpuPct, err := cpu.PercentWithContext(ctx, cpuSampleInterval, false)
	if err != nil {
		return nil, fmt.Errorf("read cpu: %w", err)
	}
	if len(cpuPct) == 0 {
		return nil, fmt.Errorf("read cpu: no readings")
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("read memory: %w", err)
	}

	du, err := disk.UsageWithContext(ctx, s.diskPath)
	if err != nil {
		return nil, fmt.Errorf("read disk %s: %w", s.diskPath, err)
	}

	return &Snapshot{
		CPUPercent:  cpuPct[0],
		MemUsed:     vm.Used,
		MemTotal:    vm.Total,
		MemPercent:  vm.UsedPercent,
		DiskUsed:    du.Used,
		DiskTotal:   du.Total,
		DiskPercent: du.UsedPercent,
	}, nil
}

// Report renders the snapshot into the fixed status template.
func (s *Snapshot) Report() string {
	var b strings.Builder
	b.WriteString("System Status\n")
	fmt.Fprintf(&b, "CPU: %.1f%%\n", s.CPUPercent)
	fmt.Fprintf(&b, "RAM: %s / %s (%.1f%%)\n", formatBytes(s.MemUsed), formatBytes(s.MemTotal), s.MemPercent)
	fmt.Fprintf(&b, "Disk: %s / %s (%.1f%%)", formatBytes(s.DiskUsed), formatBytes(s.DiskTotal), s.DiskPercent)
	return b.String()
}

func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

package sysmon

import (
	"context"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestReport_Format(t *testing.T) {
	snap := &Snapshot{
		CPUPercent:  42.5,
		MemUsed:     8 << 30,
		MemTotal:    32 << 30,
		MemPercent:  25.0,
		DiskUsed:    250 << 30,
		DiskTotal:   1 << 40,
		DiskPercent: 24.4,
	}
	got := snap.Report()

	lines := strings.Split(got, "\n")
	if len(lines) != 4 {
		t.Fatalf("report has %d lines, want 4:\n%s", len(lines), got)
	}
	if lines[0] != "System Status" {
		t.Errorf("header: got %q", lines[0])
	}
	if lines[1] != "CPU: 42.5%" {
		t.Errorf("cpu line: got %q", lines[1])
	}
	if lines[2] != "RAM: 8.0 GB / 32.0 GB (25.0%)" {
		t.Errorf("ram line: got %q", lines[2])
	}
	if lines[3] != "Disk: 250.0 GB / 1.0 TB (24.4%)" {
		t.Errorf("disk line: got %q", lines[3])
	}
}

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		in   uint64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{2048, "2.0 KB"},
		{3 << 20, "3.0 MB"},
		{16 << 30, "16.0 GB"},
	}
	for _, c := range cases {
		if got := formatBytes(c.in); got != c.want {
			t.Errorf("formatBytes(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNewHostSource_DefaultDiskPath(t *testing.T) {
	s := NewHostSource("")
	if s.diskPath != "/" {
		t.Errorf("default disk path: got %q", s.diskPath)
	}
}

func TestHostSource_Snapshot(t *testing.T) {
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		t.Skip("host metrics read only verified on linux/darwin")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	snap, err := NewHostSource("/").Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.MemTotal == 0 {
		t.Error("MemTotal should be non-zero")
	}
	if snap.DiskTotal == 0 {
		t.Error("DiskTotal should be non-zero")
	}
	if snap.CPUPercent < 0 || snap.CPUPercent > 100 {
		t.Errorf("CPUPercent out of range: %f", snap.CPUPercent)
	}
	if snap.MemPercent <= 0 || snap.MemPercent > 100 {
		t.Errorf("MemPercent out of range: %f", snap.MemPercent)
	}
}

package daemontest

import (
	"context"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/opsdeck/daemonctl/internal/rpc"
)

// Fallbacks when host sampling is unavailable (restricted sandboxes, exotic
// platforms). Chosen to look like a small busy daemon, not zeros.
const (
	fallbackCPUPercent  = 12.5
	fallbackMemoryBytes = 256 << 20
	fallbackMemoryLimit = 4 << 30
)

// LiveMetrics samples the host so the fake daemon reports believable,
// changing numbers. Sampling errors fall back to fixed values; this is test
// scaffolding and must never fail.
func LiveMetrics(ctx context.Context) *rpc.MetricsResponse {
	resp := &rpc.MetricsResponse{
		CPUUsagePercent:  fallbackCPUPercent,
		MemoryBytes:      fallbackMemoryBytes,
		MemoryLimitBytes: fallbackMemoryLimit,
	}

	if pct, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(pct) > 0 {
		resp.CPUUsagePercent = pct[0]
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		resp.MemoryBytes = vm.Used
		resp.MemoryLimitBytes = vm.Total
	}
	return resp
}

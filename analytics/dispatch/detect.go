package dispatch

import (
	"runtime"
	"sync"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/optiview/partbench/logger"
)

// minAvailableBytes is the floor of available memory below which background
// execution is disabled: offloading a copy of the working set to a worker
// under memory pressure costs more than it saves.
const minAvailableBytes = 256 << 20 // 256 MB

var (
	detectOnce   sync.Once
	backgroundOK bool
)

// backgroundAvailable reports whether background execution is worthwhile on
// this host. Detected once per process and cached: single-CPU hosts and
// hosts under memory pressure (or where memory stats cannot be read) run
// everything synchronously.
func backgroundAvailable() bool {
	detectOnce.Do(func() {
		if runtime.NumCPU() < 2 {
			logger.Debugw("Background computation disabled: single CPU")
			return
		}

		vm, err := mem.VirtualMemory()
		if err != nil {
			logger.Warnw("Background computation disabled: cannot read memory stats", "error", err)
			return
		}
		if vm.Available < minAvailableBytes {
			logger.Warnw("Background computation disabled: low available memory",
				"available_mb", vm.Available>>20)
			return
		}

		backgroundOK = true
	})
	return backgroundOK
}

// Package procfs reads per-process resource figures from /proc. The status
// reporter falls back to it when the manager has resource accounting
// switched off.
package procfs

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// defaultRoot is the procfs mount point.
const defaultRoot = "/proc"

// ResidentBytes returns the resident set size of pid in bytes, read from
// the VmRSS row of /proc/<pid>/status.
func ResidentBytes(pid uint32) (uint64, error) {
	return residentBytes(defaultRoot, pid)
}

func residentBytes(root string, pid uint32) (uint64, error) {
	path := filepath.Join(root, strconv.FormatUint(uint64(pid), 10), "status")
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("procfs: open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "VmRSS:") {
			continue
		}
		// The row reads "VmRSS:     1234 kB".
		fields := strings.Fields(line)
		if len(fields) < 2 {
			break
		}
		kb, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("procfs: parse VmRSS %q: %w", fields[1], err)
		}
		return kb * 1024, nil
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("procfs: read %s: %w", path, err)
	}
	// Kernel threads have no VmRSS row.
	return 0, fmt.Errorf("procfs: no VmRSS row in %s", path)
}

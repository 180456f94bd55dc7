// Package collector gathers raw OS, hardware and software inventory facts
// from the local host. Collection is best effort: anything that cannot be
// determined degrades to the "Unknown" sentinel or an error-marked entry, and
// is never fatal to the scan. All free-form command-output parsing lives
// here; the conversion engine only ever sees structured facts.
package collector

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/secinv/cpescan/util"
)

var logger = util.InitLogger()

const (
	// Unknown is the sentinel collectors emit for undeterminable values.
	Unknown = "Unknown"

	pkgManagerTimeout = 60 * time.Second
	deviceToolTimeout = 30 * time.Second
	powershellTimeout = 120 * time.Second
)

// runCommand executes an external tool with a bounded timeout and returns its
// trimmed stdout.
func runCommand(ctx context.Context, timeout time.Duration, name string, args ...string) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := exec.CommandContext(cctx, name, args...).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

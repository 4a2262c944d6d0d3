// Command nmapflat converts nmap XML scan output into flat per-port records.
package main

import (
	"github.com/anstrom/nmapflat/cmd/cli"
)

// Build information - these will be set by ldflags during build.
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

func main() {
	cli.SetVersion(version, commit, buildTime)
	cli.Execute()
}

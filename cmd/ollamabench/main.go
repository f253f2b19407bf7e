// cmd/ollamabench/main.go
package main

import (
	cmd "github.com/mwiater/ollamabench/internal/cli"
)

// Set at build time with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "none"
)

var (
	setVersionInfo = cmd.SetVersionInfo
	executeCmd     = cmd.Execute
)

// main hands control to the cobra root command.
func main() {
	setVersionInfo(version, commit)
	executeCmd()
}

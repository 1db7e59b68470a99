// Package main provides the rollcalld daemon entrypoint.
package main

import (
	// Kiosk hosts do not always ship zoneinfo.
	_ "time/tzdata"

	"github.com/mesh-intelligence/rollcall/internal/cli"
)

func main() {
	cli.Execute()
}

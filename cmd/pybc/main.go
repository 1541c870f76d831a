// Command pybc is the entry point for the tokenizer/parser/compiler/VM
// toolchain implemented by the internal/maincmd and pkg/* packages.
package main

import (
	"os"

	"github.com/mna/mainer"

	"github.com/kp000vinay/pybc/internal/maincmd"
)

// version and buildDate are meant to be set via -ldflags at build time,
// e.g. -ldflags "-X main.version=1.2.3 -X main.buildDate=2024-01-01".
var (
	version   = "{version}"
	buildDate = "{date}"
)

func main() {
	c := maincmd.Cmd{BuildVersion: version, BuildDate: buildDate}
	os.Exit(int(c.Main(os.Args, mainer.CurrentStdio())))
}

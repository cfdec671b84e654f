package main

import (
	"os"

	"github.com/certbind-io/winrm-certbind/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}

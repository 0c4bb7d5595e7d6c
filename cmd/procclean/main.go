// procclean is a live process-table inspector and cleaner.
package main

import (
	"os"

	"github.com/xcawolfe-amzn/procclean/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}

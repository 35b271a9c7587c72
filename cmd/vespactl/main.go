// Command vespactl deploys and manages the Vespa search-engine container.
package main

import (
	"os"

	"github.com/searchstack/vespactl/cmd/vespactl/app"
	"github.com/searchstack/vespactl/internal/logger"
)

func main() {
	cmd := app.NewVespactlCommand()
	err := cmd.Execute()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

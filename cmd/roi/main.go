// roi is the command-line companion of the automation ROI service.
//
// Usage:
//
//	roi calc --salary 5000 --hours 40 [--json]
//	roi interactive
//	roi estimate --url http://localhost:8080 "descrição do projeto"
package main

import (
	"fmt"
	"os"

	"github.com/boddenberg/automation-roi-go/internal/config"

	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	_ = config.LoadDotEnv(".env")
	cfg := config.Load()

	app := &cli.App{
		Name:    "roi",
		Usage:   "Automation ROI calculator and cost estimate client",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			calcCommand(cfg),
			interactiveCommand(cfg),
			estimateCommand(cfg),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

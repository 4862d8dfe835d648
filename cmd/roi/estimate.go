package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/boddenberg/automation-roi-go/internal/brl"
	"github.com/boddenberg/automation-roi-go/internal/config"
	"github.com/boddenberg/automation-roi-go/internal/domain"
	"github.com/boddenberg/automation-roi-go/internal/handler"

	"github.com/urfave/cli/v2"
)

func estimateCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "estimate",
		Usage:     "Ask a running API for a cost estimate",
		ArgsUsage: "<descrição>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Value:   fmt.Sprintf("http://localhost:%d", cfg.Port),
				Usage:   "Base URL of the API",
				EnvVars: []string{"ROI_API_URL"},
			},
		},
		Action: func(c *cli.Context) error {
			desc := strings.Join(c.Args().Slice(), " ")
			if desc == "" {
				return cli.Exit("informe a descrição do projeto", 2)
			}

			body, err := json.Marshal(domain.EstimateRequest{Description: desc})
			if err != nil {
				return err
			}
			req, err := http.NewRequestWithContext(c.Context, http.MethodPost,
				strings.TrimRight(c.String("url"), "/")+"/estimate", bytes.NewReader(body))
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", "application/json")

			client := &http.Client{Timeout: cfg.HTTPTimeout + 5*time.Second}
			resp, err := client.Do(req)
			if err != nil {
				return fmt.Errorf("call estimate API: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				var e struct {
					Error string `json:"error"`
				}
				_ = json.NewDecoder(resp.Body).Decode(&e)
				return fmt.Errorf("estimate API answered %d: %s", resp.StatusCode, e.Error)
			}

			var out domain.EstimateResponse
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
				return fmt.Errorf("decode estimate: %w", err)
			}
			fmt.Fprintf(c.App.Writer, "%s (%s)\n", brl.FormatInt(int64(out.Cost)), resp.Header.Get(handler.HeaderEstimateSource))
			return nil
		},
	}
}

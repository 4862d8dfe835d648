package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/boddenberg/automation-roi-go/internal/config"
	"github.com/boddenberg/automation-roi-go/internal/domain"
	"github.com/boddenberg/automation-roi-go/internal/presenter"

	"github.com/urfave/cli/v2"
)

func interactiveCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "interactive",
		Usage: "Terminal version of the calculator widget",
		Action: func(c *cli.Context) error {
			svc, err := newROIService(cfg, c.String("log-level"))
			if err != nil {
				return err
			}
			term := &terminal{w: c.App.Writer}
			widget := presenter.NewWidget(svc, term, cfg.ROIRevealDelay)
			return runInteractive(c, widget, term, c.App.Reader)
		},
	}
}

func runInteractive(c *cli.Context, widget *presenter.Widget, term *terminal, r io.Reader) error {
	fmt.Fprintln(term.w, "Informe: <salário mensal> <horas por mês>   (r = recalcular, q = sair)")
	scanner := bufio.NewScanner(r)
	for {
		fmt.Fprint(term.w, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "q", "quit", "sair":
			return nil
		case "r":
			widget.Reset()
			continue
		}

		fields := strings.Fields(line)
		for len(fields) < 2 {
			fields = append(fields, "")
		}
		// Validation problems were already shown through the surface.
		if _, err := widget.HandleKey(c.Context, presenter.KeyEnter, fields[0], fields[1]); err != nil {
			if c.Context.Err() != nil {
				return err
			}
		}
	}
}

// terminal renders the widget as plain text.
type terminal struct {
	w io.Writer
}

func (t *terminal) Alert(message string) { fmt.Fprintf(t.w, "! %s\n", message) }
func (t *terminal) ShowLoading()         { fmt.Fprintln(t.w, "Calculando...") }
func (t *terminal) HideLoading()         {}
func (t *terminal) ShowResults(v domain.ROIDisplay, c domain.ROIChart) {
	fmt.Fprintln(t.w)
	printReport(t.w, v, c)
	fmt.Fprintln(t.w)
}
func (t *terminal) HideResults() { fmt.Fprintln(t.w, "Resultados ocultados.") }
func (t *terminal) ClearInputs() { fmt.Fprintln(t.w, "Campos limpos.") }

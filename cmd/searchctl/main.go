// Command searchctl is a terminal search box against a running storefront.
// Every input line replaces the current search text; results are printed
// once the input settles.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/youta-t/flarc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	catalogapp "github.com/shanedle/cipher-cart/internal/catalog/app"
	"github.com/shanedle/cipher-cart/internal/catalog/domain"
	cataloghttp "github.com/shanedle/cipher-cart/internal/catalog/httpapi"
	"github.com/shanedle/cipher-cart/pkg/config"
	"github.com/shanedle/cipher-cart/pkg/logger"
	"github.com/shanedle/cipher-cart/pkg/shutdown"
)

type flags struct {
	API      string        `flag:"api" help:"storefront base url"`
	Debounce time.Duration `flag:"debounce" help:"delay after the last keystroke before searching"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{
		Service: "searchctl",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
		Format:  logger.FormatText,
		Output:  os.Stderr,
	})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	cmd, err := newCommand(cfg, log)
	if err != nil {
		log.Error("command setup failed", slog.Any("err", err))
		os.Exit(1)
	}
	os.Exit(flarc.Run(ctx, cmd))
}

func newCommand(cfg config.Config, log *slog.Logger) (flarc.Command, error) {
	return flarc.NewCommand(
		"Search the storefront catalog as you type.",
		flags{
			API:      fmt.Sprintf("http://localhost:%d", cfg.HTTPPort),
			Debounce: cfg.Catalog.SearchDebounce,
		},
		flarc.Args{},
		task(log),
	)
}

func task(log *slog.Logger) flarc.Task[flags] {
	return func(ctx context.Context, c flarc.Commandline[flags], _ []any) error {
		f := c.Flags()
		hc := &http.Client{Timeout: 5 * time.Second, Transport: otelhttp.NewTransport(http.DefaultTransport)}
		if err := run(ctx, c.Stdin(), c.Stdout(), remoteSearch(hc, f.API), f.Debounce); err != nil {
			log.Error("search failed", slog.Any("err", err))
			return err
		}
		return nil
	}
}

func run(ctx context.Context, in io.Reader, out io.Writer, search catalogapp.SearchFunc, delay time.Duration) error {
	s := catalogapp.NewSearcher(search, delay, func(r catalogapp.Result) {
		printResult(out, r)
	})
	defer s.Close()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			lines <- sc.Text()
		}
		scanErr <- sc.Err()
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-scanErr; err != nil {
					return err
				}
				return settle(ctx, s)
			}
			s.Input(line)
		}
	}
}

// settle waits for the last pending query before exit.
func settle(ctx context.Context, s *catalogapp.Searcher) error {
	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()
	for s.Loading() {
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
		}
	}
	return nil
}

func printResult(out io.Writer, r catalogapp.Result) {
	switch {
	case r.Err != nil:
		fmt.Fprintf(out, "search %q failed, showing no results\n", r.Term)
	case r.Term == "":
		fmt.Fprintln(out, "(cleared)")
	case len(r.Products) == 0:
		fmt.Fprintf(out, "no products match %q\n", r.Term)
	default:
		fmt.Fprintf(out, "%d result(s) for %q\n", len(r.Products), r.Term)
		for _, p := range r.Products {
			fmt.Fprintf(out, "  %-32s %8.2f\n", p.Name, p.EffectivePrice())
		}
	}
}

func remoteSearch(hc *http.Client, base string) catalogapp.SearchFunc {
	base = strings.TrimRight(base, "/")
	return func(ctx context.Context, term string) ([]domain.Product, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/api/search?q="+url.QueryEscape(term), nil)
		if err != nil {
			return nil, err
		}
		resp, err := hc.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("search: status %d", resp.StatusCode)
		}

		var body struct {
			Products []cataloghttp.Product `json:"products"`
			Error    string                `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("decode search: %w", err)
		}
		if body.Error != "" {
			return nil, fmt.Errorf("search: %s", body.Error)
		}

		out := make([]domain.Product, 0, len(body.Products))
		for _, p := range body.Products {
			out = append(out, domain.Product{
				ID:       p.ID,
				Name:     p.Name,
				Slug:     p.Slug,
				Price:    p.Price,
				Discount: p.Discount,
				Stock:    p.Stock,
			})
		}
		return out, nil
	}
}


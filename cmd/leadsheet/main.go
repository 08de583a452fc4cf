package main

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/leadsheet/internal/adapters/driving/cli"
	"github.com/custodia-labs/leadsheet/internal/app"
)

func main() {
	cli.SetBootstrap(func(ctx context.Context, configDir string) (*cli.Services, error) {
		a, err := app.Bootstrap(ctx, app.Options{ConfigDir: configDir})
		if err != nil {
			return nil, err
		}
		s := &cli.Services{
			Records:   a.Records,
			Activity:  a.Activity,
			Billing:   a.Billing,
			Settings:  a.Settings,
			Auth:      a.Auth,
			Scheduler: a.Scheduler,
			Close:     a.Close,
		}
		if a.Watcher != nil {
			s.Watcher = a.Watcher
		}
		return s, nil
	})

	err := cli.Execute(context.Background())
	cli.Shutdown()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

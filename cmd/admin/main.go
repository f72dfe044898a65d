// Command admin runs operator tasks against the service's stores.
//
//	admin export [-out DIR]
//	admin disable-user -email E
//	admin enable-user -email E
//	admin history [-n N]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codegrapher/graphers/internal/app"
	"github.com/codegrapher/graphers/internal/config"
	"github.com/codegrapher/graphers/pkg/logger"
)

var errUsage = errors.New("usage: admin <export|disable-user|enable-user|history> [flags]")

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, connect); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func connect(ctx context.Context) (*app.App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg)
}

type command struct {
	cmd   string
	out   string
	email string
	limit int
}

func parse(args []string) (*command, error) {
	if len(args) == 0 {
		return nil, errUsage
	}
	c := &command{cmd: args[0]}
	fs := flag.NewFlagSet(c.cmd, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	switch c.cmd {
	case "export":
		fs.StringVar(&c.out, "out", "", "directory for the report (default EXPORT_DIR)")
	case "disable-user", "enable-user":
		fs.StringVar(&c.email, "email", "", "account email")
	case "history":
		fs.IntVar(&c.limit, "n", 10, "number of runs to show")
	default:
		return nil, fmt.Errorf("unknown command %q: %w", c.cmd, errUsage)
	}
	if err := fs.Parse(args[1:]); err != nil {
		return nil, fmt.Errorf("%s: %w", c.cmd, err)
	}
	if (c.cmd == "disable-user" || c.cmd == "enable-user") && c.email == "" {
		return nil, fmt.Errorf("%s: -email is required", c.cmd)
	}
	return c, nil
}

func run(ctx context.Context, args []string, stdout io.Writer, open func(context.Context) (*app.App, error)) error {
	c, err := parse(args)
	if err != nil {
		return err
	}
	a, err := open(ctx)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	switch c.cmd {
	case "export":
		exp := *a.Exporter
		if c.out != "" {
			exp.Dir = c.out
		}
		if t := a.Config.Export.Timeout; t > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, t)
			defer cancel()
		}
		res, err := exp.Export(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "run %s: %d rows written to %s\n", res.RunID, res.Rows, res.Path)
		if res.ObjectKey != "" && a.Storage != nil {
			url, err := a.Storage.GetPresignedURL(ctx, res.ObjectKey, 24*time.Hour)
			if err != nil {
				logger.Warnf("presign %s: %v", res.ObjectKey, err)
			} else {
				fmt.Fprintf(stdout, "download: %s\n", url)
			}
		}
	case "disable-user":
		if err := a.Users.Disable(ctx, c.email); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "disabled %s\n", c.email)
	case "enable-user":
		if err := a.Users.Enable(ctx, c.email); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "enabled %s\n", c.email)
	case "history":
		if a.History == nil {
			return errors.New("report history is disabled (EXPORT_HISTORY=false)")
		}
		runs, err := a.History.Latest(ctx, c.limit)
		if err != nil {
			return err
		}
		for _, r := range runs {
			fmt.Fprintf(stdout, "%s  %-8s  %6d rows  %s  %s\n", r.StartedAt.Format(time.RFC3339), r.Status, r.Rows, r.RunID, r.Path)
		}
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/rohanthewiz/rline"
	"github.com/rohanthewiz/rline/consts"
	"github.com/rohanthewiz/serr"
	"github.com/urfave/cli/v3"
)

const defaultRequestTimeout = 10 * time.Second

// loadOptions reads the config file when one is given, then applies flag overrides.
func loadOptions(cmd *cli.Command) (rline.ServerOptions, error) {
	opts := rline.DefaultServerOptions()

	if path := cmd.String("config"); path != "" {
		var err error
		if opts, err = rline.LoadConfig(path); err != nil {
			return opts, err
		}
	}

	if addr := cmd.String("addr"); addr != "" {
		opts.Address = addr
	}
	if dir := cmd.String("static"); dir != "" {
		opts.StaticDir = dir
	}
	if cmd.Bool("verbose") {
		opts.Verbose = true
	}
	return opts, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}

	s := rline.NewServer(opts)
	if err = registerRoutes(s); err != nil {
		return serr.Wrap(err, "unable to register routes")
	}

	return s.Run(ctx)
}

func listRoutes(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}

	s := rline.NewServer(opts)
	if err = registerRoutes(s); err != nil {
		return serr.Wrap(err, "unable to register routes")
	}

	for _, route := range s.ListRoutes() {
		kind := "handler"
		if route.ErrorHandler {
			kind = "error-handler"
		}
		fmt.Printf("%-4s %-20s %-14s %s\n", route.Method, route.Path, kind, route.HandlerRef)
	}
	return nil
}

func request(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return serr.New("a selector is required")
	}

	line := cmd.Args().Get(0)
	if cmd.Args().Len() > 1 {
		line += string(consts.RuneTab) + strings.Join(cmd.Args().Slice()[1:], " ")
	}

	ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
	defer cancel()

	var dialer net.Dialer
	addr := cmd.String("addr")
	conn, err := dialer.DialContext(ctx, consts.ProtocolTCP, addr)
	if err != nil {
		return serr.Wrap(err, "unable to connect", "address", addr)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if _, err = io.WriteString(conn, line+consts.CRLF); err != nil {
		return serr.Wrap(err, "unable to send request", "address", addr)
	}

	if _, err = io.Copy(os.Stdout, conn); err != nil {
		return serr.Wrap(err, "unable to read response", "address", addr)
	}
	return nil
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/therealutkarshpriyadarshi/routerd/config"
	"github.com/therealutkarshpriyadarshi/routerd/internal/addr"
	"github.com/therealutkarshpriyadarshi/routerd/internal/driver"
	"github.com/therealutkarshpriyadarshi/routerd/internal/netiface"
	"github.com/therealutkarshpriyadarshi/routerd/internal/router"
)

// tickInterval is how often the host drives Tick and Route on every
// interface, per spec.md §5 ("time only advances via Tick").
const tickInterval = 100 * time.Millisecond

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "bring up the configured interfaces and forward IPv4 traffic",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*configPath)
		},
	}
}

func runServe(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	resolved, err := cfg.Resolve()
	if err != nil {
		return err
	}

	r := router.New(router.WithLogger(log))

	bridges := make([]*driver.Bridge, 0, len(resolved))
	byName := make(map[string]int, len(resolved))

	for _, ri := range resolved {
		iface := netiface.New(ri.MAC, ri.IP, netiface.WithLogger(log.WithField("iface", ri.Name)))
		idx := r.AddInterface(iface)
		byName[ri.Name] = idx

		bridge, err := driver.Open(ri.Name, iface, log)
		if err != nil {
			return err
		}
		bridges = append(bridges, bridge)
	}
	defer func() {
		for _, b := range bridges {
			b.Close()
		}
	}()

	for _, rc := range cfg.Routes {
		prefix, err := addr.Parse(rc.Prefix)
		if err != nil {
			return err
		}

		nextHop := addr.None()
		if rc.NextHop != "" {
			nh, err := addr.Parse(rc.NextHop)
			if err != nil {
				return err
			}
			nextHop = addr.Some(nh)
		}

		idx, ok := byName[rc.Interface]
		if !ok {
			log.WithField("iface", rc.Interface).Warn("routerd: route references unknown interface, skipping")
			continue
		}

		r.AddRoute(prefix, rc.PrefixLength, nextHop, idx)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	for _, b := range bridges {
		b := b
		go func() {
			if err := b.ReadPump(ctx); err != nil {
				log.WithError(err).Warn("routerd: read pump exited")
			}
		}()
	}

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			for i := 0; i < r.NumInterfaces(); i++ {
				r.Interface(i).Tick(tickInterval.Milliseconds())
			}
			r.Route()
			for _, b := range bridges {
				if err := b.DrainTX(); err != nil {
					log.WithError(err).Warn("routerd: drain TX failed")
				}
			}
		}
	}
}

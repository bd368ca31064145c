package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"

	"github.com/albertnadal/numbers-server/core"
)

// VERSION is populated via build flags when packaging official binaries.
var VERSION = "SELFBUILD"

func main() {
	app := cli.NewApp()
	app.Name = "numbersd"
	app.Usage = "TCP ingestion service that deduplicates a stream of 9-digit numbers"
	app.Version = VERSION
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "address",
			Value: defaultAddress,
			Usage: "bind address",
		},
		cli.IntFlag{
			Name:  "port",
			Value: defaultPort,
			Usage: "TCP port to listen on",
		},
		cli.IntFlag{
			Name:  "max-connections",
			Value: defaultMaxConnections,
			Usage: "hard cap on simultaneous live connections",
		},
		cli.StringFlag{
			Name:  "log-file",
			Value: defaultLogFilename,
			Usage: "path of the persisted-log file, truncated on startup",
		},
		cli.IntFlag{
			Name:  "report-period",
			Value: defaultReportPeriod,
			Usage: "seconds between reports",
		},
		cli.StringFlag{
			Name:  "c",
			Value: "",
			Usage: "config from json file, overrides the flags above",
		},
	}
	app.Action = runServer

	if err := app.Run(os.Args); err != nil {
		log.Printf("%+v", err)
		os.Exit(1)
	}
}

func runServer(c *cli.Context) error {
	cfg := defaultConfig()
	cfg.Address = c.String("address")
	cfg.Port = c.Int("port")
	cfg.MaxConnections = c.Int("max-connections")
	cfg.LogFilename = c.String("log-file")
	cfg.ReportPeriod = c.Int("report-period")

	if path := c.String("c"); path != "" {
		if err := parseJSONConfig(&cfg, path); err != nil {
			return errors.Wrap(err, "load config")
		}
	}

	log.Println("address:", cfg.Address)
	log.Println("port:", cfg.Port)
	log.Println("max connections:", cfg.MaxConnections)
	log.Println("log file:", cfg.LogFilename)
	log.Println("report period (s):", cfg.ReportPeriod)

	return serve(cfg)
}

// serve binds the configured listener and runs the Lifecycle Controller.
func serve(cfg Config) error {
	listener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.Address, cfg.Port))
	if err != nil {
		return errors.Wrap(err, "bind listener")
	}
	return serveOn(cfg, listener)
}

// serveOn is the Lifecycle Controller proper, parameterized on an
// already-bound listener so tests can bind an ephemeral port instead of
// parsing cfg.Address/cfg.Port into a dial string.
func serveOn(cfg Config, listener net.Listener) error {
	logFile, err := os.OpenFile(cfg.LogFilename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		listener.Close()
		return errors.Wrap(err, "open log file")
	}
	defer logFile.Close()

	engine := core.NewEngine()
	reporter := core.NewReporter(engine, time.Duration(cfg.ReportPeriod)*time.Second, os.Stdout, logFile)
	table := newConnTable(cfg.MaxConnections)

	if err := reporter.Fire(); err != nil {
		return errors.Wrap(err, "initial report")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reporterDone := make(chan struct{})
	var shutdownOnce sync.Once
	shutdown := func() {
		shutdownOnce.Do(func() {
			log.Println("shutting down")
			listener.Close()
			close(reporterDone)
			if err := table.closeAll(); err != nil {
				log.Printf("closing connections: %+v", err)
			}
			stop() // unblocks the ctx.Done() watcher below for non-signal shutdowns
		})
	}

	group, _ := errgroup.WithContext(ctx)
	group.Go(func() error {
		<-ctx.Done()
		shutdown()
		return nil
	})
	group.Go(func() error {
		reporter.Run(reporterDone, func(err error) {
			// An I/O error flushing the log is fatal — shut the whole
			// server down rather than let the report cadence silently
			// desync from the persisted log.
			log.Printf("report failed: %+v", err)
			shutdown()
		})
		return nil
	})
	group.Go(func() error {
		acceptLoop(listener, table, engine, shutdown)
		return nil
	})

	return group.Wait()
}

// acceptLoop is the Admission Controller: over-cap peers are accepted at
// the TCP level and immediately closed without being read from or
// written to; admitted peers get a Connection Worker.
func acceptLoop(listener net.Listener, table *connTable, engine *core.Engine, requestShutdown func()) {
	for {
		conn, err := listener.Accept()
		if err != nil {
			// Expected once the listener is closed during shutdown.
			return
		}

		id, ok := table.admit(conn)
		if !ok {
			conn.Close()
			continue
		}

		w := &worker{
			id:              id,
			conn:            conn,
			engine:          engine,
			table:           table,
			requestShutdown: requestShutdown,
		}
		go w.run()
	}
}

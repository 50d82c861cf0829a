//
// Copyright: (C) 2026 Nestybox Inc.  All rights reserved.
//

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/pkg/profile"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/nestybox/memfault/config"
	"github.com/nestybox/memfault/domain"
	"github.com/nestybox/memfault/injector"
	"github.com/nestybox/memfault/interceptor"
	"github.com/nestybox/memfault/metrics"
	"github.com/nestybox/memfault/state"
	"github.com/nestybox/memfault/transfer"
)

const (
	usage = `memfault fault injector

memfault impersonates the memory-copy entry points of the CUDA and VE offload
runtimes and makes a configured call of each one fail, so that the error
paths of the code depending on them can be exercised.
`
)

// Globals to be populated at build time during Makefile processing.
var (
	version  string // extracted from VERSION file
	commitId string // latest git commit-id
	builtAt  string // build time
	builtBy  string // build owner
)

// Trigger override flags, keyed by the entry point they apply to.
var triggerFlags = map[string]string{
	domain.CudaMemcpy:  "cuda-memcpy-trigger",
	domain.VeoReadMem:  "veo-read-trigger",
	domain.VeoWriteMem: "veo-write-trigger",
}

// Services wired together for every command.
type services struct {
	cfg *config.Config
	reg *prometheus.Registry
	ijs domain.InjectorServiceIface
	jrs domain.JournalServiceIface
	drs domain.DeviceRuntimeIface
	rms domain.RemoteMemoryIface
	trs domain.TransferServiceIface
}

var (
	svc      *services
	profiler interface{ Stop() }
)

//
// memfault main function
//
func main() {

	app := cli.NewApp()
	app.Name = "memfault"
	app.Usage = usage
	app.Version = version

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "config, c",
			Usage:  "yaml configuration file",
			EnvVar: config.EnvVar,
		},
		cli.StringFlag{
			Name:  "log",
			Usage: "log file path (overrides config file)",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "log categories to include (debug, info, warning, error, fatal)",
		},
		cli.Int64Flag{
			Name:  triggerFlags[domain.CudaMemcpy],
			Usage: "0-based call count at which cudaMemcpy faults",
		},
		cli.Int64Flag{
			Name:  triggerFlags[domain.VeoReadMem],
			Usage: "0-based call count at which veo_read_mem faults",
		},
		cli.Int64Flag{
			Name:  triggerFlags[domain.VeoWriteMem],
			Usage: "0-based call count at which veo_write_mem faults",
		},
		cli.StringFlag{
			Name:  "metrics-file",
			Usage: "write prometheus metrics to this file upon exit",
		},
		cli.StringFlag{
			Name:  "profile",
			Usage: "enable profiling (cpu, mem, block)",
		},
	}

	// show-version specialization.
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Printf("memfault\n"+
			"\tversion: \t%s\n"+
			"\tcommit: \t%s\n"+
			"\tbuilt at: \t%s\n"+
			"\tbuilt by: \t%s\n",
			c.App.Version, commitId, builtAt, builtBy)
	}

	app.Commands = []cli.Command{
		{
			Name:      "call",
			Usage:     "Invoke an intercepted entry point and report each outcome",
			ArgsUsage: "<entry-point>",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "times, n",
					Value: 1,
					Usage: "number of calls to issue",
				},
			},
			Action: callCmd,
		},
		{
			Name:  "transfer",
			Usage: "Transfer a buffer across devices through the intercepted runtimes",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "from",
					Value: "ve",
					Usage: "source device (host, gpu, ve)",
				},
				cli.StringFlag{
					Name:  "to",
					Value: "gpu",
					Usage: "target device (host, gpu, ve)",
				},
				cli.Uint64Flag{
					Name:  "size",
					Value: 80,
					Usage: "buffer size in bytes",
				},
			},
			Action: transferCmd,
		},
		{
			Name:   "status",
			Usage:  "Show registered entry points and their counters",
			Action: statusCmd,
		},
	}

	// Load configuration, define 'log' settings and instantiate services.
	app.Before = func(ctx *cli.Context) error {

		cfg := config.Default()
		if path := ctx.GlobalString("config"); path != "" {
			var err error
			if cfg, err = config.Load(path); err != nil {
				return errors.Wrap(err, "error loading configuration")
			}
		}

		for name, flag := range triggerFlags {
			if ctx.GlobalIsSet(flag) {
				cfg.SetTrigger(name, ctx.GlobalInt64(flag))
			}
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		if path := ctx.GlobalString("log"); path != "" {
			cfg.Log.File = path
		}
		if level := ctx.GlobalString("log-level"); level != "" {
			cfg.Log.Level = level
		}
		if err := setupLogging(cfg.Log); err != nil {
			return err
		}

		if mode := ctx.GlobalString("profile"); mode != "" {
			var err error
			if profiler, err = startProfiler(mode); err != nil {
				return err
			}
		}

		var err error
		if svc, err = newServices(cfg); err != nil {
			return err
		}

		return nil
	}

	app.After = func(ctx *cli.Context) error {

		if profiler != nil {
			profiler.Stop()
		}

		if path := ctx.GlobalString("metrics-file"); path != "" && svc != nil {
			if err := prometheus.WriteToTextfile(path, svc.reg); err != nil {
				logrus.Errorf("Could not write metrics to %v: %v", path, err)
				return err
			}
		}

		return nil
	}

	if err := app.Run(os.Args); err != nil {
		logrus.Fatalf("%v. Exiting ...", err)
	}
}

func setupLogging(lc config.LogConfig) error {

	// Create/set the log-file destination.
	if path := lc.File; path != "" {
		f, err := os.OpenFile(
			path,
			os.O_CREATE|os.O_WRONLY|os.O_APPEND|os.O_SYNC,
			0666,
		)
		if err != nil {
			return errors.Wrapf(err, "error opening log file %v", path)
		}

		// Set a proper logging formatter.
		logrus.SetFormatter(&logrus.TextFormatter{
			ForceColors:     true,
			TimestampFormat: "2006-01-02 15:04:05",
			FullTimestamp:   true,
		})
		logrus.SetOutput(f)
		log.SetOutput(f)
	}

	// Set desired log-level.
	switch lc.Level {
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "info", "":
		logrus.SetLevel(logrus.InfoLevel)
	case "warning":
		logrus.SetLevel(logrus.WarnLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	case "fatal":
		logrus.SetLevel(logrus.FatalLevel)
	default:
		return errors.Newf("log-level option '%v' not recognized", lc.Level)
	}

	return nil
}

func startProfiler(mode string) (interface{ Stop() }, error) {

	var opt func(*profile.Profile)

	switch mode {
	case "cpu":
		opt = profile.CPUProfile
	case "mem":
		opt = profile.MemProfile
	case "block":
		opt = profile.BlockProfile
	default:
		return nil, errors.Newf("profile option '%v' not recognized", mode)
	}

	return profile.Start(opt, profile.ProfilePath("."), profile.NoShutdownHook), nil
}

func newServices(cfg *config.Config) (*services, error) {

	var reg = prometheus.NewRegistry()

	var injectorService = injector.NewInjectorService(
		injector.DefaultEntryPoints(),
		metrics.NewMetrics(reg),
	)
	if err := cfg.Apply(injectorService); err != nil {
		return nil, err
	}

	var journalService = state.NewJournalService()

	var cudaRuntime = interceptor.NewCudaRuntime(injectorService, journalService, nil)

	var veoRuntime = interceptor.NewVeoRuntime(injectorService, journalService, nil)

	var transferService = transfer.NewTransferService(cudaRuntime, veoRuntime)

	return &services{
		cfg: cfg,
		reg: reg,
		ijs: injectorService,
		jrs: journalService,
		drs: cudaRuntime,
		rms: veoRuntime,
		trs: transferService,
	}, nil
}

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/livekit/protocol/logger"

	"github.com/livekit/rtprx/pkg/config"
	"github.com/livekit/rtprx/pkg/service"
	"github.com/livekit/rtprx/version"
)

var baseFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "bind",
		Usage: "IP address to receive RTP on",
	},
	&cli.UintFlag{
		Name:    "port",
		Usage:   "UDP port to receive RTP on",
		EnvVars: []string{"RTPRX_PORT"},
	},
	&cli.StringFlag{
		Name:  "config",
		Usage: "path to rtprx config file",
	},
	&cli.StringFlag{
		Name:    "config-body",
		Usage:   "rtprx config in YAML, typically passed in as an environment var in a container",
		EnvVars: []string{"RTPRX_CONFIG"},
	},
	&cli.BoolFlag{
		Name:  "dev",
		Usage: "sets log-level to debug",
	},
	&cli.BoolFlag{
		Name:   "disable-strict-config",
		Usage:  "disables strict config parsing",
		Hidden: true,
	},
}

func main() {
	generatedFlags, err := config.GenerateCLIFlags(baseFlags, true)
	if err != nil {
		fmt.Println(err)
	}

	app := &cli.App{
		Name:        "rtprx",
		Usage:       "RTP receive session",
		Description: "run without subcommands to start receiving",
		Flags:       append(baseFlags, generatedFlags...),
		Action:      startServer,
		Commands: []*cli.Command{
			{
				Name:   "print-config",
				Usage:  "print the effective configuration",
				Action: printConfig,
			},
			{
				Name:   "help-verbose",
				Usage:  "prints app help, including all generated configuration flags",
				Action: helpVerbose,
			},
		},
		Version: version.Version,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Println(err)
	}
}

func getConfig(c *cli.Context) (*config.Config, error) {
	confString, err := getConfigString(c.String("config"), c.String("config-body"))
	if err != nil {
		return nil, err
	}

	strictMode := !c.Bool("disable-strict-config")
	conf, err := config.NewConfig(confString, strictMode, c, baseFlags)
	if err != nil {
		return nil, err
	}
	config.InitLoggerFromConfig(&conf.Logging)
	return conf, nil
}

func startServer(c *cli.Context) error {
	conf, err := getConfig(c)
	if err != nil {
		return err
	}

	server, err := service.InitializeServer(conf)
	if err != nil {
		return errors.Wrap(err, "initialize server")
	}
	if err := server.Start(); err != nil {
		return errors.Wrap(err, "start server")
	}
	logger.Infow("receiving rtp", "addr", server.LocalAddr().String(), "version", version.Version)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	sig := <-sigChan
	logger.Infow("exit requested, shutting down", "signal", sig)
	server.Stop()

	if err := printCounters(os.Stdout, server); err != nil {
		return err
	}
	if conf.StatsFile != "" {
		if err := writeStatsFile(conf.StatsFile, server); err != nil {
			return errors.Wrap(err, "write stats file")
		}
	}
	return nil
}

func getConfigString(configFile string, inConfigBody string) (string, error) {
	if inConfigBody != "" || configFile == "" {
		return inConfigBody, nil
	}

	path, err := homedir.Expand(configFile)
	if err != nil {
		return "", err
	}
	outConfigBody, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return string(outConfigBody), nil
}

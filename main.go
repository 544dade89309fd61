package main

import (
	"os"
	"os/signal"
	"syscall"

	c "github.com/mproffitt/dembed/pkg/config"
	h "github.com/mproffitt/dembed/pkg/handler"
	n "github.com/mproffitt/dembed/pkg/notification"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const notificationIcon = "icon/default.png"

func newRootCommand() *cobra.Command {
	var (
		filename string
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "dembed <directory> [poll_rate]",
		Short: "Generate embeddable html files for new images in a directory",
		Long: `dembed watches a directory and, every poll_rate seconds (default 1), checks
for newly added images. For each new image an html file with the same name
is rendered from templates/main.tmpl using the variables in templates/main.json.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := c.New(filename)
			if err != nil {
				return err
			}
			if logLevel != "" {
				config.SetLogLevel(logLevel)
			}
			cmd.SilenceUsage = true
			return run(config, args)
		},
	}

	cmd.Flags().StringVar(&filename, "config", "", "Path to a YAML settings file")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	return cmd
}

func run(config *c.Config, args []string) error {
	var rate string
	if len(args) > 1 {
		rate = args[1]
	}
	interval, ok := c.ParsePollRate(rate)
	if !ok {
		log.Warn("No or invalid poll_rate provided, setting poll rate to 1 second.")
	}

	vars, err := config.LoadVariables()
	if err != nil {
		return err
	}

	var notifier n.Notifier = n.Discard{}
	if config.Notify {
		notifier = n.NewDesktop(notificationIcon)
	}

	watchdog, err := h.New(config.NewWatch(args[0], interval, vars), config, notifier)
	if err != nil {
		return err
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigc)
	go func() {
		for range sigc {
			log.Info("Shutting down watchdog")
			watchdog.Stop()
		}
	}()

	return watchdog.Run()
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Fatal(err)
	}
}

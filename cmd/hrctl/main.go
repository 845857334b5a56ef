// Command hrctl is the terminal client of the HR portal.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"hrportal/internal/apiclient"
	"hrportal/internal/config"
	"hrportal/internal/session"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

func main() {
	cfg, err := config.ParseConfig()
	if err != nil {
		logrus.WithError(err).Error("Failed to parse config")
		os.Exit(1)
	}

	global := pflag.NewFlagSet("hrctl", pflag.ContinueOnError)
	global.SetInterspersed(false)
	global.StringVar(&cfg.APIBaseURL, "api-base", cfg.APIBaseURL, "remote API base URL")
	global.StringVar(&cfg.SessionFile, "session-file", cfg.SessionFile, "where the login token is kept")
	global.StringVar(&cfg.LogLevel, "log-level", "warn", "log level")
	if err := global.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.WarnLevel
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stderr)

	client, err := apiclient.New(cfg.APIBase(), cfg.APITimeout)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise api client")
		os.Exit(1)
	}
	store, err := session.NewFileStore(cfg.SessionFile)
	if err != nil {
		logrus.WithError(err).Error("failed to open session file")
		os.Exit(1)
	}

	a, err := newApp(cfg, client, store, surveyPrompter{}, os.Stdout)
	if err != nil {
		logrus.WithError(err).Error("failed to initialise hrctl")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := a.run(ctx, global.Args()); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			os.Exit(130)
		}
		if !errors.Is(err, errFailed) {
			logrus.WithError(err).Error("hrctl failed")
		}
		stop()
		os.Exit(1)
	}
}

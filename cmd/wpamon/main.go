package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mbrandt/tplink-wpa-monitor/internal/config"
	"github.com/mbrandt/tplink-wpa-monitor/internal/metrics"
	"github.com/mbrandt/tplink-wpa-monitor/internal/status"
)

var (
	Version = "dev" // Set by build process
)

var (
	configFile  = flag.String("config", "config.yaml", "Path to configuration file")
	logLevel    = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	showVersion = flag.Bool("version", false, "Show version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("TP-Link WPA Monitor %s\n", Version)
		os.Exit(0)
	}

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	switch *logLevel {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "info":
		logger.SetLevel(logrus.InfoLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}

	logger.Infof("Starting TP-Link WPA Monitor %s", Version)

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	dispatcher := status.NewDispatcher()
	aggregator := status.NewAggregator(cfg.IPAddress, cfg.Password, logger, dispatcher)
	aggregator.SetCycleTimeout(time.Duration(cfg.CycleTimeout) * time.Second)
	aggregator.SetRegistryFunc(func(info status.DeviceInfo) error {
		logger.Infof("Device identity: model=%s fw=%s hw=%s radios=%v",
			info.Model, info.FirmwareVersion, info.HardwareVersion, info.RadioMACs)
		return nil
	})

	monitor := status.NewMonitor(aggregator,
		time.Duration(cfg.PollInterval)*time.Second, cfg.TopN, logger)

	updates, unsubscribe := dispatcher.Subscribe(cfg.IPAddress)
	defer unsubscribe()
	go consumeUpdates(aggregator, monitor, updates, logger)

	monitor.Start()

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	logger.Info("Shutting down...")
	monitor.Stop()
}

// consumeUpdates recomputes the derived metrics on every published
// snapshot and logs them. A host platform would render these as entities;
// the standalone daemon just makes them visible.
func consumeUpdates(agg *status.Aggregator, mon *status.Monitor, updates <-chan struct{}, logger *logrus.Logger) {
	for range updates {
		snap := agg.Slot().Last()
		if snap == nil {
			continue
		}

		registry := metrics.Registry(mon.TopN())
		names := make([]string, 0, len(registry))
		for name := range registry {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			v := registry[name](snap)
			if v.State == nil {
				logger.Infof("metric %s: no value", name)
				continue
			}
			logger.Infof("metric %s: %v", name, v.State)
		}
	}
}

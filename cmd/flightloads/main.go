package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chrissnell/flightloads/internal/app"
	"github.com/chrissnell/flightloads/internal/constants"
	"github.com/chrissnell/flightloads/internal/log"
	"github.com/chrissnell/flightloads/pkg/config"
)

func main() {
	cfgFile := flag.String("config", "", "Path to configuration source:\n\t\t\t  YAML: flightloads.yaml\n\t\t\t  SQLite: flightloads.db\n\t\t\t  Defaults are used when empty")
	cfgBackend := flag.String("config-backend", "", "Configuration backend type: 'yaml' or 'sqlite'; inferred from the file extension when empty")
	input := flag.String("input", "", "Flight file or directory of flight files (overrides input.path)")
	outDir := flag.String("out", "", "Report output directory (overrides output.dir)")
	serve := flag.Bool("serve", false, "Serve the REST API instead of running a batch")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("flightloads %s\n", constants.Version)
		os.Exit(0)
	}

	// Set up logging
	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Load configuration
	cfgData, err := loadConfig(*cfgFile, *cfgBackend)
	if err != nil {
		log.Errorf("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	if *input != "" {
		cfgData.Input.Path = *input
	}
	if *outDir != "" {
		cfgData.Output.Dir = *outDir
	}

	application := app.New(cfgData, log.GetSugaredLogger())

	if *serve {
		if err := application.Run(context.Background()); err != nil {
			log.Errorf("Application error: %v", err)
			os.Exit(1)
		}
		return
	}

	if cfgData.Input.Path == "" {
		log.Error("no input given; pass -input or set input.path")
		os.Exit(1)
	}
	summary, err := application.Analyze(context.Background(), cfgData.Input.Path)
	if err != nil {
		log.Errorf("Analysis failed: %v", err)
		os.Exit(1)
	}
	if err := summary.Errors(); err != nil {
		log.Warnf("%d of %d flights failed:\n%v", summary.Failed, len(summary.Flights), err)
		os.Exit(2)
	}
	log.Infow("batch complete",
		"analyzed", summary.Analyzed,
		"discarded", summary.Discarded,
		"total_damage", summary.TotalDamage,
		"damage_incomplete", summary.DamageIncomplete)
}

func loadConfig(cfgFile, cfgBackend string) (*config.ConfigData, error) {
	if cfgFile == "" {
		return config.DefaultConfigData(), nil
	}
	filename, _ := filepath.Abs(cfgFile)

	var provider config.ConfigProvider
	var err error

	switch cfgBackend {
	case "":
		provider, err = config.Open(filename)
	case "yaml":
		provider = config.NewYAMLProvider(filename)
	case "sqlite":
		provider, err = config.NewSQLiteProvider(filename)
	default:
		return nil, fmt.Errorf("unsupported configuration backend: %s. Use 'yaml' or 'sqlite'", cfgBackend)
	}
	if err != nil {
		return nil, fmt.Errorf("error creating %s provider: %w", cfgBackend, err)
	}
	defer provider.Close()

	cfgData, err := provider.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error reading config file. Did you pass the -config flag? Run with -h for help: %w", err)
	}
	if err := cfgData.Validate(); err != nil {
		return nil, err
	}

	return cfgData, nil
}

// Command crossmatch runs the island-level Bayesian cross-identification of
// two source catalogues: it loads the run manifest, resolves every island,
// persists the results and writes post-run diagnostics.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"github.com/quasar-data/crossmatch/internal/config"
	"github.com/quasar-data/crossmatch/internal/pairing"
	"github.com/quasar-data/crossmatch/internal/pairing/monitor"
	"github.com/quasar-data/crossmatch/internal/pairing/storage/sqlite"
	"github.com/quasar-data/crossmatch/internal/version"
)

var (
	configPath  = flag.String("config", "", "JSON run configuration file")
	inputsPath  = flag.String("inputs", "", "JSON inputs manifest (required)")
	workers     = flag.Int("workers", 0, "Worker pool size (overrides config)")
	resultsDB   = flag.String("db", "", "SQLite results database path (overrides config)")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		log.Printf("crossmatch %s", version.String())
		return
	}

	if *inputsPath == "" {
		log.Fatal("Inputs manifest is required (-inputs)")
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg.Merge(loaded)
	}
	if *workers > 0 {
		cfg.NumWorkers = workers
	}
	if *resultsDB != "" {
		cfg.ResultsDB = resultsDB
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	useMmap := cfg.UseMemmap != nil && *cfg.UseMemmap
	in, closeInputs, err := loadInputs(*inputsPath,
		config.GetString(cfg.CatalogAPath), config.GetString(cfg.CatalogBPath), useMmap)
	if err != nil {
		log.Fatalf("Failed to load inputs: %v", err)
	}
	defer closeInputs()

	opts := pairing.OptionsFromConfig(cfg)
	if opts.UsePhotometry {
		phot, err := loadPhotLike(config.GetString(cfg.PhotLikePath))
		if err != nil {
			log.Fatalf("Failed to load photometric likelihoods: %v", err)
		}
		in.Phot = phot
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	res, err := pairing.PairSources(ctx, in, opts)
	if err != nil {
		log.Fatalf("Pairing failed: %v", err)
	}
	elapsed := time.Since(start)

	if dbPath := config.GetString(cfg.ResultsDB); dbPath != "" {
		if err := persistResults(dbPath, cfg, res, elapsed); err != nil {
			log.Fatalf("Failed to persist results: %v", err)
		}
	}
	if plotDir := config.GetString(cfg.PlotDir); plotDir != "" {
		p, err := monitor.NewPlotter(plotDir)
		if err != nil {
			log.Fatalf("Failed to create plotter: %v", err)
		}
		count, err := p.GeneratePlots(res)
		if err != nil {
			log.Fatalf("Failed to generate plots: %v", err)
		}
		log.Printf("Wrote %d diagnostic plots to %s", count, plotDir)
	}
	if reportPath := config.GetString(cfg.ReportPath); reportPath != "" {
		if err := monitor.WriteReportFile(reportPath, in, res); err != nil {
			log.Fatalf("Failed to write report: %v", err)
		}
		log.Printf("Wrote match report to %s", reportPath)
	}
}

func persistResults(dbPath string, cfg *config.RunConfig, res *pairing.Results, elapsed time.Duration) error {
	store, err := sqlite.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	run := &sqlite.Run{
		ConfigJSON:   cfgJSON,
		PairCount:    len(res.AC),
		AFieldCount:  len(res.AField),
		BFieldCount:  len(res.BField),
		WarningCount: len(res.Warnings),
		ElapsedMs:    elapsed.Milliseconds(),
	}
	if err := store.InsertRun(run); err != nil {
		return err
	}
	if err := store.SaveResults(run.RunID, res); err != nil {
		return err
	}
	log.Printf("Persisted run %s: %d pairs, %d/%d field sources", run.RunID,
		run.PairCount, run.AFieldCount, run.BFieldCount)
	return nil
}

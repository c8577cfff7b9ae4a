package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"walletwatch/pkg/config"
	"walletwatch/pkg/metrics"
	"walletwatch/pkg/models"
	"walletwatch/pkg/provider"
	"walletwatch/pkg/server"
	"walletwatch/pkg/tui"
	"walletwatch/pkg/watcher"
)

// Version should be set during build
var Version = "dev"

func main() {
	testFlag := flag.Bool("t", false, "Test configuration and exit")
	testLongFlag := flag.Bool("test", false, "Test configuration and exit")
	jsonFlag := flag.Bool("json", false, "Output test results as JSON")
	configFlag := flag.String("config", "", "Path to configuration file")
	addrFlag := flag.String("addr", "", "Listen address (overrides config)")
	tuiFlag := flag.Bool("tui", false, "Run the terminal dashboard alongside the server")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("walletwatch version %s\n", Version)
		os.Exit(0)
	}

	cfgInput := *configFlag
	if cfgInput == "" && len(flag.Args()) > 0 {
		cfgInput = flag.Args()[0]
	}
	path, err := config.GetConfigPath(cfgInput)
	if err != nil {
		fmt.Printf("Error determining config path: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadFromFile(path)
	if err != nil {
		fmt.Printf("Error loading config from %s: %v\n", path, err)
		os.Exit(1)
	}

	if *testFlag || *testLongFlag {
		report := runConfigTest(cfg, path, *jsonFlag)
		if *jsonFlag {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			_ = enc.Encode(report)
		}
		if !report.ValidStructure {
			os.Exit(1)
		}
		os.Exit(0)
	}

	if errs := config.Validate(cfg); len(errs) > 0 {
		for _, e := range errs {
			fmt.Printf("Config error: %s\n", e)
		}
		os.Exit(1)
	}

	listen := cfg.ListenAddress
	if *addrFlag != "" {
		listen = *addrFlag
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	w := watcher.NewWatcher(config.ModelCoins(cfg), cfg.RefreshInterval, cfg.FetchTimeout, m)
	w.Start(context.Background())

	srv := server.NewServer(w)
	if *tuiFlag {
		go func() {
			if err := srv.Start(listen); err != nil {
				fmt.Printf("Server error: %v\n", err)
			}
		}()
		tui.Start(w, Version)
		return
	}

	if err := srv.Start(listen); err != nil {
		fmt.Printf("Server error: %v\n", err)
		os.Exit(1)
	}
}

// runConfigTest validates the configuration structure and, when it is
// sound, probes each coin's provider once using its first address.
func runConfigTest(cfg *config.Config, path string, jsonOut bool) models.TestReport {
	report := models.TestReport{ConfigPath: path, ValidStructure: true}

	if !jsonOut {
		fmt.Printf("Testing configuration at: %s\n", path)
	}

	if errs := config.Validate(cfg); len(errs) > 0 {
		report.ValidStructure = false
		report.StructureErrors = errs
		if !jsonOut {
			for _, e := range errs {
				fmt.Printf("Error: %s\n", e)
			}
		}
		return report
	}

	coins := config.ModelCoins(cfg)
	report.CoinCount = len(coins)
	for _, c := range coins {
		report.AddressCount += len(c.Addresses)
	}
	if !jsonOut {
		fmt.Printf("Found %d coins and %d addresses.\n", report.CoinCount, report.AddressCount)
	}

	for _, coin := range coins {
		result := models.CoinResult{
			Name:    coin.Name,
			Ticker:  coin.Ticker,
			API:     coin.API,
			Address: coin.Addresses[0].Address,
		}
		if !jsonOut {
			fmt.Printf("Testing %s (%s) via %s ... ", coin.Name, coin.Ticker, coin.API)
		}

		adapter := provider.ForCoin(coin, cfg.FetchTimeout)
		ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout)
		_, err := adapter.Fetch(ctx, coin.Ticker, coin.Addresses[0].Address)
		cancel()

		if err != nil {
			result.Status = "error"
			result.Error = err.Error()
			if !jsonOut {
				fmt.Printf("Failed: %v\n", err)
			}
		} else {
			result.Status = "ok"
			if !jsonOut {
				fmt.Println("OK")
			}
		}
		report.Coins = append(report.Coins, result)
	}

	return report
}

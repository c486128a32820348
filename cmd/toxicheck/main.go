package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"toxicheck/internal/assemble"
	"toxicheck/internal/classify"
	"toxicheck/internal/cmdlog"
	"toxicheck/internal/config"
	"toxicheck/internal/exa"
	"toxicheck/internal/logging"
	"toxicheck/internal/metrics"
	"toxicheck/internal/store"
	"toxicheck/internal/theme"
)

func main() {
	_ = godotenv.Load()
	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	switch cmd {
	case "init":
		cmdInit()
	case "analyze":
		cmdAnalyze()
	case "serve":
		cmdServe()
	default:
		printHelp()
	}
}

func printHelp() {
	theme.PrintBanner()
	fmt.Println("Usage: toxicheck <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  init        Create a config file at ./toxicheck.yaml")
	fmt.Println("  analyze     Analyze one username and print the verdict")
	fmt.Println("  serve       Serve the analysis API over HTTP")
}

func cmdInit() {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	path := fs.String("path", "./toxicheck.yaml", "path to write config")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run("init", func() error {
		return config.Save(*path, config.Default())
	})
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	abs, _ := filepath.Abs(*path)
	theme.PrintBanner()
	fmt.Println("Config written to:", abs)
}

func cmdAnalyze() {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	cfgPath := fs.String("config", "./toxicheck.yaml", "config path")
	user := fs.String("user", "", "username to analyze")
	noCache := fs.Bool("no-cache", false, "skip the verdict cache")
	_ = fs.Parse(os.Args[2:])
	if *user == "" {
		fmt.Println("error: -user is required")
		os.Exit(2)
	}
	err := cmdlog.Run("analyze", func() error {
		cfg := loadConfig(*cfgPath)
		analyzer, closer, err := buildAnalyzer(cfg, !*noCache)
		if err != nil {
			return err
		}
		defer closer()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		res, err := analyzer.Analyze(ctx, *user)
		if err != nil {
			return err
		}
		out, _ := json.MarshalIndent(res, "", "  ")
		fmt.Println(string(out))
		return nil
	})
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func cmdServe() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "./toxicheck.yaml", "config path")
	addr := fs.String("addr", "", "listen address (overrides config)")
	_ = fs.Parse(os.Args[2:])
	err := cmdlog.Run("serve", func() error {
		cfg := loadConfig(*cfgPath)
		if *addr != "" {
			cfg.Server.Addr = *addr
		}
		analyzer, closer, err := buildAnalyzer(cfg, true)
		if err != nil {
			return err
		}
		defer closer()
		metrics.StartServer(cfg.Server.MetricsAddr)
		theme.PrintBanner()
		logging.Info("serve_start", map[string]any{"addr": cfg.Server.Addr})
		return http.ListenAndServe(cfg.Server.Addr, newMux(analyzer))
	})
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

// loadConfig falls back to defaults (plus env credentials) when the config
// file is absent, so `analyze` works with nothing but env vars set.
func loadConfig(path string) config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		cfg = config.Default()
		cfg.ResolveEnv()
	}
	return cfg
}

func buildAnalyzer(cfg config.Config, useCache bool) (*assemble.Analyzer, func(), error) {
	if cfg.Credentials.ExaAPIKey == "" {
		fmt.Println("warning: missing EXA_API_KEY; content fetches will fail")
	}
	if cfg.Credentials.GeminiAPIKey == "" {
		fmt.Println("warning: missing GEMINI_API_KEY; classification will fail")
	}
	content := exa.NewClient(cfg.Credentials.ExaAPIKey, cfg.Provider.BaseURL)
	fetcher := assemble.NewFetcher(content, cfg.Provider)
	classifier := classify.NewClient(cfg.Credentials.GeminiAPIKey, cfg.Classify.Model, cfg.Classify.Temperature)

	var cache assemble.VerdictCache
	closer := func() {}
	if useCache && cfg.Cache.DBPath != "" {
		db, err := store.Open(cfg.Cache.DBPath, time.Duration(cfg.Cache.TTLHours)*time.Hour)
		if err != nil {
			return nil, nil, fmt.Errorf("open cache: %w", err)
		}
		cache = db
		closer = func() { _ = db.Close() }
	}
	return assemble.NewAnalyzer(fetcher, classifier, cache), closer, nil
}

func newMux(analyzer *assemble.Analyzer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/analyze", func(w http.ResponseWriter, r *http.Request) {
		user := r.URL.Query().Get("user")
		if user == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "missing user parameter"})
			return
		}
		res, err := analyzer.Analyze(r.Context(), user)
		if err != nil {
			writeJSON(w, http.StatusBadGateway, map[string]any{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, res)
	})
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

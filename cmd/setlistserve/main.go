// Copyright 2025 The SetlistServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the setlist archive search server and its CLI.

setlistserve loads a static concert archive (a year index plus one JSON array
of live events per year) and a song master used for autocomplete. It can
answer msgpack IPC requests on stdin/stdout, run an interactive CLI, or
produce derived files from the archive.

# Usage

Serve IPC with the archive in ./data:

	setlistserve

Run the CLI against a remote copy of the archive:

	SETLIST_BASE_URL=https://example.org/data setlistserve -c

Regenerate the song master from every setlist:

	setlistserve -data ./data -extract

Bundle the archive into a single msgpack file, then serve from it:

	setlistserve -data ./data -pack archive.pack
	setlistserve -data archive.pack

# Data

The data directory holds index.json ({"years": [2024, 2025]}), one
<year>.json per listed year, and songs.raw.json. The song master may have
almost any shape; see package extract.

# Configuration

Settings live in config.toml, created with defaults on first run:

	[data]
	dir = "data"
	base_url = ""
	timeout_ms = 5000

	[suggest]
	max_candidates = 20
	debounce_ms = 100

	[ranking]
	initial_cap = 10
	expanded_cap = 40

SETLIST_DATA_DIR, SETLIST_BASE_URL and SETLIST_DEBOUNCE_MS override the file,
and may also be set in a .env file.

# Command Line Flags

	-data string
	    Data directory or .pack file (default from config)
	-config string
	    Path to config.toml
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-year string
	    Initial year, or "all" (default: latest)
	-extract
	    Write the song master from every setlist and exit
	-pack string
	    Write the archive to a msgpack pack file and exit
	-version
	    Show current version
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/bastiangx/setlistserve/internal/cli"
	"github.com/bastiangx/setlistserve/internal/logger"
	"github.com/bastiangx/setlistserve/internal/utils"
	"github.com/bastiangx/setlistserve/pkg/browser"
	"github.com/bastiangx/setlistserve/pkg/config"
	"github.com/bastiangx/setlistserve/pkg/dataset"
	"github.com/bastiangx/setlistserve/pkg/extract"
	"github.com/bastiangx/setlistserve/pkg/server"
	"github.com/bastiangx/setlistserve/pkg/setlist"
	"github.com/bastiangx/setlistserve/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0"
	AppName = "setlistserve"
	gh      = "https://github.com/bastiangx/setlistserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main only wires packages together and picks the mode.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	dataPath := flag.String("data", "", "Data directory or .pack file (default from config)")
	configPath := flag.String("config", "", "Path to config.toml")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	year := flag.String("year", "", `Initial year, or "all" (default: latest)`)
	extractMode := flag.Bool("extract", false, "Write the song master from every setlist and exit")
	packPath := flag.String("pack", "", "Write the archive to a msgpack pack file and exit")
	rebuildConfig := flag.Bool("rebuild-config", false, "Overwrite config.toml with defaults and exit")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger.SetupDefault(*debugMode)

	if *rebuildConfig {
		if err := config.RebuildConfigFile(); err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		log.Info("Config rebuilt with defaults")
		os.Exit(0)
	}

	cfg, activePath, _ := config.LoadConfigWithPriority(*configPath)
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activePath))
	if *dataPath != "" {
		cfg.Data.Dir = *dataPath
	}
	if *year != "" {
		cfg.CLI.DefaultYear = *year
	}

	ctx := context.Background()
	loader, dataDir, err := openLoader(cfg)
	if err != nil {
		log.Fatalf("Failed to open data: %v", err)
	}

	switch {
	case *extractMode:
		if err := writeSongMaster(ctx, loader, dataDir, cfg.Data.SongsFile); err != nil {
			log.Fatalf("Extract failed: %v", err)
		}
		return
	case *packPath != "":
		if err := writePack(ctx, loader, *packPath); err != nil {
			log.Fatalf("Pack failed: %v", err)
		}
		return
	}

	ctrl := browser.New(loader, browser.WithRankingCaps(cfg.Ranking.InitialCap, cfg.Ranking.ExpandedCap))
	var preferred setlist.YearSelector
	if cfg.CLI.DefaultYear != "" {
		preferred = setlist.ParseYearSelector(cfg.CLI.DefaultYear)
	}
	if err := ctrl.Init(ctx, preferred); err != nil {
		if dataDir != "" {
			if pr, prErr := utils.NewPathResolver(); prErr == nil {
				log.Debug("Data path diagnostics", "diag", pr.DiagnosePathIssues(cfg.Data.Dir))
			}
		}
		log.Fatalf("Failed to load archive: %v", err)
	}

	corpus := loadCorpus(ctx, loader)

	if *cliMode {
		log.SetReportTimestamp(false)
		session := suggest.NewSession(corpus, cfg.Suggest.MaxCandidates, cfg.Suggest.Nearest)
		handler := cli.NewInputHandler(ctrl, session, os.Stdout, cfg.CLI.Color)
		if err := handler.Start(ctx, os.Stdin); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(corpus, ctrl, cfg, os.Stdin, os.Stdout)
	showStartupInfo(cfg, len(ctrl.Years()), corpus.Len())
	if err := srv.Start(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// openLoader picks the source: base_url over HTTP, a .pack file, or a local
// directory found through the path resolver. dataDir is empty unless the
// source is a local directory.
func openLoader(cfg *config.Config) (*dataset.Loader, string, error) {
	opts := []dataset.Option{
		dataset.WithIndexFile(cfg.Data.IndexFile),
		dataset.WithSongsFile(cfg.Data.SongsFile),
	}

	if cfg.Data.BaseURL != "" {
		log.Debugf("Using remote data at: %s", cfg.Data.BaseURL)
		return dataset.NewLoader(dataset.NewHTTPSource(cfg.Data.BaseURL, cfg.Data.Timeout()), opts...), "", nil
	}

	if strings.HasSuffix(cfg.Data.Dir, ".pack") {
		src, err := dataset.OpenSnapshot(cfg.Data.Dir)
		if err != nil {
			return nil, "", err
		}
		return dataset.NewLoader(src, opts...), "", nil
	}

	pr, err := utils.NewPathResolver()
	if err != nil {
		return nil, "", fmt.Errorf("path resolver: %w", err)
	}
	dir := pr.GetDataDir(cfg.Data.Dir)
	log.Debugf("Using data dir at: %s", dir)
	return dataset.NewLoader(dataset.NewDirSource(dir), opts...), dir, nil
}

// loadCorpus builds the autocomplete corpus. A missing song master leaves
// autocomplete empty; the rest of the archive still works.
func loadCorpus(ctx context.Context, loader *dataset.Loader) *suggest.Corpus {
	raw, err := loader.SongMaster(ctx)
	if err != nil {
		log.Warnf("Song master unavailable, autocomplete disabled: %v", err)
		return suggest.NewCorpus(nil)
	}
	titles := extract.Titles(raw)
	if len(titles) == 0 {
		log.Warnf("No titles recognized in %s", loader.SongsFile())
	}
	return suggest.NewCorpus(titles)
}

func writeSongMaster(ctx context.Context, loader *dataset.Loader, dataDir, songsFile string) error {
	if dataDir == "" {
		return fmt.Errorf("-extract needs a local data directory")
	}
	lives, err := loader.Target(ctx, setlist.AllYears())
	if err != nil {
		return err
	}
	master := extract.FromLives(lives)
	path := filepath.Join(dataDir, songsFile)
	if err := utils.SaveJSONFile(master, path); err != nil {
		return err
	}
	log.Infof("Wrote %s songs to %s", utils.FormatWithCommas(len(master.Songs)), path)
	return nil
}

func writePack(ctx context.Context, loader *dataset.Loader, path string) error {
	p, err := dataset.BuildPack(ctx, loader)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := dataset.WritePack(f, p); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Infof("Packed %d documents into %s", len(p.Docs), path)
	return nil
}

func printVersion() {
	banner := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ SetlistServe ] Search a concert setlist archive")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}

// showStartupInfo reports readiness on stderr; stdout belongs to IPC.
func showStartupInfo(cfg *config.Config, years, titles int) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	log.Infof("%s %s", AppName, Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("years: %d, titles: %s", years, utils.FormatWithCommas(titles))
	log.Infof("debounce: %v", cfg.Suggest.Debounce())
	log.Info("status: ready")

	log.SetLevel(currentLevel)
}

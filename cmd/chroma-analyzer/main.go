package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/ironsheep/chroma-analyzer/internal/config"
	"github.com/ironsheep/chroma-analyzer/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("chroma-analyzer %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	// stdout carries the MCP protocol
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	logger.Debug("chroma-analyzer.start",
		"version", Version,
		"build_time", BuildTime,
		"commit", GitCommit,
		"max_image_bytes", cfg.MaxImageBytes,
		"tie_break", cfg.PreviewTieBreak,
	)

	srv := server.New(cfg, logger, Version)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printHelp() {
	fmt.Println("chroma-analyzer - MCP server for color and exposure analysis of images")
	fmt.Println()
	fmt.Println("Usage: chroma-analyzer [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Printf("  %-28s debug, info, warn or error (default info)\n", config.EnvLogLevel+"=")
	fmt.Printf("  %-28s Largest accepted file in bytes\n", config.EnvMaxImageBytes+"=")
	fmt.Printf("  %-28s Per-call time limit, e.g. 90s\n", config.EnvAnalysisTimeout+"=")
	fmt.Printf("  %-28s Pixel count above which statistics yield\n", config.EnvYieldThreshold+"=")
	fmt.Printf("  %-28s Rows between yield checkpoints\n", config.EnvYieldInterval+"=")
	fmt.Printf("  %-28s Minimum r+g+b for chromaticity\n", config.EnvChromaticityGuard+"=")
	fmt.Printf("  %-28s first or last, for equal-area previews\n", config.EnvPreviewTieBreak+"=")
	fmt.Printf("  %-28s true to add clipping counts to analyses\n", config.EnvClipping+"=")
	fmt.Printf("  %-28s Default image_preview edge in pixels\n", config.EnvPreviewMaxSize+"=")
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
}

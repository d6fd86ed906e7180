package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/mser-tools-mcp/internal/config"
	"github.com/ironsheep/mser-tools-mcp/internal/ocr"
	"github.com/ironsheep/mser-tools-mcp/internal/server"
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
			fmt.Printf("mser-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			if v, err := ocr.Version(); err == nil {
				fmt.Printf("  Tesseract:  %s\n", v)
			}
			return
		case "--help", "-h", "help":
			fmt.Println("mser-tools-mcp - MCP server for MSER region detection")
			fmt.Println()
			fmt.Println("Usage: mser-tools-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  MSER_MCP_LOG_LEVEL=debug            Enable debug logging (debug, info, warn, error)")
			fmt.Println("  MSER_MCP_DELTA, MSER_MCP_MIN_AREA,  Baseline MSER parameters used when a")
			fmt.Println("  MSER_MCP_MAX_AREA, ...              tool call does not override them")
			fmt.Println("  MSER_MCP_MAX_REGIONS=500            Default cap on returned regions")
			fmt.Println("  MSER_MCP_DETECTOR_CACHE_SIZE=8      Native detectors kept alive")
			fmt.Println("  MSER_MCP_OCR_LANGUAGE=eng           Default Tesseract language")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if cfg.Debug() {
		log.Printf("MSER MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("Baseline parameters: %s", cfg.Builder().Params())
	}

	server.ServerVersion = Version
	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("Server error: %v", err)
	}
	defer srv.Close()

	if err := srv.Run(); err != nil {
		srv.Close()
		log.Fatalf("Server error: %v", err)
	}
}

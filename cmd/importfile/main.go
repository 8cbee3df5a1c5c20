package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/agenthands/estima/internal/config"
	"github.com/agenthands/estima/internal/core"
	"github.com/agenthands/estima/internal/llm"
	"github.com/agenthands/estima/internal/store"
)

// importfile runs a preview or import of a local workbook without the HTTP
// server, for testing supplier files by hand.
func main() {
	cfgPath := flag.String("config", "config/config.toml", "path to config file")
	preview := flag.Bool("preview", false, "preview only, do not write anything")
	overridesJSON := flag.String("overrides", "", "JSON map of row code to type id")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: importfile [flags] <workbook.xlsx>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Printf("Warning: could not load %s: %v. Using defaults", *cfgPath, err)
		cfg = &config.Config{}
		cfg.ApplyDefaults()
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "ollama"
		cfg.LLM.Model = "gpt-oss:latest"
		cfg.LLM.BaseURL = "http://localhost:11434"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read workbook: %v", err)
	}

	s, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.SeedDefaults(ctx); err != nil {
		log.Fatalf("Failed to seed taxonomy: %v", err)
	}

	llmClient, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	importer := core.NewImporter(s, llmClient, cfg)
	filename := filepath.Base(path)

	var out interface{}
	if *preview {
		out, err = importer.Preview(ctx, data, filename)
	} else {
		overrides := map[string]string{}
		if *overridesJSON != "" {
			if err := json.Unmarshal([]byte(*overridesJSON), &overrides); err != nil {
				log.Fatalf("Invalid overrides JSON: %v", err)
			}
		}
		out, err = importer.Import(ctx, data, filename, overrides)
	}
	if err != nil {
		log.Fatalf("Failed: %v", err)
	}

	encoded, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(encoded))
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/estima/internal/config"
	"github.com/agenthands/estima/internal/core"
	"github.com/agenthands/estima/internal/llm"
	"github.com/agenthands/estima/internal/store"
)

type Server struct {
	Importer *core.Importer
}

func NewServer() *Server {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Warning: could not load %s: %v. Using defaults", cfgPath, err)
		cfg = &config.Config{}
		cfg.ApplyDefaults()
	}

	// Env vars override the config file.
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "ollama"
		cfg.LLM.Model = "gpt-oss:latest"
		cfg.LLM.BaseURL = "http://localhost:11434"
	}

	s, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	if err := s.SeedDefaults(context.Background()); err != nil {
		log.Fatalf("Failed to seed taxonomy: %v", err)
	}

	llmClient, err := llm.NewClient(context.Background(), cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	return &Server{
		Importer: core.NewImporter(s, llmClient, cfg),
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.POST("/imports", s.ImportWorkbook)
	r.POST("/imports/preview", s.PreviewWorkbook)
	r.POST("/products/:id/reanalyze", s.ReanalyzeProduct)

	return r
}

func readWorkbook(c *gin.Context) ([]byte, string, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing workbook file"})
		return nil, "", false
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not open uploaded file"})
		return nil, "", false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file"})
		return nil, "", false
	}

	return data, fileHeader.Filename, true
}

func (s *Server) ImportWorkbook(c *gin.Context) {
	data, filename, ok := readWorkbook(c)
	if !ok {
		return
	}

	overrides := map[string]string{}
	if raw := c.PostForm("overrides"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &overrides); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid overrides JSON"})
			return
		}
	}

	result, err := s.Importer.Import(c.Request.Context(), data, filename, overrides)
	if err != nil {
		log.Printf("Import of '%s' failed: %v", filename, err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) PreviewWorkbook(c *gin.Context) {
	data, filename, ok := readWorkbook(c)
	if !ok {
		return
	}

	result, err := s.Importer.Preview(c.Request.Context(), data, filename)
	if err != nil {
		log.Printf("Preview of '%s' failed: %v", filename, err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) ReanalyzeProduct(c *gin.Context) {
	result, err := s.Importer.Reanalyze(c.Request.Context(), c.Param("id"))
	if err != nil {
		log.Printf("Reanalyze failed: %v", err)
		if errors.Is(err, core.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

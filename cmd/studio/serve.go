package studio

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/acestep/studio/pkg/api"
	"github.com/acestep/studio/pkg/config"
	"github.com/acestep/studio/pkg/console"
	"github.com/acestep/studio/pkg/handler"
	"github.com/acestep/studio/pkg/outputs"
	"github.com/acestep/studio/pkg/webui"
)

func handleServeCommand(args []string) error {
	cfg, err := config.LoadAppConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	serveCmd := flag.NewFlagSet("serve", flag.ExitOnError)
	port := serveCmd.Int("port", cfg.Server.Port, "Port to run the studio server on")
	language := serveCmd.String("language", cfg.Server.Language, "UI language (en, zh, ja)")
	modelsDir := serveCmd.String("models-dir", cfg.Paths.ModelsDir, "Directory scanned for checkpoints")
	outputsDir := serveCmd.String("outputs-dir", cfg.Paths.OutputsDir, "Directory generated audio is written to")
	backendURL := serveCmd.String("backend", cfg.Backend.URL, "Inference backend base URL")
	preInitialized := serveCmd.Bool("pre-initialized", false, "Mark the backend as already initialized")
	configPath := serveCmd.String("config-path", "", "Model config path handed to the backend")
	device := serveCmd.String("device", "cuda:0", "Device the backend should use")

	if err := serveCmd.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	store, err := outputs.NewStore(*outputsDir, time.Duration(cfg.Paths.RetentionHours)*time.Hour)
	if err != nil {
		return fmt.Errorf("failed to open outputs store: %w", err)
	}
	if err := store.StartPurgeSchedule(); err != nil {
		log.Printf("[serve] purge schedule not started: %v", err)
	}
	defer store.StopPurgeSchedule()

	backend := handler.NewBackendClient(*backendURL, store)
	llm := handler.NewLLMHandler(cfg.LM.BaseURL, cfg.LM.APIKey, cfg.LM.Model)

	dit := handler.NewDiTHandler(*modelsDir, backend)
	defer dit.Close()

	dataset, err := handler.NewDatasetHandler(cfg.Paths.DatasetIndex, llm.EmbeddingFunc())
	if err != nil {
		return fmt.Errorf("failed to open dataset index: %w", err)
	}
	defer dataset.Close()

	// Give the backend a moment to come up; page load still works without it.
	waitErr := console.RunWhile("Waiting for inference backend...", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		for {
			if backend.Healthy(ctx) {
				return nil
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
		}
	})
	if waitErr != nil {
		console.Errorf("Inference backend not reachable at %s, continuing anyway", *backendURL)
	} else {
		console.Successf("Inference backend is up")
	}

	initParams := &config.InitParams{
		PreInitialized: *preInitialized,
		ConfigPath:     *configPath,
		Device:         *device,
	}

	page, err := webui.NewInterface(dit, llm, dataset, initParams, *language)
	if err != nil {
		return fmt.Errorf("failed to build interface: %w", err)
	}

	sessions := api.NewSessionManager(page)
	defer sessions.Close()

	fmt.Print(console.RenderStartupBox(Version, [][2]string{
		{"Port", strconv.Itoa(*port)},
		{"Models", *modelsDir},
		{"Outputs", *outputsDir},
		{"Backend", *backendURL},
		{"Language", *language},
	}, dit.AvailableACEStepV15Models()))

	return api.Serve(*port, api.Deps{
		Page:     page,
		Sessions: sessions,
		DiT:      dit,
		Dataset:  dataset,
	})
}

func printServeUsage() {
	fmt.Println("usage: acestep-studio serve [-h] [--port PORT] [--language LANG]")
	fmt.Println("")
	fmt.Println("Start the studio web server")
	fmt.Println("")
	fmt.Println("options:")
	fmt.Println("  -h, --help            show this help message and exit")
	fmt.Println("  --port PORT           Port to run the studio server on (default: 7865)")
	fmt.Println("  --language LANG       UI language: en, zh, ja (default: en)")
	fmt.Println("  --models-dir DIR      Directory scanned for checkpoints")
	fmt.Println("  --outputs-dir DIR     Directory generated audio is written to")
	fmt.Println("  --backend URL         Inference backend base URL")
	fmt.Println("  --pre-initialized     Mark the backend as already initialized")
	fmt.Println("  --config-path PATH    Model config path handed to the backend")
	fmt.Println("  --device DEVICE       Device the backend should use")
}

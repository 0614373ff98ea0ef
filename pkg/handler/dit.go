package handler

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/acestep/studio/pkg/outputs"
	"github.com/fsnotify/fsnotify"
)

// BaseModelID is the checkpoint identifier of the default ("base") v1.5
// model. Auto-initialization on page load keys off this literal.
const BaseModelID = "acestep-v15-base"

// InitOptions carries the service-initialization inputs, in the order the
// generation section exposes them.
type InitOptions struct {
	Checkpoint        string
	ConfigPath        string
	Device            string
	InitLLM           bool
	LMModelPath       string
	Backend           string
	UseFlashAttention bool
	OffloadToCPU      bool
	OffloadDiTToCPU   bool
	CompileModel      bool
	Quantization      bool
}

// ModelParams are the model-type-dependent generation defaults reported back
// after initialization. Turbo checkpoints run few steps without classifier
// guidance; base checkpoints run the full schedule.
type ModelParams struct {
	InferenceSteps   int
	GuidanceScale    float64
	UseADG           bool
	Shift            float64
	CFGIntervalStart float64
	CFGIntervalEnd   float64
	TaskType         string
}

// InitResult is what InitService reports: a status line for the UI, whether
// generation may be enabled, whether the service-config panel should stay
// open, and the parameter defaults for the loaded model.
type InitResult struct {
	Status            string
	GenerateEnabled   bool
	ShowServiceConfig bool
	Params            ModelParams
}

// GenerateOptions are the per-request generation inputs.
type GenerateOptions struct {
	Prompt           string
	Lyrics           string
	Duration         float64
	InferenceSteps   int
	GuidanceScale    float64
	UseADG           bool
	Shift            float64
	CFGIntervalStart float64
	CFGIntervalEnd   float64
	TaskType         string
	Seed             int64
}

// DiTHandler owns the diffusion-transformer serving state: checkpoint
// discovery under the models directory and the lifecycle of the inference
// backend. The handler outlives any single page; sections and event wiring
// borrow it.
type DiTHandler struct {
	modelsDir string
	backend   *BackendClient

	mu          sync.RWMutex
	models      []string
	initialized bool
	current     string
	params      ModelParams

	watcher *fsnotify.Watcher
}

// NewDiTHandler scans modelsDir for checkpoints and starts watching it for
// changes so the available-model list stays current.
func NewDiTHandler(modelsDir string, backend *BackendClient) *DiTHandler {
	h := &DiTHandler{modelsDir: modelsDir, backend: backend}
	h.rescan()
	h.watch()
	return h
}

// Close stops the directory watcher.
func (h *DiTHandler) Close() error {
	if h.watcher != nil {
		return h.watcher.Close()
	}
	return nil
}

// AvailableACEStepV15Models lists the v1.5 checkpoint directories currently
// present under the models directory, sorted.
func (h *DiTHandler) AvailableACEStepV15Models() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, len(h.models))
	copy(out, h.models)
	return out
}

// Initialized reports whether a checkpoint is currently loaded.
func (h *DiTHandler) Initialized() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.initialized
}

// CurrentModel returns the loaded checkpoint identifier, or "".
func (h *DiTHandler) CurrentModel() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Params returns the generation defaults for the loaded checkpoint.
func (h *DiTHandler) Params() ModelParams {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.params
}

func (h *DiTHandler) rescan() {
	entries, err := os.ReadDir(h.modelsDir)
	if err != nil {
		h.mu.Lock()
		h.models = nil
		h.mu.Unlock()
		return
	}
	var models []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), "acestep-v15") {
			models = append(models, e.Name())
		}
	}
	sort.Strings(models)
	h.mu.Lock()
	h.models = models
	h.mu.Unlock()
}

func (h *DiTHandler) watch() {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("[dit] checkpoint watcher unavailable: %v", err)
		return
	}
	if err := w.Add(h.modelsDir); err != nil {
		log.Printf("[dit] cannot watch %s: %v", h.modelsDir, err)
		w.Close()
		return
	}
	h.watcher = w
	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
					h.rescan()
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("[dit] watcher error: %v", err)
			}
		}
	}()
}

// defaultParams returns the generation defaults for a checkpoint. Turbo
// variants distill the schedule down to a handful of steps and disable
// classifier guidance.
func defaultParams(checkpoint string) ModelParams {
	if strings.Contains(checkpoint, "turbo") {
		return ModelParams{
			InferenceSteps:   8,
			GuidanceScale:    1.0,
			UseADG:           false,
			Shift:            3.0,
			CFGIntervalStart: 0.0,
			CFGIntervalEnd:   1.0,
			TaskType:         "text2music",
		}
	}
	return ModelParams{
		InferenceSteps:   32,
		GuidanceScale:    7.5,
		UseADG:           true,
		Shift:            3.0,
		CFGIntervalStart: 0.0,
		CFGIntervalEnd:   0.8,
		TaskType:         "text2music",
	}
}

// InitService loads a checkpoint into the inference backend. Failures are
// reported through the status string rather than an error: the UI surfaces
// them in the init-status widget and leaves generation disabled.
func (h *DiTHandler) InitService(ctx context.Context, opts InitOptions) InitResult {
	checkpoint := opts.Checkpoint
	if checkpoint == "" {
		checkpoint = checkpointFromConfigPath(opts.ConfigPath)
	}
	if checkpoint == "" {
		return InitResult{
			Status:            "❌ No checkpoint selected",
			ShowServiceConfig: true,
			Params:            defaultParams(""),
		}
	}

	log.Printf("[dit] initializing %s (device=%s backend=%s)", checkpoint, opts.Device, opts.Backend)
	if err := h.backend.Initialize(ctx, opts); err != nil {
		return InitResult{
			Status:            fmt.Sprintf("❌ Initialization failed: %v", err),
			ShowServiceConfig: true,
			Params:            defaultParams(checkpoint),
		}
	}

	params := defaultParams(checkpoint)
	h.mu.Lock()
	h.initialized = true
	h.current = checkpoint
	h.params = params
	h.mu.Unlock()

	return InitResult{
		Status:            fmt.Sprintf("✅ Service initialized with %s", checkpoint),
		GenerateEnabled:   true,
		ShowServiceConfig: false,
		Params:            params,
	}
}

// Release unloads the current checkpoint and frees backend memory.
func (h *DiTHandler) Release(ctx context.Context) string {
	h.mu.Lock()
	h.initialized = false
	h.current = ""
	h.mu.Unlock()
	if err := h.backend.Release(ctx); err != nil {
		return fmt.Sprintf("⚠️ Release reported: %v", err)
	}
	return "Service released"
}

// Generate runs one generation request against the backend and returns the
// stored track.
func (h *DiTHandler) Generate(ctx context.Context, opts GenerateOptions) (*outputs.Track, error) {
	h.mu.RLock()
	ready := h.initialized
	model := h.current
	h.mu.RUnlock()
	if !ready {
		return nil, fmt.Errorf("service not initialized")
	}
	track, err := h.backend.Generate(ctx, model, opts)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}
	return track, nil
}

// Tracks lists previously generated tracks, newest first.
func (h *DiTHandler) Tracks() ([]outputs.Track, error) {
	return h.backend.Store().List()
}

// Track returns a stored track by ID.
func (h *DiTHandler) Track(id string) (outputs.Track, error) {
	return h.backend.Store().Get(id)
}

// StartTraining asks the backend to begin a LoRA run. The returned string is
// a UI status line; failures surface there, matching InitService.
func (h *DiTHandler) StartTraining(ctx context.Context, opts TrainOptions) string {
	if !h.Initialized() {
		return "❌ Initialize the service before training"
	}
	if err := h.backend.TrainStart(ctx, opts); err != nil {
		return fmt.Sprintf("❌ Training failed to start: %v", err)
	}
	return fmt.Sprintf("🏃 Training started (dataset: %s)", opts.DatasetDir)
}

// StopTraining asks the backend to stop the current LoRA run.
func (h *DiTHandler) StopTraining(ctx context.Context) string {
	if err := h.backend.TrainStop(ctx); err != nil {
		return fmt.Sprintf("⚠️ Stop reported: %v", err)
	}
	return "Training stopped"
}

// checkpointFromConfigPath extracts a checkpoint directory name from a config
// file path like "checkpoints/acestep-v15-base/config.json".
func checkpointFromConfigPath(configPath string) string {
	dir := filepath.Base(filepath.Dir(configPath))
	if strings.HasPrefix(dir, "acestep-v15") {
		return dir
	}
	return ""
}

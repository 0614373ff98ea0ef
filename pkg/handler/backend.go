package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/acestep/studio/pkg/outputs"
)

// BackendClient talks to the local inference process over HTTP. The studio
// never runs model weights in-process; it drives a sidecar serving instance
// and stores whatever audio comes back.
type BackendClient struct {
	baseURL string
	client  *http.Client
	store   *outputs.Store
}

// NewBackendClient returns a client for the inference backend at baseURL.
func NewBackendClient(baseURL string, store *outputs.Store) *BackendClient {
	return &BackendClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Minute},
		store:   store,
	}
}

// Store returns the outputs store generated audio is written to.
func (c *BackendClient) Store() *outputs.Store { return c.store }

// TrainOptions are the LoRA training inputs.
type TrainOptions struct {
	DatasetDir   string  `json:"dataset_dir"`
	OutputDir    string  `json:"output_dir"`
	LearningRate float64 `json:"learning_rate"`
	Epochs       int     `json:"epochs"`
	Rank         int     `json:"rank"`
}

// TrainStart asks the backend to begin a LoRA training run.
func (c *BackendClient) TrainStart(ctx context.Context, opts TrainOptions) error {
	return c.post(ctx, "/v1/train/start", opts, nil)
}

// TrainStop asks the backend to stop the current training run.
func (c *BackendClient) TrainStop(ctx context.Context) error {
	return c.post(ctx, "/v1/train/stop", struct{}{}, nil)
}

// Healthy reports whether the backend answers its health endpoint.
func (c *BackendClient) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

type initRequest struct {
	Checkpoint        string `json:"checkpoint"`
	ConfigPath        string `json:"config_path"`
	Device            string `json:"device"`
	InitLLM           bool   `json:"init_llm"`
	LMModelPath       string `json:"lm_model_path"`
	Backend           string `json:"backend"`
	UseFlashAttention bool   `json:"use_flash_attention"`
	OffloadToCPU      bool   `json:"offload_to_cpu"`
	OffloadDiTToCPU   bool   `json:"offload_dit_to_cpu"`
	CompileModel      bool   `json:"compile_model"`
	Quantization      bool   `json:"quantization"`
}

// Initialize asks the backend to load a checkpoint.
func (c *BackendClient) Initialize(ctx context.Context, opts InitOptions) error {
	req := initRequest{
		Checkpoint:        opts.Checkpoint,
		ConfigPath:        opts.ConfigPath,
		Device:            opts.Device,
		InitLLM:           opts.InitLLM,
		LMModelPath:       opts.LMModelPath,
		Backend:           opts.Backend,
		UseFlashAttention: opts.UseFlashAttention,
		OffloadToCPU:      opts.OffloadToCPU,
		OffloadDiTToCPU:   opts.OffloadDiTToCPU,
		CompileModel:      opts.CompileModel,
		Quantization:      opts.Quantization,
	}
	return c.post(ctx, "/v1/initialize", req, nil)
}

// Release asks the backend to unload the current checkpoint.
func (c *BackendClient) Release(ctx context.Context) error {
	return c.post(ctx, "/v1/release", struct{}{}, nil)
}

type generateRequest struct {
	Prompt           string  `json:"prompt"`
	Lyrics           string  `json:"lyrics,omitempty"`
	Duration         float64 `json:"duration"`
	InferenceSteps   int     `json:"inference_steps"`
	GuidanceScale    float64 `json:"guidance_scale"`
	UseADG           bool    `json:"use_adg"`
	Shift            float64 `json:"shift"`
	CFGIntervalStart float64 `json:"cfg_interval_start"`
	CFGIntervalEnd   float64 `json:"cfg_interval_end"`
	TaskType         string  `json:"task_type"`
	Seed             int64   `json:"seed"`
}

type generateResponse struct {
	Audio string `json:"audio"` // base64 WAV
	Seed  int64  `json:"seed"`
}

// Generate runs one request and stores the returned audio as a track.
func (c *BackendClient) Generate(ctx context.Context, model string, opts GenerateOptions) (*outputs.Track, error) {
	req := generateRequest{
		Prompt:           opts.Prompt,
		Lyrics:           opts.Lyrics,
		Duration:         opts.Duration,
		InferenceSteps:   opts.InferenceSteps,
		GuidanceScale:    opts.GuidanceScale,
		UseADG:           opts.UseADG,
		Shift:            opts.Shift,
		CFGIntervalStart: opts.CFGIntervalStart,
		CFGIntervalEnd:   opts.CFGIntervalEnd,
		TaskType:         opts.TaskType,
		Seed:             opts.Seed,
	}
	var resp generateResponse
	if err := c.post(ctx, "/v1/generate", req, &resp); err != nil {
		return nil, err
	}
	audio, err := base64.StdEncoding.DecodeString(resp.Audio)
	if err != nil {
		return nil, fmt.Errorf("decode audio: %w", err)
	}
	track, err := c.store.Save(audio, outputs.Track{
		Model:    model,
		Prompt:   opts.Prompt,
		Lyrics:   opts.Lyrics,
		Seed:     resp.Seed,
		Duration: opts.Duration,
	})
	if err != nil {
		return nil, err
	}
	return &track, nil
}

func (c *BackendClient) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("backend %s: %s: %s", path, resp.Status, bytes.TrimSpace(msg))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

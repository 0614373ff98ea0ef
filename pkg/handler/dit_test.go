package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/acestep/studio/pkg/outputs"
)

func newTestBackend(t *testing.T, fn http.HandlerFunc) *BackendClient {
	t.Helper()
	if fn == nil {
		fn = func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}
	}
	server := httptest.NewServer(fn)
	t.Cleanup(server.Close)

	store, err := outputs.NewStore(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return NewBackendClient(server.URL, store)
}

// TestDiTHandler_Discovery verifies checkpoint discovery: only directories
// with the v1.5 prefix count, and the result is sorted.
func TestDiTHandler_Discovery(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"acestep-v15-turbo", "acestep-v15-base", "vae", "old-model"} {
		if err := os.Mkdir(filepath.Join(dir, name), 0755); err != nil {
			t.Fatal(err)
		}
	}
	// Plain files never count, even with the prefix.
	if err := os.WriteFile(filepath.Join(dir, "acestep-v15-notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	h := NewDiTHandler(dir, newTestBackend(t, nil))
	defer h.Close()

	got := h.AvailableACEStepV15Models()
	want := []string{"acestep-v15-base", "acestep-v15-turbo"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("models = %v, expected %v", got, want)
	}
}

// TestDiTHandler_DiscoveryMissingDir verifies a missing models directory
// yields an empty list rather than an error.
func TestDiTHandler_DiscoveryMissingDir(t *testing.T) {
	h := NewDiTHandler(filepath.Join(t.TempDir(), "nope"), newTestBackend(t, nil))
	defer h.Close()
	if got := h.AvailableACEStepV15Models(); len(got) != 0 {
		t.Errorf("models = %v, expected none", got)
	}
}

// TestCheckpointFromConfigPath verifies checkpoint extraction from config
// file paths.
func TestCheckpointFromConfigPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"checkpoints/acestep-v15-base/config.json", "acestep-v15-base"},
		{"/abs/path/acestep-v15-turbo/config.json", "acestep-v15-turbo"},
		{"checkpoints/other-model/config.json", ""},
		{"config.json", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := checkpointFromConfigPath(tt.path); got != tt.want {
			t.Errorf("checkpointFromConfigPath(%q) = %q, expected %q", tt.path, got, tt.want)
		}
	}
}

// TestDefaultParams verifies the model-type split: turbo checkpoints get the
// distilled schedule, everything else the full one.
func TestDefaultParams(t *testing.T) {
	turbo := defaultParams("acestep-v15-turbo")
	if turbo.InferenceSteps != 8 || turbo.GuidanceScale != 1.0 || turbo.UseADG {
		t.Errorf("turbo params = %+v", turbo)
	}
	if turbo.CFGIntervalEnd != 1.0 {
		t.Errorf("turbo CFG interval end = %v, expected 1.0", turbo.CFGIntervalEnd)
	}

	base := defaultParams("acestep-v15-base")
	if base.InferenceSteps != 32 || base.GuidanceScale != 7.5 || !base.UseADG {
		t.Errorf("base params = %+v", base)
	}
	if base.CFGIntervalEnd != 0.8 {
		t.Errorf("base CFG interval end = %v, expected 0.8", base.CFGIntervalEnd)
	}
}

// TestInitService verifies the init flow: request payload, state transition,
// and the result shape for success and failure.
func TestInitService(t *testing.T) {
	var received initRequest
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/initialize" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		w.Write([]byte(`{}`))
	})

	h := NewDiTHandler(t.TempDir(), backend)
	defer h.Close()

	res := h.InitService(context.Background(), InitOptions{
		Checkpoint: "acestep-v15-base",
		Device:     "cuda",
		InitLLM:    true,
	})

	if !res.GenerateEnabled {
		t.Error("generation not enabled after successful init")
	}
	if res.ShowServiceConfig {
		t.Error("service config should collapse after successful init")
	}
	if !strings.HasPrefix(res.Status, "✅") {
		t.Errorf("status = %q", res.Status)
	}
	if res.Params.InferenceSteps != 32 {
		t.Errorf("params = %+v, expected base defaults", res.Params)
	}
	if received.Checkpoint != "acestep-v15-base" || received.Device != "cuda" || !received.InitLLM {
		t.Errorf("backend received %+v", received)
	}
	if !h.Initialized() || h.CurrentModel() != "acestep-v15-base" {
		t.Error("handler state not updated")
	}
	if h.Params() != res.Params {
		t.Error("stored params differ from reported params")
	}
}

// TestInitService_ChecksConfigPathFallback verifies the checkpoint is derived
// from the config path when none is selected.
func TestInitService_ChecksConfigPathFallback(t *testing.T) {
	backend := newTestBackend(t, nil)
	h := NewDiTHandler(t.TempDir(), backend)
	defer h.Close()

	res := h.InitService(context.Background(), InitOptions{
		ConfigPath: "checkpoints/acestep-v15-turbo/config.json",
	})
	if !res.GenerateEnabled {
		t.Errorf("init failed: %s", res.Status)
	}
	if h.CurrentModel() != "acestep-v15-turbo" {
		t.Errorf("current model = %q", h.CurrentModel())
	}
	if res.Params.InferenceSteps != 8 {
		t.Errorf("params = %+v, expected turbo defaults", res.Params)
	}
}

// TestInitService_Failures verifies failures surface in the status string and
// keep the config panel open.
func TestInitService_Failures(t *testing.T) {
	t.Run("no checkpoint", func(t *testing.T) {
		h := NewDiTHandler(t.TempDir(), newTestBackend(t, nil))
		defer h.Close()

		res := h.InitService(context.Background(), InitOptions{})
		if res.GenerateEnabled {
			t.Error("generation enabled without a checkpoint")
		}
		if !res.ShowServiceConfig {
			t.Error("config panel should stay open")
		}
		if !strings.HasPrefix(res.Status, "❌") {
			t.Errorf("status = %q", res.Status)
		}
	})

	t.Run("backend error", func(t *testing.T) {
		backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "CUDA out of memory", http.StatusInternalServerError)
		})
		h := NewDiTHandler(t.TempDir(), backend)
		defer h.Close()

		res := h.InitService(context.Background(), InitOptions{Checkpoint: "acestep-v15-base"})
		if res.GenerateEnabled {
			t.Error("generation enabled after backend failure")
		}
		if !strings.Contains(res.Status, "CUDA out of memory") {
			t.Errorf("status = %q, expected backend message", res.Status)
		}
		if h.Initialized() {
			t.Error("handler marked initialized after failure")
		}
	})
}

// TestGenerate_RequiresInit verifies generation refuses to run before init.
func TestGenerate_RequiresInit(t *testing.T) {
	h := NewDiTHandler(t.TempDir(), newTestBackend(t, nil))
	defer h.Close()

	if _, err := h.Generate(context.Background(), GenerateOptions{Prompt: "jazz"}); err == nil {
		t.Error("expected error before initialization")
	}
}

// TestStartTraining_RequiresInit verifies training refuses to start before
// the service is up.
func TestStartTraining_RequiresInit(t *testing.T) {
	h := NewDiTHandler(t.TempDir(), newTestBackend(t, nil))
	defer h.Close()

	status := h.StartTraining(context.Background(), TrainOptions{DatasetDir: "data"})
	if !strings.HasPrefix(status, "❌") {
		t.Errorf("status = %q, expected refusal", status)
	}
}

// TestRelease verifies release clears handler state.
func TestRelease(t *testing.T) {
	h := NewDiTHandler(t.TempDir(), newTestBackend(t, nil))
	defer h.Close()

	h.InitService(context.Background(), InitOptions{Checkpoint: "acestep-v15-base"})
	if !h.Initialized() {
		t.Fatal("init failed")
	}

	status := h.Release(context.Background())
	if status != "Service released" {
		t.Errorf("status = %q", status)
	}
	if h.Initialized() || h.CurrentModel() != "" {
		t.Error("handler state not cleared")
	}
}

package webui

import (
	"testing"

	"github.com/acestep/studio/pkg/config"
	"github.com/acestep/studio/pkg/i18n"
)

func testLocale() *i18n.Locale {
	return i18n.Load("en")
}

// TestNewGenerationSection_Seeding verifies the checkpoint choices and the
// config defaults the section starts with.
func TestNewGenerationSection_Seeding(t *testing.T) {
	dit := newTestDiT(t, []string{"acestep-v15-turbo", "acestep-v15-base"}, nil)
	initParams := &config.InitParams{
		ConfigPath: "checkpoints/acestep-v15-base/config.json",
		Device:     "mps",
	}

	b := NewBuilder("test")
	gen := NewGenerationSection(b, testLocale(), dit, newTestLLM(), initParams)

	choices := gen.CheckpointDropdown.Choices
	if len(choices) != 2 {
		t.Fatalf("checkpoint choices = %d, expected 2", len(choices))
	}
	// Discovery sorts, so base comes first and becomes the default.
	if choices[0] != "acestep-v15-base" || choices[1] != "acestep-v15-turbo" {
		t.Errorf("checkpoint choices = %v, expected sorted", choices)
	}
	if gen.CheckpointDropdown.Value != "acestep-v15-base" {
		t.Errorf("default checkpoint = %v", gen.CheckpointDropdown.Value)
	}

	if gen.ConfigPath.Value != initParams.ConfigPath {
		t.Errorf("config path = %v, expected %q", gen.ConfigPath.Value, initParams.ConfigPath)
	}
	if gen.Device.Value != "mps" {
		t.Errorf("device = %v, expected mps", gen.Device.Value)
	}
}

// TestNewGenerationSection_PreInitialized verifies a pre-initialized instance
// starts with generation live and the service panel collapsed.
func TestNewGenerationSection_PreInitialized(t *testing.T) {
	dit := newTestDiT(t, []string{"acestep-v15-base"}, nil)

	tests := []struct {
		name            string
		initParams      *config.InitParams
		wantInteractive bool
		wantOpen        bool
	}{
		{
			name:            "pre-initialized",
			initParams:      &config.InitParams{PreInitialized: true},
			wantInteractive: true,
			wantOpen:        false,
		},
		{
			name:            "cold start",
			initParams:      &config.InitParams{},
			wantInteractive: false,
			wantOpen:        true,
		},
		{
			name:            "nil params",
			initParams:      nil,
			wantInteractive: false,
			wantOpen:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder("test")
			gen := NewGenerationSection(b, testLocale(), dit, newTestLLM(), tt.initParams)

			if gen.GenerateBtn.Interactive != tt.wantInteractive {
				t.Errorf("generate interactive = %v, expected %v", gen.GenerateBtn.Interactive, tt.wantInteractive)
			}
			if gen.ServiceConfigAccordion.Open != tt.wantOpen {
				t.Errorf("service config open = %v, expected %v", gen.ServiceConfigAccordion.Open, tt.wantOpen)
			}
		})
	}
}

// TestNewTrainingSection_ServiceMode verifies the training panel is hidden
// when the studio fronts a pre-initialized serving instance.
func TestNewTrainingSection_ServiceMode(t *testing.T) {
	dit := newTestDiT(t, nil, nil)

	b := NewBuilder("test")
	tr := NewTrainingSection(b, testLocale(), dit, newTestLLM(), &config.InitParams{PreInitialized: true})
	if tr.Root.Visible {
		t.Error("training panel visible in service mode")
	}

	b2 := NewBuilder("test")
	tr2 := NewTrainingSection(b2, testLocale(), dit, newTestLLM(), nil)
	if !tr2.Root.Visible {
		t.Error("training panel hidden on cold start")
	}
}

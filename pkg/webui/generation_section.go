package webui

import (
	"github.com/acestep/studio/pkg/config"
	"github.com/acestep/studio/pkg/handler"
	"github.com/acestep/studio/pkg/i18n"
)

// GenerationSection holds the generation controls. Every component the init
// wrapper reads or writes is a named field here, so the wiring code and the
// startup auto-initialization share one typed surface instead of string keys.
type GenerationSection struct {
	Root *Component

	// Service configuration.
	ServiceConfigAccordion    *Component
	CheckpointDropdown        *Component
	ConfigPath                *Component
	Device                    *Component
	InitLLMCheckbox           *Component
	LMModelPath               *Component
	BackendDropdown           *Component
	UseFlashAttentionCheckbox *Component
	OffloadToCPUCheckbox      *Component
	OffloadDiTToCPUCheckbox   *Component
	CompileModelCheckbox      *Component
	QuantizationCheckbox      *Component
	InitBtn                   *Component
	ReleaseBtn                *Component
	InitStatus                *Component

	// Prompt inputs.
	Prompt            *Component
	Lyrics            *Component
	GenerateLyricsBtn *Component
	EnhancePromptBtn  *Component

	// Generation parameters.
	Duration         *Component
	Seed             *Component
	InferenceSteps   *Component
	GuidanceScale    *Component
	UseADG           *Component
	Shift            *Component
	CFGIntervalStart *Component
	CFGIntervalEnd   *Component
	TaskType         *Component

	GenerateBtn *Component
}

// NewGenerationSection builds the generation controls on b. The checkpoint
// dropdown is seeded from the handler's available models; config path and
// device defaults come from initParams when a serving instance was configured
// ahead of page assembly.
func NewGenerationSection(b *Builder, loc *i18n.Locale, dit *handler.DiTHandler, llm *handler.LLMHandler, initParams *config.InitParams) *GenerationSection {
	s := &GenerationSection{}

	models := dit.AvailableACEStepV15Models()
	var checkpoint any
	if len(models) > 0 {
		checkpoint = models[0]
	}
	configPath := ""
	device := "cuda"
	if initParams != nil {
		configPath = initParams.ConfigPath
		if initParams.Checkpoint != "" {
			checkpoint = initParams.Checkpoint
		}
		if initParams.Device != "" {
			device = initParams.Device
		}
	}
	// Service already running: panel collapsed, generation live.
	preInitialized := initParams != nil && initParams.PreInitialized

	s.Root = b.Column(func() {
		b.Markdown("## " + loc.T("generation.header"))

		s.ServiceConfigAccordion = b.Accordion(loc.T("generation.service_config"), !preInitialized, func() {
			b.Row(func() {
				s.CheckpointDropdown = b.Dropdown(loc.T("generation.checkpoint"), Props{Choices: models, Value: checkpoint})
				s.ConfigPath = b.Textbox(loc.T("generation.config_path"), Props{Value: configPath})
				s.Device = b.Dropdown(loc.T("generation.device"), Props{Choices: []string{"cuda", "mps", "cpu"}, Value: device})
			})
			b.Row(func() {
				s.InitLLMCheckbox = b.Checkbox(loc.T("generation.init_llm"), Props{Value: true})
				s.LMModelPath = b.Textbox(loc.T("generation.lm_model_path"), Props{Value: llm.Model()})
				s.BackendDropdown = b.Dropdown(loc.T("generation.backend"), Props{Choices: []string{"pytorch", "onnx"}, Value: "pytorch"})
			})
			b.Row(func() {
				s.UseFlashAttentionCheckbox = b.Checkbox(loc.T("generation.flash_attention"), Props{Value: true})
				s.OffloadToCPUCheckbox = b.Checkbox(loc.T("generation.offload_to_cpu"), Props{Value: false})
				s.OffloadDiTToCPUCheckbox = b.Checkbox(loc.T("generation.offload_dit_to_cpu"), Props{Value: false})
				s.CompileModelCheckbox = b.Checkbox(loc.T("generation.compile_model"), Props{Value: false})
				s.QuantizationCheckbox = b.Checkbox(loc.T("generation.quantization"), Props{Value: false})
			})
			b.Row(func() {
				s.InitBtn = b.Button(loc.T("generation.init_btn"), Props{Variant: "primary"})
				s.ReleaseBtn = b.Button(loc.T("generation.release_btn"), Props{})
			})
			s.InitStatus = b.Textbox(loc.T("generation.init_status"), Props{Interactive: Bool(false)})
		})

		b.Row(func() {
			b.Column(func() {
				s.Prompt = b.Textbox(loc.T("generation.prompt"), Props{Lines: 3, Placeholder: "pop, synth, drums, female vocal, 120 bpm"})
				s.EnhancePromptBtn = b.Button(loc.T("generation.enhance_prompt"), Props{})
			})
			b.Column(func() {
				s.Lyrics = b.Textbox(loc.T("generation.lyrics"), Props{Lines: 8})
				s.GenerateLyricsBtn = b.Button(loc.T("generation.generate_lyrics"), Props{})
			})
		})

		defaults := handler.ModelParams{
			InferenceSteps:   32,
			GuidanceScale:    7.5,
			UseADG:           true,
			Shift:            3.0,
			CFGIntervalStart: 0.0,
			CFGIntervalEnd:   0.8,
			TaskType:         "text2music",
		}
		b.Row(func() {
			s.Duration = b.Slider(loc.T("generation.duration"), Props{Min: 10, Max: 240, Step: 1, Value: 60.0})
			s.Seed = b.Number(loc.T("generation.seed"), Props{Value: -1})
			s.InferenceSteps = b.Slider(loc.T("generation.inference_steps"), Props{Min: 1, Max: 200, Step: 1, Value: defaults.InferenceSteps})
			s.GuidanceScale = b.Slider(loc.T("generation.guidance_scale"), Props{Min: 1, Max: 30, Step: 0.5, Value: defaults.GuidanceScale})
		})
		b.Row(func() {
			s.UseADG = b.Checkbox(loc.T("generation.use_adg"), Props{Value: defaults.UseADG})
			s.Shift = b.Slider(loc.T("generation.shift"), Props{Min: 0, Max: 10, Step: 0.1, Value: defaults.Shift})
			s.CFGIntervalStart = b.Slider(loc.T("generation.cfg_interval_start"), Props{Min: 0, Max: 1, Step: 0.01, Value: defaults.CFGIntervalStart})
			s.CFGIntervalEnd = b.Slider(loc.T("generation.cfg_interval_end"), Props{Min: 0, Max: 1, Step: 0.01, Value: defaults.CFGIntervalEnd})
			s.TaskType = b.Dropdown(loc.T("generation.task_type"), Props{Choices: []string{"text2music", "retake", "repaint", "extend"}, Value: defaults.TaskType})
		})

		s.GenerateBtn = b.Button(loc.T("generation.generate_btn"), Props{
			Variant:     "primary",
			Interactive: Bool(preInitialized),
		})
	})
	return s
}

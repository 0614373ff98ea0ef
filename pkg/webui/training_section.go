package webui

import (
	"github.com/acestep/studio/pkg/config"
	"github.com/acestep/studio/pkg/handler"
	"github.com/acestep/studio/pkg/i18n"
)

// TrainingSection holds the LoRA training panel. The whole panel is hidden
// when the studio fronts a pre-initialized serving instance, since training
// would fight the serving process for the GPU.
type TrainingSection struct {
	Root *Component

	DatasetDir   *Component
	OutputDir    *Component
	LearningRate *Component
	Epochs       *Component
	Rank         *Component
	StartBtn     *Component
	StopBtn      *Component
	Status       *Component
}

// NewTrainingSection builds the training panel on b.
func NewTrainingSection(b *Builder, loc *i18n.Locale, dit *handler.DiTHandler, llm *handler.LLMHandler, initParams *config.InitParams) *TrainingSection {
	s := &TrainingSection{}
	serviceMode := initParams != nil && initParams.PreInitialized

	s.Root = b.Group(KindAccordion, loc.T("training.header"), Props{Visible: Bool(!serviceMode)}, func() {
		b.Row(func() {
			s.DatasetDir = b.Textbox(loc.T("training.dataset_dir"), Props{Placeholder: "data/my-dataset"})
			s.OutputDir = b.Textbox(loc.T("training.output_dir"), Props{Value: "lora-out"})
		})
		b.Row(func() {
			s.LearningRate = b.Number(loc.T("training.learning_rate"), Props{Value: 1e-4})
			s.Epochs = b.Slider(loc.T("training.epochs"), Props{Min: 1, Max: 100, Step: 1, Value: 10})
			s.Rank = b.Slider(loc.T("training.rank"), Props{Min: 4, Max: 256, Step: 4, Value: 64})
		})
		b.Row(func() {
			s.StartBtn = b.Button(loc.T("training.start"), Props{Variant: "primary"})
			s.StopBtn = b.Button(loc.T("training.stop"), Props{Variant: "stop"})
		})
		s.Status = b.Textbox(loc.T("training.status"), Props{Interactive: Bool(false)})
	})
	return s
}

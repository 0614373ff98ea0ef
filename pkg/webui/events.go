package webui

import (
	"context"
	"fmt"

	"github.com/acestep/studio/pkg/handler"
)

// initServiceInputs returns the init wrapper's input components in their
// fixed order. The init button and the startup auto-initialization share this
// list; tests pin its length and order.
func initServiceInputs(gen *GenerationSection) []*Component {
	return []*Component{
		gen.CheckpointDropdown,
		gen.ConfigPath,
		gen.Device,
		gen.InitLLMCheckbox,
		gen.LMModelPath,
		gen.BackendDropdown,
		gen.UseFlashAttentionCheckbox,
		gen.OffloadToCPUCheckbox,
		gen.OffloadDiTToCPUCheckbox,
		gen.CompileModelCheckbox,
		gen.QuantizationCheckbox,
	}
}

// initServiceOutputs returns the init wrapper's output components in their
// fixed order: status, generate toggle, config panel visibility, then the
// model-type-dependent parameter widgets.
func initServiceOutputs(gen *GenerationSection) []*Component {
	return []*Component{
		gen.InitStatus,
		gen.GenerateBtn,
		gen.ServiceConfigAccordion,
		gen.InferenceSteps,
		gen.GuidanceScale,
		gen.UseADG,
		gen.Shift,
		gen.CFGIntervalStart,
		gen.CFGIntervalEnd,
		gen.TaskType,
	}
}

// initServiceHandler adapts DiTHandler.InitService to the binding contract:
// eleven ordered inputs in, ten ordered updates out.
func initServiceHandler(dit *handler.DiTHandler) HandlerFunc {
	return func(ctx context.Context, in []any) ([]Update, error) {
		if len(in) != 11 {
			return nil, fmt.Errorf("init service: got %d inputs, want 11", len(in))
		}
		res := dit.InitService(ctx, handler.InitOptions{
			Checkpoint:        toString(in[0]),
			ConfigPath:        toString(in[1]),
			Device:            toString(in[2]),
			InitLLM:           toBool(in[3]),
			LMModelPath:       toString(in[4]),
			Backend:           toString(in[5]),
			UseFlashAttention: toBool(in[6]),
			OffloadToCPU:      toBool(in[7]),
			OffloadDiTToCPU:   toBool(in[8]),
			CompileModel:      toBool(in[9]),
			Quantization:      toBool(in[10]),
		})
		return []Update{
			ValueOf(res.Status),
			Interactive(res.GenerateEnabled),
			Visible(res.ShowServiceConfig),
			ValueOf(res.Params.InferenceSteps),
			ValueOf(res.Params.GuidanceScale),
			ValueOf(res.Params.UseADG),
			ValueOf(res.Params.Shift),
			ValueOf(res.Params.CFGIntervalStart),
			ValueOf(res.Params.CFGIntervalEnd),
			ValueOf(res.Params.TaskType),
		}, nil
	}
}

// SetupEventHandlers wires the dataset, generation, and results sections to
// their handlers.
func SetupEventHandlers(b *Builder, dit *handler.DiTHandler, llm *handler.LLMHandler, dataset *handler.DatasetHandler, ds *DatasetSection, gen *GenerationSection, res *ResultsSection) {
	// Service lifecycle.
	b.On(EventClick, gen.InitBtn, initServiceHandler(dit),
		initServiceInputs(gen), initServiceOutputs(gen))

	b.On(EventClick, gen.ReleaseBtn, func(ctx context.Context, in []any) ([]Update, error) {
		status := dit.Release(ctx)
		return []Update{ValueOf(status), Interactive(false), Visible(true)}, nil
	}, nil, []*Component{gen.InitStatus, gen.GenerateBtn, gen.ServiceConfigAccordion})

	// Prompt helpers.
	b.On(EventClick, gen.GenerateLyricsBtn, func(ctx context.Context, in []any) ([]Update, error) {
		lyrics, err := llm.GenerateLyrics(ctx, toString(in[0]))
		if err != nil {
			return []Update{Skip()}, nil
		}
		return []Update{ValueOf(lyrics)}, nil
	}, []*Component{gen.Prompt}, []*Component{gen.Lyrics})

	b.On(EventClick, gen.EnhancePromptBtn, func(ctx context.Context, in []any) ([]Update, error) {
		enhanced, err := llm.EnhancePrompt(ctx, toString(in[0]))
		if err != nil {
			return []Update{Skip()}, nil
		}
		return []Update{ValueOf(enhanced)}, nil
	}, []*Component{gen.Prompt}, []*Component{gen.Prompt})

	// Generation.
	b.On(EventClick, gen.GenerateBtn, func(ctx context.Context, in []any) ([]Update, error) {
		track, err := dit.Generate(ctx, handler.GenerateOptions{
			Prompt:           toString(in[0]),
			Lyrics:           toString(in[1]),
			Duration:         toFloat(in[2]),
			Seed:             int64(toFloat(in[3])),
			InferenceSteps:   toInt(in[4]),
			GuidanceScale:    toFloat(in[5]),
			UseADG:           toBool(in[6]),
			Shift:            toFloat(in[7]),
			CFGIntervalStart: toFloat(in[8]),
			CFGIntervalEnd:   toFloat(in[9]),
			TaskType:         toString(in[10]),
		})
		if err != nil {
			return []Update{ValueOf(fmt.Sprintf("❌ %v", err)), Skip(), Skip(), Skip()}, nil
		}
		history, _ := dit.Tracks()
		meta := fmt.Sprintf("**%s** · seed %d · %.0fs · %s", track.Model, track.Seed, track.Duration, track.CreatedAt.Format("15:04:05"))
		return []Update{
			ValueOf("✅ Done"),
			ValueOf("/api/audio/" + track.ID),
			ValueOf(meta),
			ValueOf(trackRows(history)),
		}, nil
	}, []*Component{
		gen.Prompt, gen.Lyrics, gen.Duration, gen.Seed,
		gen.InferenceSteps, gen.GuidanceScale, gen.UseADG, gen.Shift,
		gen.CFGIntervalStart, gen.CFGIntervalEnd, gen.TaskType,
	}, []*Component{
		gen.InitStatus, res.LatestAudio, res.Metadata, res.HistoryTable,
	})

	// Dataset browsing.
	listSamples := func(ctx context.Context, in []any) ([]Update, error) {
		name := toString(in[0])
		query := toString(in[1])
		samples, err := dataset.Search(ctx, name, query, 100)
		if err != nil {
			return nil, err
		}
		rows := make([][]string, 0, len(samples))
		for _, s := range samples {
			rows = append(rows, []string{s.ID, s.Caption, fmt.Sprintf("%.1f", s.Duration)})
		}
		return []Update{ValueOf(rows)}, nil
	}
	dsInputs := []*Component{ds.DatasetDropdown, ds.SearchBox}
	dsOutputs := []*Component{ds.SampleTable}
	b.On(EventChange, ds.DatasetDropdown, listSamples, dsInputs, dsOutputs)
	b.On(EventSubmit, ds.SearchBox, listSamples, dsInputs, dsOutputs)

	b.On(EventClick, ds.RefreshBtn, func(ctx context.Context, in []any) ([]Update, error) {
		names, err := dataset.Datasets()
		if err != nil {
			return nil, err
		}
		return []Update{{Choices: names}}, nil
	}, nil, []*Component{ds.DatasetDropdown})

	b.On(EventSelect, ds.SampleTable, func(ctx context.Context, in []any) ([]Update, error) {
		sample, err := dataset.Sample(toString(in[0]))
		if err != nil {
			return []Update{Skip(), Skip(), Skip()}, nil
		}
		return []Update{
			ValueOf("/api/audio/sample/" + sample.ID),
			ValueOf(sample.Caption),
			ValueOf(handler.RenderNotes(sample.Notes)),
		}, nil
	}, []*Component{ds.SampleTable}, []*Component{ds.PreviewAudio, ds.CaptionBox, ds.NotesHTML})

	// Results history.
	b.On(EventClick, res.RefreshBtn, func(ctx context.Context, in []any) ([]Update, error) {
		history, err := dit.Tracks()
		if err != nil {
			return nil, err
		}
		return []Update{ValueOf(trackRows(history))}, nil
	}, nil, []*Component{res.HistoryTable})
}

// SetupTrainingEventHandlers wires the LoRA training panel.
func SetupTrainingEventHandlers(b *Builder, dit *handler.DiTHandler, llm *handler.LLMHandler, tr *TrainingSection) {
	b.On(EventClick, tr.StartBtn, func(ctx context.Context, in []any) ([]Update, error) {
		status := dit.StartTraining(ctx, handler.TrainOptions{
			DatasetDir:   toString(in[0]),
			OutputDir:    toString(in[1]),
			LearningRate: toFloat(in[2]),
			Epochs:       toInt(in[3]),
			Rank:         toInt(in[4]),
		})
		return []Update{ValueOf(status)}, nil
	}, []*Component{tr.DatasetDir, tr.OutputDir, tr.LearningRate, tr.Epochs, tr.Rank},
		[]*Component{tr.Status})

	b.On(EventClick, tr.StopBtn, func(ctx context.Context, in []any) ([]Update, error) {
		return []Update{ValueOf(dit.StopTraining(ctx))}, nil
	}, nil, []*Component{tr.Status})
}

package webui

import (
	"context"
	"fmt"
	"strings"

	"github.com/acestep/studio/pkg/config"
	"github.com/acestep/studio/pkg/handler"
	"github.com/acestep/studio/pkg/i18n"
)

const initializingStatus = "Initializing base model..."

// NewInterface assembles the studio page: header, the four sections, their
// event wiring, and, when applicable, a two-step load chain that initializes
// the base model on page load.
//
// initParams may be nil, in which case no pre-initialization state exists and
// the auto-init chain is never scheduled.
func NewInterface(dit *handler.DiTHandler, llm *handler.LLMHandler, dataset *handler.DatasetHandler, initParams *config.InitParams, language string) (*Page, error) {
	loc := i18n.Load(language)

	b := NewBuilder(loc.T("app.title"))
	b.HTML(fmt.Sprintf(`<div class="main-header"><h1>%s</h1><p>%s</p></div>`,
		loc.T("app.title"), loc.T("app.subtitle")))

	ds := NewDatasetSection(b, loc, dataset)
	gen := NewGenerationSection(b, loc, dit, llm, initParams)
	res := NewResultsSection(b, loc, dit)
	tr := NewTrainingSection(b, loc, dit, llm, initParams)

	SetupEventHandlers(b, dit, llm, dataset, ds, gen, res)
	SetupTrainingEventHandlers(b, dit, llm, tr)

	scheduleAutoInit(b, dit, gen, initParams)

	return b.Finalize()
}

// scheduleAutoInit decides whether to start loading the base model on page
// load without user interaction. The rule: never when the serving instance is
// already pre-initialized; otherwise only when the base checkpoint is among
// the available models AND its name appears in the configured config path.
// Both halves of the conjunction are required, including the substring check
// against the path.
func scheduleAutoInit(b *Builder, dit *handler.DiTHandler, gen *GenerationSection, initParams *config.InitParams) {
	preInitialized := initParams != nil && initParams.PreInitialized
	if preInitialized {
		return
	}

	available := dit.AvailableACEStepV15Models()
	configPath := ""
	if initParams != nil {
		configPath = initParams.ConfigPath
	}
	if !containsModel(available, handler.BaseModelID) || !strings.Contains(configPath, handler.BaseModelID) {
		return
	}

	b.OnLoad(func(ctx context.Context, in []any) ([]Update, error) {
		return []Update{ValueOf(initializingStatus)}, nil
	}, nil, []*Component{gen.InitStatus}).
		Then(initServiceHandler(dit), initServiceInputs(gen), initServiceOutputs(gen))
}

func containsModel(models []string, id string) bool {
	for _, m := range models {
		if m == id {
			return true
		}
	}
	return false
}

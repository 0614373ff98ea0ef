package webui

import (
	"github.com/acestep/studio/pkg/handler"
	"github.com/acestep/studio/pkg/i18n"
	"github.com/acestep/studio/pkg/outputs"
)

// ResultsSection holds the generated-audio viewer components.
type ResultsSection struct {
	Root *Component

	LatestAudio  *Component
	Metadata     *Component
	HistoryTable *Component
	RefreshBtn   *Component
}

// NewResultsSection builds the results viewer on b, seeded with whatever
// tracks are already on disk.
func NewResultsSection(b *Builder, loc *i18n.Locale, dit *handler.DiTHandler) *ResultsSection {
	s := &ResultsSection{}

	history, err := dit.Tracks()
	if err != nil {
		history = nil
	}

	s.Root = b.Column(func() {
		b.Markdown("## " + loc.T("results.header"))
		b.Row(func() {
			b.Column(func() {
				s.LatestAudio = b.Audio(loc.T("results.latest"), Props{Interactive: Bool(false)})
				s.Metadata = b.Markdown("")
			})
			b.Column(func() {
				s.HistoryTable = b.Table(loc.T("results.history"), Props{
					Headers: []string{"id", "model", "prompt", "created"},
					Value:   trackRows(history),
				})
				s.RefreshBtn = b.Button(loc.T("results.refresh"), Props{})
			})
		})
	})
	return s
}

func trackRows(tracks []outputs.Track) [][]string {
	rows := make([][]string, 0, len(tracks))
	for _, t := range tracks {
		prompt := t.Prompt
		if len(prompt) > 60 {
			prompt = prompt[:57] + "..."
		}
		rows = append(rows, []string{t.ID, t.Model, prompt, t.CreatedAt.Format("2006-01-02 15:04")})
	}
	return rows
}

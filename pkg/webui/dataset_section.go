package webui

import (
	"github.com/acestep/studio/pkg/handler"
	"github.com/acestep/studio/pkg/i18n"
)

// DatasetSection holds the dataset-browser components.
type DatasetSection struct {
	Root *Component

	DatasetDropdown *Component
	SearchBox       *Component
	RefreshBtn      *Component
	SampleTable     *Component
	PreviewAudio    *Component
	CaptionBox      *Component
	NotesHTML       *Component
}

// NewDatasetSection builds the dataset-browser components on b. Registered
// datasets populate the dropdown; event wiring happens separately in
// SetupEventHandlers.
func NewDatasetSection(b *Builder, loc *i18n.Locale, dataset *handler.DatasetHandler) *DatasetSection {
	s := &DatasetSection{}

	names, err := dataset.Datasets()
	if err != nil {
		names = nil
	}
	var initial any
	if len(names) > 0 {
		initial = names[0]
	}

	s.Root = b.Accordion(loc.T("dataset.header"), false, func() {
		b.Row(func() {
			s.DatasetDropdown = b.Dropdown(loc.T("dataset.dataset"), Props{Choices: names, Value: initial})
			s.SearchBox = b.Textbox(loc.T("dataset.search"), Props{Placeholder: loc.T("dataset.search")})
			s.RefreshBtn = b.Button(loc.T("dataset.refresh"), Props{})
		})
		b.Row(func() {
			s.SampleTable = b.Table(loc.T("dataset.samples"), Props{
				Headers: []string{"id", "caption", "duration"},
				Value:   [][]string{},
			})
			b.Column(func() {
				s.PreviewAudio = b.Audio(loc.T("dataset.preview"), Props{Interactive: Bool(false)})
				s.CaptionBox = b.Textbox(loc.T("dataset.caption"), Props{Lines: 2, Interactive: Bool(false)})
				s.NotesHTML = b.HTML("")
			})
		})
	})
	return s
}

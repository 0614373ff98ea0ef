package webui

// Kind identifies the widget type a Component renders as.
type Kind string

const (
	KindTextbox   Kind = "textbox"
	KindNumber    Kind = "number"
	KindSlider    Kind = "slider"
	KindDropdown  Kind = "dropdown"
	KindCheckbox  Kind = "checkbox"
	KindRadio     Kind = "radio"
	KindButton    Kind = "button"
	KindAudio     Kind = "audio"
	KindFile      Kind = "file"
	KindMarkdown  Kind = "markdown"
	KindHTML      Kind = "html"
	KindTable     Kind = "table"
	KindAccordion Kind = "accordion"
	KindRow       Kind = "row"
	KindColumn    Kind = "column"
	KindTab       Kind = "tab"
)

// Component is a single UI element handle. Components are created through a
// Builder, which assigns stable IDs; section constructors keep the returned
// pointers in typed structs so event wiring never goes through string lookup.
type Component struct {
	ID          string       `json:"id"`
	Kind        Kind         `json:"kind"`
	Label       string       `json:"label,omitempty"`
	Value       any          `json:"value,omitempty"`
	Choices     []string     `json:"choices,omitempty"`
	Min         float64      `json:"min,omitempty"`
	Max         float64      `json:"max,omitempty"`
	Step        float64      `json:"step,omitempty"`
	Lines       int          `json:"lines,omitempty"`
	Placeholder string       `json:"placeholder,omitempty"`
	Info        string       `json:"info,omitempty"`
	Variant     string       `json:"variant,omitempty"`
	Interactive bool         `json:"interactive"`
	Visible     bool         `json:"visible"`
	Open        bool         `json:"open,omitempty"`
	Headers     []string     `json:"headers,omitempty"`
	Children    []*Component `json:"children,omitempty"`
}

// Props carries the optional settings shared by all component constructors.
// Zero values mean "default": interactive, visible, no choices, no range.
type Props struct {
	Value       any
	Choices     []string
	Min         float64
	Max         float64
	Step        float64
	Lines       int
	Placeholder string
	Info        string
	Variant     string // button variant: "primary", "stop", ""
	Interactive *bool
	Visible     *bool
	Open        bool // accordion initial state
	Headers     []string
}

func (p Props) apply(c *Component) {
	c.Value = p.Value
	c.Choices = p.Choices
	c.Min = p.Min
	c.Max = p.Max
	c.Step = p.Step
	c.Lines = p.Lines
	c.Placeholder = p.Placeholder
	c.Info = p.Info
	c.Variant = p.Variant
	c.Open = p.Open
	c.Headers = p.Headers
	c.Interactive = true
	if p.Interactive != nil {
		c.Interactive = *p.Interactive
	}
	c.Visible = true
	if p.Visible != nil {
		c.Visible = *p.Visible
	}
}

// Bool returns a pointer for Props.Interactive / Props.Visible.
func Bool(v bool) *bool { return &v }

package webui

import (
	"context"
	"fmt"
)

// Event names the interaction that fires a binding.
type Event string

const (
	EventClick  Event = "click"
	EventChange Event = "change"
	EventSelect Event = "select"
	EventSubmit Event = "submit"
	EventLoad   Event = "load"
)

// HandlerFunc receives the current values of a binding's input components, in
// declaration order, and returns one Update per output component, in
// declaration order.
type HandlerFunc func(ctx context.Context, in []any) ([]Update, error)

// Binding wires a component event to a handler with explicit input and output
// component lists.
type Binding struct {
	ID      string   `json:"id"`
	Event   Event    `json:"event"`
	Target  string   `json:"target,omitempty"`
	Inputs  []string `json:"inputs"`
	Outputs []string `json:"outputs"`

	handler HandlerFunc
}

// Builder accumulates components, event bindings, and load steps for a page.
// It replaces an ambient page-construction context: the builder value is
// threaded through every section constructor, and Finalize produces the
// immutable Page.
type Builder struct {
	title     string
	roots     []*Component
	stack     []*Component
	bindings  []*Binding
	loadSteps []*Binding
	nextComp  int
	nextBind  int
	finalized bool
}

// NewBuilder returns an empty page builder with the given page title.
func NewBuilder(title string) *Builder {
	return &Builder{title: title}
}

func (b *Builder) add(kind Kind, label string, p Props) *Component {
	if b.finalized {
		panic("webui: builder used after Finalize")
	}
	c := &Component{Kind: kind, Label: label}
	p.apply(c)
	b.nextComp++
	c.ID = fmt.Sprintf("c%03d", b.nextComp)
	if n := len(b.stack); n > 0 {
		parent := b.stack[n-1]
		parent.Children = append(parent.Children, c)
	} else {
		b.roots = append(b.roots, c)
	}
	return c
}

// Textbox adds a single- or multi-line text input.
func (b *Builder) Textbox(label string, p Props) *Component {
	return b.add(KindTextbox, label, p)
}

// Number adds a numeric input.
func (b *Builder) Number(label string, p Props) *Component {
	return b.add(KindNumber, label, p)
}

// Slider adds a ranged numeric input.
func (b *Builder) Slider(label string, p Props) *Component {
	return b.add(KindSlider, label, p)
}

// Dropdown adds a single-choice select.
func (b *Builder) Dropdown(label string, p Props) *Component {
	return b.add(KindDropdown, label, p)
}

// Checkbox adds a boolean toggle.
func (b *Builder) Checkbox(label string, p Props) *Component {
	return b.add(KindCheckbox, label, p)
}

// Radio adds a single-choice radio group.
func (b *Builder) Radio(label string, p Props) *Component {
	return b.add(KindRadio, label, p)
}

// Button adds a clickable button.
func (b *Builder) Button(label string, p Props) *Component {
	return b.add(KindButton, label, p)
}

// Audio adds an audio player. Its value is a URL or file path.
func (b *Builder) Audio(label string, p Props) *Component {
	return b.add(KindAudio, label, p)
}

// File adds a file picker.
func (b *Builder) File(label string, p Props) *Component {
	return b.add(KindFile, label, p)
}

// Markdown adds a rendered-markdown block. Value is the markdown source.
func (b *Builder) Markdown(value string) *Component {
	return b.add(KindMarkdown, "", Props{Value: value})
}

// HTML adds a raw HTML block.
func (b *Builder) HTML(value string) *Component {
	return b.add(KindHTML, "", Props{Value: value})
}

// Table adds a tabular display. Value is [][]string rows.
func (b *Builder) Table(label string, p Props) *Component {
	return b.add(KindTable, label, p)
}

// Group adds a container component and invokes build with the container on
// the builder's stack, so components added inside become its children.
func (b *Builder) Group(kind Kind, label string, p Props, build func()) *Component {
	c := b.add(kind, label, p)
	b.stack = append(b.stack, c)
	build()
	b.stack = b.stack[:len(b.stack)-1]
	return c
}

// Row lays out children horizontally.
func (b *Builder) Row(build func()) *Component {
	return b.Group(KindRow, "", Props{}, build)
}

// Column lays out children vertically.
func (b *Builder) Column(build func()) *Component {
	return b.Group(KindColumn, "", Props{}, build)
}

// Accordion adds a collapsible container.
func (b *Builder) Accordion(label string, open bool, build func()) *Component {
	return b.Group(KindAccordion, label, Props{Open: open}, build)
}

// Tab adds a tab container.
func (b *Builder) Tab(label string, build func()) *Component {
	return b.Group(KindTab, label, Props{}, build)
}

// On registers an event binding on target. Inputs are read in order when the
// event fires; the handler's updates are scattered across outputs in order.
func (b *Builder) On(event Event, target *Component, h HandlerFunc, inputs, outputs []*Component) *Binding {
	if b.finalized {
		panic("webui: builder used after Finalize")
	}
	b.nextBind++
	bind := &Binding{
		ID:      fmt.Sprintf("evt%03d", b.nextBind),
		Event:   event,
		Target:  target.ID,
		Inputs:  componentIDs(inputs),
		Outputs: componentIDs(outputs),
		handler: h,
	}
	b.bindings = append(b.bindings, bind)
	return bind
}

// LoadChain appends strictly-ordered page-load steps. Each Then step starts
// only after the previous step's outputs have been applied.
type LoadChain struct {
	b *Builder
}

// OnLoad schedules a handler to run when the page loads in the client.
func (b *Builder) OnLoad(h HandlerFunc, inputs, outputs []*Component) *LoadChain {
	if b.finalized {
		panic("webui: builder used after Finalize")
	}
	b.nextBind++
	bind := &Binding{
		ID:      fmt.Sprintf("evt%03d", b.nextBind),
		Event:   EventLoad,
		Inputs:  componentIDs(inputs),
		Outputs: componentIDs(outputs),
		handler: h,
	}
	b.loadSteps = append(b.loadSteps, bind)
	return &LoadChain{b: b}
}

// Then schedules a follow-up load step after the chain's previous step.
func (lc *LoadChain) Then(h HandlerFunc, inputs, outputs []*Component) *LoadChain {
	lc.b.OnLoad(h, inputs, outputs)
	return lc
}

// Finalize freezes the builder into an immutable Page. The builder must not
// be used afterwards.
func (b *Builder) Finalize() (*Page, error) {
	if b.finalized {
		return nil, fmt.Errorf("webui: page already finalized")
	}
	if len(b.stack) > 0 {
		return nil, fmt.Errorf("webui: %d container(s) left open", len(b.stack))
	}
	b.finalized = true

	p := &Page{
		Title:     b.title,
		roots:     b.roots,
		byID:      make(map[string]*Component),
		bindings:  b.bindings,
		byBinding: make(map[string]*Binding),
		loadSteps: b.loadSteps,
	}
	var walk func(cs []*Component) error
	walk = func(cs []*Component) error {
		for _, c := range cs {
			if _, dup := p.byID[c.ID]; dup {
				return fmt.Errorf("webui: duplicate component id %q", c.ID)
			}
			p.byID[c.ID] = c
			if err := walk(c.Children); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(b.roots); err != nil {
		return nil, err
	}
	for _, bind := range b.bindings {
		p.byBinding[bind.ID] = bind
	}
	for _, bind := range b.loadSteps {
		p.byBinding[bind.ID] = bind
	}
	return p, nil
}

func componentIDs(cs []*Component) []string {
	ids := make([]string, len(cs))
	for i, c := range cs {
		ids[i] = c.ID
	}
	return ids
}

package webui

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Page is the immutable result of Builder.Finalize: the component tree, the
// event bindings, and the ordered page-load steps.
type Page struct {
	Title string

	roots     []*Component
	byID      map[string]*Component
	bindings  []*Binding
	byBinding map[string]*Binding
	loadSteps []*Binding
}

// Components returns the root components in declaration order.
func (p *Page) Components() []*Component { return p.roots }

// Component returns the component with the given ID, or nil.
func (p *Page) Component(id string) *Component { return p.byID[id] }

// Bindings returns the event bindings in declaration order, excluding load
// steps.
func (p *Page) Bindings() []*Binding { return p.bindings }

// Binding returns the binding (event or load step) with the given ID, or nil.
func (p *Page) Binding(id string) *Binding { return p.byBinding[id] }

// LoadSteps returns the page-load steps in execution order.
func (p *Page) LoadSteps() []*Binding { return p.loadSteps }

// MarshalJSON serializes the page for the frontend: the component tree plus
// binding metadata (handlers stay server-side).
func (p *Page) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Title      string       `json:"title"`
		Components []*Component `json:"components"`
		Bindings   []*Binding   `json:"bindings"`
		LoadSteps  []string     `json:"loadSteps"`
	}{
		Title:      p.Title,
		Components: p.roots,
		Bindings:   p.bindings,
		LoadSteps:  bindingIDs(p.loadSteps),
	})
}

func bindingIDs(bs []*Binding) []string {
	ids := make([]string, len(bs))
	for i, b := range bs {
		ids[i] = b.ID
	}
	return ids
}

// Session tracks per-client component values on top of an immutable Page and
// executes bindings against them.
type Session struct {
	page *Page

	mu     sync.Mutex
	values map[string]any
}

// NewSession seeds a session with the page's initial component values.
func NewSession(p *Page) *Session {
	s := &Session{page: p, values: make(map[string]any)}
	var walk func(cs []*Component)
	walk = func(cs []*Component) {
		for _, c := range cs {
			if c.Value != nil {
				s.values[c.ID] = c.Value
			}
			walk(c.Children)
		}
	}
	walk(p.roots)
	return s
}

// Page returns the session's page.
func (s *Session) Page() *Page { return s.page }

// Value returns the current value of a component in this session.
func (s *Session) Value(id string) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[id]
}

// Dispatch runs the binding with the given ID. Client-supplied values
// override the session's stored values for the binding's inputs; value
// updates returned by the handler are folded back into the session.
func (s *Session) Dispatch(ctx context.Context, bindingID string, client map[string]any) (map[string]Update, error) {
	bind := s.page.Binding(bindingID)
	if bind == nil {
		return nil, fmt.Errorf("webui: unknown binding %q", bindingID)
	}
	return s.run(ctx, bind, client)
}

// RunLoad executes the page's load steps strictly in order, calling emit with
// each step's updates before the next step starts. A step's error stops the
// chain.
func (s *Session) RunLoad(ctx context.Context, emit func(updates map[string]Update) error) error {
	for _, step := range s.page.LoadSteps() {
		updates, err := s.run(ctx, step, nil)
		if err != nil {
			return fmt.Errorf("load step %s: %w", step.ID, err)
		}
		if emit != nil {
			if err := emit(updates); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Session) run(ctx context.Context, bind *Binding, client map[string]any) (map[string]Update, error) {
	s.mu.Lock()
	in := make([]any, len(bind.Inputs))
	for i, id := range bind.Inputs {
		if v, ok := client[id]; ok {
			s.values[id] = v
			in[i] = v
			continue
		}
		in[i] = s.values[id]
	}
	s.mu.Unlock()

	updates, err := bind.handler(ctx, in)
	if err != nil {
		return nil, err
	}
	if len(updates) != len(bind.Outputs) {
		return nil, fmt.Errorf("webui: binding %s returned %d update(s) for %d output(s)", bind.ID, len(updates), len(bind.Outputs))
	}

	out := make(map[string]Update, len(updates))
	s.mu.Lock()
	for i, u := range updates {
		id := bind.Outputs[i]
		if u.IsZero() {
			continue
		}
		if u.HasValue {
			s.values[id] = u.Value
		}
		out[id] = u
	}
	s.mu.Unlock()
	return out, nil
}

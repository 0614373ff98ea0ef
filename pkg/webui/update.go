package webui

// Update is a partial change applied to a component after an event handler
// runs. It mirrors the shape the frontend applies: any combination of a new
// value, an interactivity toggle, a visibility toggle, and replacement
// choices. The zero Update changes nothing and is valid as a "skip" slot in a
// handler's output list.
type Update struct {
	Value       any      `json:"value,omitempty"`
	HasValue    bool     `json:"hasValue,omitempty"`
	Interactive *bool    `json:"interactive,omitempty"`
	Visible     *bool    `json:"visible,omitempty"`
	Choices     []string `json:"choices,omitempty"`
}

// ValueOf returns an Update that sets a component's value.
func ValueOf(v any) Update {
	return Update{Value: v, HasValue: true}
}

// Interactive returns an Update toggling whether a component accepts input.
func Interactive(enabled bool) Update {
	return Update{Interactive: &enabled}
}

// Visible returns an Update toggling a component's visibility.
func Visible(shown bool) Update {
	return Update{Visible: &shown}
}

// Skip returns an Update that leaves the target component unchanged.
func Skip() Update { return Update{} }

// WithInteractive returns a copy of u that also toggles interactivity.
func (u Update) WithInteractive(enabled bool) Update {
	u.Interactive = &enabled
	return u
}

// WithVisible returns a copy of u that also toggles visibility.
func (u Update) WithVisible(shown bool) Update {
	u.Visible = &shown
	return u
}

// IsZero reports whether the update changes anything.
func (u Update) IsZero() bool {
	return !u.HasValue && u.Interactive == nil && u.Visible == nil && u.Choices == nil
}

package webui

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// TestBuilder_ComponentIDs verifies IDs are assigned in declaration order and
// nesting lands children under their container.
func TestBuilder_ComponentIDs(t *testing.T) {
	b := NewBuilder("test")
	first := b.Textbox("first", Props{})
	var inner *Component
	row := b.Row(func() {
		inner = b.Button("inner", Props{})
	})

	if first.ID != "c001" {
		t.Errorf("first ID = %s, expected c001", first.ID)
	}
	if row.ID != "c002" {
		t.Errorf("row ID = %s, expected c002", row.ID)
	}
	if inner.ID != "c003" {
		t.Errorf("inner ID = %s, expected c003", inner.ID)
	}
	if len(row.Children) != 1 || row.Children[0] != inner {
		t.Error("inner component not attached to row")
	}

	page, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	if page.Component("c003") != inner {
		t.Error("page lookup did not find nested component")
	}
	if len(page.Components()) != 2 {
		t.Errorf("roots = %d, expected 2", len(page.Components()))
	}
}

// TestBuilder_FinalizeTwice verifies the builder refuses reuse.
func TestBuilder_FinalizeTwice(t *testing.T) {
	b := NewBuilder("test")
	b.Textbox("x", Props{})
	if _, err := b.Finalize(); err != nil {
		t.Fatalf("first Finalize failed: %v", err)
	}
	if _, err := b.Finalize(); err == nil {
		t.Error("second Finalize should fail")
	}
}

// TestSession_Dispatch verifies input resolution order: client values override
// session values, and value updates fold back into the session.
func TestSession_Dispatch(t *testing.T) {
	b := NewBuilder("test")
	in := b.Textbox("in", Props{Value: "initial"})
	out := b.Textbox("out", Props{})
	btn := b.Button("go", Props{})
	bind := b.On(EventClick, btn, func(ctx context.Context, args []any) ([]Update, error) {
		return []Update{ValueOf("echo:" + args[0].(string))}, nil
	}, []*Component{in}, []*Component{out})
	page, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	session := NewSession(page)

	// Stored value is used when the client sends nothing.
	updates, err := session.Dispatch(context.Background(), bind.ID, nil)
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if updates[out.ID].Value != "echo:initial" {
		t.Errorf("update = %v", updates[out.ID].Value)
	}

	// Client value overrides and sticks.
	updates, err = session.Dispatch(context.Background(), bind.ID, map[string]any{in.ID: "typed"})
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if updates[out.ID].Value != "echo:typed" {
		t.Errorf("update = %v", updates[out.ID].Value)
	}
	if session.Value(in.ID) != "typed" {
		t.Errorf("session value = %v, expected typed", session.Value(in.ID))
	}
	if session.Value(out.ID) != "echo:typed" {
		t.Errorf("output value not folded back: %v", session.Value(out.ID))
	}
}

// TestSession_DispatchArityMismatch verifies a handler returning the wrong
// number of updates is an error, not a silent truncation.
func TestSession_DispatchArityMismatch(t *testing.T) {
	b := NewBuilder("test")
	a := b.Textbox("a", Props{})
	c := b.Textbox("c", Props{})
	btn := b.Button("go", Props{})
	bind := b.On(EventClick, btn, func(ctx context.Context, args []any) ([]Update, error) {
		return []Update{ValueOf("only one")}, nil
	}, nil, []*Component{a, c})
	page, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	_, err = NewSession(page).Dispatch(context.Background(), bind.ID, nil)
	if err == nil {
		t.Fatal("expected arity error")
	}
}

// TestSession_DispatchUnknownBinding verifies unknown binding IDs error out.
func TestSession_DispatchUnknownBinding(t *testing.T) {
	b := NewBuilder("test")
	b.Textbox("x", Props{})
	page, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	if _, err := NewSession(page).Dispatch(context.Background(), "evt999", nil); err == nil {
		t.Error("expected error for unknown binding")
	}
}

// TestSession_RunLoadOrder verifies load steps run strictly in order and each
// step's updates are emitted before the next step starts.
func TestSession_RunLoadOrder(t *testing.T) {
	b := NewBuilder("test")
	status := b.Textbox("status", Props{})

	var order []string
	b.OnLoad(func(ctx context.Context, in []any) ([]Update, error) {
		order = append(order, "step1")
		return []Update{ValueOf("one")}, nil
	}, nil, []*Component{status}).
		Then(func(ctx context.Context, in []any) ([]Update, error) {
			order = append(order, "step2")
			return []Update{ValueOf("two")}, nil
		}, nil, []*Component{status}).
		Then(func(ctx context.Context, in []any) ([]Update, error) {
			order = append(order, "step3")
			return []Update{ValueOf("three")}, nil
		}, nil, []*Component{status})

	page, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	if len(page.LoadSteps()) != 3 {
		t.Fatalf("load steps = %d, expected 3", len(page.LoadSteps()))
	}

	var seen []string
	err = NewSession(page).RunLoad(context.Background(), func(updates map[string]Update) error {
		// Each emit must happen after its step but before the next step runs.
		seen = append(seen, fmt.Sprintf("emit%d", len(order)))
		return nil
	})
	if err != nil {
		t.Fatalf("RunLoad failed: %v", err)
	}

	wantOrder := []string{"step1", "step2", "step3"}
	for i, w := range wantOrder {
		if order[i] != w {
			t.Fatalf("order = %v", order)
		}
	}
	wantSeen := []string{"emit1", "emit2", "emit3"}
	for i, w := range wantSeen {
		if seen[i] != w {
			t.Fatalf("emits = %v", seen)
		}
	}
}

// TestSession_RunLoadStopsOnError verifies a failing step halts the chain.
func TestSession_RunLoadStopsOnError(t *testing.T) {
	b := NewBuilder("test")
	status := b.Textbox("status", Props{})
	boom := errors.New("boom")

	ran := false
	b.OnLoad(func(ctx context.Context, in []any) ([]Update, error) {
		return nil, boom
	}, nil, []*Component{status}).
		Then(func(ctx context.Context, in []any) ([]Update, error) {
			ran = true
			return []Update{ValueOf("never")}, nil
		}, nil, []*Component{status})

	page, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	err = NewSession(page).RunLoad(context.Background(), nil)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, expected wrapped boom", err)
	}
	if ran {
		t.Error("second step ran after first failed")
	}
}

package tui

import (
	"slices"
	"testing"

	"github.com/charmbracelet/bubbles/key"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	want := map[string]struct {
		b    key.Binding
		keys []string
	}{
		"run":   {km.Run, []string{"enter"}},
		"quit":  {km.Quit, []string{"q", "ctrl+c"}},
		"pause": {km.Pause, []string{"p"}},
		"reset": {km.Reset, []string{"r"}},
		"hex":   {km.Hex, []string{"x"}},
		"up":    {km.Up, []string{"up"}},
		"down":  {km.Down, []string{"down"}},
		"pgup":  {km.PageUp, []string{"pgup"}},
		"pgdn":  {km.PageDown, []string{"pgdown"}},
		"help":  {km.Help, []string{"?"}},
	}
	for name, w := range want {
		if !w.b.Enabled() {
			t.Errorf("%s binding is disabled", name)
		}
		for _, k := range w.keys {
			if !slices.Contains(w.b.Keys(), k) {
				t.Errorf("%s binding %v lacks %q", name, w.b.Keys(), k)
			}
		}
		if w.b.Help().Desc == "" {
			t.Errorf("%s binding has no help text", name)
		}
	}
}

func TestKeyMap_Help(t *testing.T) {
	km := DefaultKeyMap()
	if len(km.ShortHelp()) == 0 {
		t.Fatal("ShortHelp is empty")
	}
	total := 0
	for _, col := range km.FullHelp() {
		total += len(col)
	}
	if total != 10 {
		t.Errorf("FullHelp lists %d bindings, want 10", total)
	}
}

package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"tableflip.dev/agenda/pkg/runner/list"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	cmd := New()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("agenda %s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("AGENDA_CONFIG_PATH", dir)
	t.Setenv("AGENDA_PATH", dir)
	t.Setenv("AGENDA_BACKEND", "diskv")
}

func TestNewRegistersCommands(t *testing.T) {
	cmd := New()
	want := []string{"ui", "add", "list", "import", "mark", "mcp", "version", "completion"}
	for _, name := range want {
		found := false
		for _, c := range cmd.Commands() {
			if c.Name() == name {
				found = true
			}
		}
		if !found {
			t.Fatalf("missing %q command", name)
		}
	}
}

func TestAddMarkList(t *testing.T) {
	isolate(t)

	execute(t, "add", "--on", "2024-07-04", "--start", "21:00", "fireworks")
	execute(t, "add", "--on", "2024-07-01", "breakfast")
	execute(t, "mark", "2024-07-02")

	raw := execute(t, "list", "--on", "2024-07-04", "--json")
	var got list.WindowJSON
	if err := json.Unmarshal([]byte(raw), &got); err != nil {
		t.Fatalf("decode %q: %v", raw, err)
	}
	if got.Selected != "2024-07-04" || !got.Loaded {
		t.Fatalf("unexpected header %+v", got)
	}
	if got.CountBefore != 2 || len(got.Days) != 3 {
		t.Fatalf("expected 1st, 2nd then 4th, got %+v", got.Days)
	}
	if got.Days[2].Reservations[0].Title != "fireworks" {
		t.Fatalf("unexpected selected day %+v", got.Days[2])
	}
}

func TestAddRequiresTitle(t *testing.T) {
	isolate(t)
	cmd := New()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"add", "--on", "2024-07-04"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected an error without a title")
	}
}

func TestVersionShort(t *testing.T) {
	out := execute(t, "version", "--short")
	if !strings.Contains(out, "dev") {
		t.Fatalf("expected the dev version, got %q", out)
	}
}

package launcher

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"testing"
)

func TestCommand(t *testing.T) {
	t.Parallel()

	u, err := url.Parse("tillhub://TillhubPointOfSaleSDK_1_4/checkout/cart?request=%7B%7D")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	tests := map[string]struct {
		lookErr  error
		runErr   error
		wantCan  bool
		wantOpen bool
	}{
		"installed and succeeds": {wantCan: true, wantOpen: true},
		"not installed":          {lookErr: errors.New("not found"), wantCan: false, wantOpen: true},
		"launcher fails":         {runErr: errors.New("exit status 4"), wantCan: true, wantOpen: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var gotName string
			var gotArgs []string
			c := NewCommand("xdg-open", nil, "--")
			c.lookPath = func(string) (string, error) { return "/usr/bin/xdg-open", tt.lookErr }
			c.run = func(_ context.Context, name string, args ...string) error {
				gotName, gotArgs = name, args
				return tt.runErr
			}

			if got := c.CanOpen(u); got != tt.wantCan {
				t.Fatalf("CanOpen = %v, want %v", got, tt.wantCan)
			}
			if got := c.Open(context.Background(), u); got != tt.wantOpen {
				t.Fatalf("Open = %v, want %v", got, tt.wantOpen)
			}
			if gotName != "xdg-open" || len(gotArgs) != 2 || gotArgs[0] != "--" || gotArgs[1] != u.String() {
				t.Fatalf("unexpected invocation %s %v", gotName, gotArgs)
			}
		})
	}
}

func TestNewCommandDefaults(t *testing.T) {
	t.Parallel()

	if c := NewCommand("", nil); c.Name != DefaultCommand() {
		t.Fatalf("expected default command %q, got %q", DefaultCommand(), c.Name)
	}
	if (&Command{}).CanOpen(nil) {
		t.Fatalf("nil url must not be openable")
	}
}

func TestPrinter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := Printer{W: &buf}
	u, _ := url.Parse("myapp://TillhubPointOfSaleSDK_1_4/load/cart?response=x")
	if !p.CanOpen(u) || !p.Open(context.Background(), u) {
		t.Fatalf("printer must always open")
	}
	if buf.String() != u.String()+"\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

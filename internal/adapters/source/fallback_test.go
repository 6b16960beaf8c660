package source

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"
)

type fakeSource struct {
	name  string
	ids   []string
	err   error
	calls int
}

func (f *fakeSource) String() string { return f.name }

func (f *fakeSource) FetchIdentifiers(ctx context.Context) ([]string, error) {
	f.calls++
	return f.ids, f.err
}

type recordingNotifier struct {
	messages []string
}

func (r *recordingNotifier) Notify(ctx context.Context, text string) error {
	r.messages = append(r.messages, text)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFallbackPrefersLocal(t *testing.T) {
	local := &fakeSource{name: "local", ids: []string{"web"}}
	remote := &fakeSource{name: "remote", ids: []string{"db"}}
	n := &recordingNotifier{}

	ids, err := NewFallback(local, remote, n, quietLogger()).FetchIdentifiers(context.Background())
	if err != nil || !reflect.DeepEqual(ids, []string{"web"}) {
		t.Fatalf("got %q, %v", ids, err)
	}
	if remote.calls != 0 {
		t.Error("remote consulted although local succeeded")
	}
	if len(n.messages) != 0 {
		t.Errorf("unexpected notifications: %q", n.messages)
	}
}

func TestFallbackToRemote(t *testing.T) {
	tests := []struct {
		name       string
		local      *fakeSource
		wantNotify int
	}{
		{name: "missing local", local: &fakeSource{name: "local", err: ErrSourceUnavailable}},
		{name: "empty local", local: &fakeSource{name: "local", ids: []string{}}},
		{name: "corrupt local", local: &fakeSource{name: "local", err: errors.New("parse json")}, wantNotify: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := &fakeSource{name: "remote", ids: []string{"db"}}
			n := &recordingNotifier{}
			ids, err := NewFallback(tt.local, remote, n, quietLogger()).FetchIdentifiers(context.Background())
			if err != nil || !reflect.DeepEqual(ids, []string{"db"}) {
				t.Fatalf("got %q, %v", ids, err)
			}
			if len(n.messages) != tt.wantNotify {
				t.Errorf("notifications = %q, want %d", n.messages, tt.wantNotify)
			}
		})
	}
}

func TestFallbackRemoteFailure(t *testing.T) {
	local := &fakeSource{name: "local", err: ErrSourceUnavailable}
	remote := &fakeSource{name: "remote document https://example.com/c.json", err: errors.New("status 500")}
	n := &recordingNotifier{}

	ids, err := NewFallback(local, remote, n, quietLogger()).FetchIdentifiers(context.Background())
	if err == nil || len(ids) != 0 {
		t.Fatalf("got %q, %v; want error and no ids", ids, err)
	}
	if len(n.messages) != 1 || !strings.Contains(n.messages[0], "https://example.com/c.json") {
		t.Errorf("notifications = %q", n.messages)
	}
}

func TestFallbackWithoutRemote(t *testing.T) {
	local := &fakeSource{name: "local", err: ErrSourceUnavailable}
	ids, err := NewFallback(local, nil, nil, quietLogger()).FetchIdentifiers(context.Background())
	if err == nil || len(ids) != 0 {
		t.Fatalf("got %q, %v; want error", ids, err)
	}
}

package notify

import (
	"testing"
	"time"
)

func TestMessagesExpire(t *testing.T) {
	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewCenter(3 * time.Second)
	c.now = func() time.Time { return clock }

	c.Success("saved")
	c.Error("boom")

	if got := c.Active(); len(got) != 2 {
		t.Fatalf("want 2 active, got %d", len(got))
	}

	clock = clock.Add(2 * time.Second)
	c.Info("still here")
	if got := c.Active(); len(got) != 3 {
		t.Fatalf("want 3 active, got %d", len(got))
	}

	// First two are now past the TTL; the third is not.
	clock = clock.Add(1500 * time.Millisecond)
	got := c.Active()
	if len(got) != 1 || got[0].Text != "still here" {
		t.Fatalf("unexpected survivors: %+v", got)
	}

	clock = clock.Add(3 * time.Second)
	if got := c.Active(); len(got) != 0 {
		t.Fatalf("want none, got %+v", got)
	}
}

func TestClear(t *testing.T) {
	c := NewCenter(0)
	c.Info("a")
	c.Clear()
	if got := c.Active(); len(got) != 0 {
		t.Fatalf("clear left %+v", got)
	}
}

func TestLevelString(t *testing.T) {
	cases := map[Level]string{LevelInfo: "info", LevelSuccess: "success", LevelError: "error"}
	for l, want := range cases {
		if l.String() != want {
			t.Fatalf("%d: got %q want %q", l, l.String(), want)
		}
	}
}

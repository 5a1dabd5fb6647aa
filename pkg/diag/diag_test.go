package diag

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

func silentLog() *Log {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewWithLogger(logger)
}

func TestMessagesKeepAppendOrder(t *testing.T) {
	l := silentLog()
	l.Infof("first %d", 1)
	l.Warnf("second")
	l.Errorf("third")

	got := l.Messages()
	want := []string{"first 1", "second", "third"}
	if len(got) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("message %d = %q, expected %q", i, got[i], want[i])
		}
	}
	if l.Len() != 3 {
		t.Errorf("Len = %d", l.Len())
	}
}

func TestMessagesReturnsACopy(t *testing.T) {
	l := silentLog()
	l.Infof("original")

	msgs := l.Messages()
	msgs[0] = "mutated"

	if l.Messages()[0] != "original" {
		t.Fatal("Messages must not expose internal state")
	}
}

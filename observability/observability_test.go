package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestFieldConstructors(t *testing.T) {
	if f := String("doc", "paper.pdf"); f.Key() != "doc" || f.Value() != "paper.pdf" {
		t.Fatalf("string field: %v=%v", f.Key(), f.Value())
	}
	if f := Int("page", 3); f.Key() != "page" || f.Value() != 3 {
		t.Fatalf("int field: %v=%v", f.Key(), f.Value())
	}
	if f := Float64("width", 595.0); f.Key() != "width" || f.Value() != 595.0 {
		t.Fatalf("float field: %v=%v", f.Key(), f.Value())
	}
}

func TestNopLoggerIsSafe(t *testing.T) {
	var l Logger = NopLogger{}
	l = l.With(String("doc", "x"))
	l.Debug("ignored")
	l.Error("ignored", Error("err", nil))
}

func TestLogrusAdapterCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	backend := logrus.New()
	backend.SetOutput(&buf)
	backend.SetLevel(logrus.DebugLevel)

	log := NewLogrus(backend).With(String("doc", "paper.pdf"))
	log.Info("checked", Int("pages", 4))

	out := buf.String()
	for _, want := range []string{"checked", "doc=paper.pdf", "pages=4"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %q: %s", want, out)
		}
	}
}

package logger

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestANSIToHTML(t *testing.T) {
	got := ansiToHTML("\033[32minfo\033[0m done <ok>")
	want := `<pre><span style="color: green;">info</span> done &lt;ok&gt;</pre>`
	if got != want {
		t.Errorf("ansiToHTML() = %q, want %q", got, want)
	}
}

func TestANSIToHTMLUnclosed(t *testing.T) {
	got := ansiToHTML("\033[31merror")
	if !strings.HasSuffix(got, "</span></pre>") {
		t.Errorf("ansiToHTML() = %q, want the open span closed", got)
	}
}

func TestBufferedLogger(t *testing.T) {
	l := New(Options{Level: "info"})
	l.Debug("hidden")
	l.Info("[f] visible", zap.Int("sites", 3))

	html := l.HTML()
	if strings.Contains(html, "hidden") {
		t.Errorf("debug message written at info level: %s", html)
	}
	if !strings.Contains(html, "[f] visible") || !strings.Contains(html, "sites") {
		t.Errorf("HTML() = %s, want the info message with its fields", html)
	}

	l.ClearLogs()
	if got := l.HTML(); got != "<pre></pre>" {
		t.Errorf("HTML() after ClearLogs = %q", got)
	}
}

func TestWithSharesBuffer(t *testing.T) {
	l := New()
	l.With(zap.String("pass", "0")).Warn("child")
	if !strings.Contains(l.HTML(), "child") {
		t.Errorf("child logger output missing from parent buffer")
	}
}

func TestFromZapAndNop(t *testing.T) {
	l := FromZap(zaptest.NewLogger(t))
	l.Info("through zaptest")
	if got := l.HTML(); got != "<pre></pre>" {
		t.Errorf("FromZap().HTML() = %q, want empty block", got)
	}

	n := NewNop()
	n.Error("dropped")
	if n.Enabled(zap.ErrorLevel) {
		t.Errorf("NewNop() must not enable any level")
	}
}

package tui

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rickgao/newsdesk/internal/model"
)

type recordingProgram struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (p *recordingProgram) Send(msg tea.Msg) {
	p.mu.Lock()
	p.msgs = append(p.msgs, msg)
	p.mu.Unlock()
}

func TestProgramSinkDropsBeforeAttach(t *testing.T) {
	s := NewProgramSink(nil)
	s.RenderFact("dropped")

	p := &recordingProgram{}
	s.Attach(p)
	s.RenderFact("kept")
	s.RenderError("boom")
	s.RenderVerdict(model.Verdict{Prediction: "Real"})
	s.RenderNewsList([]model.Article{{URL: "u"}})
	s.RenderStatus("Reconnecting... attempt 1")
	s.ClearError()

	want := []tea.Msg{
		factMsg{text: "kept"},
		errorMsg{text: "boom"},
		verdictMsg{verdict: model.Verdict{Prediction: "Real"}},
	}
	if len(p.msgs) != 6 {
		t.Fatalf("len(msgs) = %d, want 6", len(p.msgs))
	}
	for i, w := range want {
		if p.msgs[i] != w {
			t.Errorf("msgs[%d] = %#v, want %#v", i, p.msgs[i], w)
		}
	}
	if _, ok := p.msgs[3].(newsMsg); !ok {
		t.Errorf("msgs[3] = %T, want newsMsg", p.msgs[3])
	}
	if p.msgs[4] != (statusMsg{text: "Reconnecting... attempt 1"}) {
		t.Errorf("msgs[4] = %#v, want statusMsg", p.msgs[4])
	}
	if p.msgs[5] != (clearErrorMsg{}) {
		t.Errorf("msgs[5] = %#v, want clearErrorMsg", p.msgs[5])
	}
}

func TestPlainSinkVerdict(t *testing.T) {
	var buf bytes.Buffer
	s := NewPlainSink(&buf)

	s.RenderVerdict(model.Verdict{Prediction: "Fake", Confidence: 0.873, Message: "Likely fabricated"})

	out := buf.String()
	if !strings.Contains(out, "Prediction: Fake (87.3% confidence)") {
		t.Errorf("output = %q, want prediction with 87.3%%", out)
	}
	if !strings.Contains(out, "Likely fabricated") {
		t.Errorf("output = %q, want message", out)
	}

	select {
	case <-s.Done():
	default:
		t.Error("Done not closed after verdict")
	}
}

func TestPlainSinkStatusIsNotAReply(t *testing.T) {
	var buf bytes.Buffer
	s := NewPlainSink(&buf)

	s.RenderStatus("Reconnecting... attempt 2")
	select {
	case <-s.Done():
		t.Fatal("Done closed after status line")
	default:
	}

	s.RenderFact("Honey never spoils")
	s.RenderError("second reply")
	select {
	case <-s.Done():
	default:
		t.Fatal("Done not closed after fact")
	}

	want := "Reconnecting... attempt 2\nFact: Honey never spoils\nError: second reply\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestWriteArticles(t *testing.T) {
	var buf bytes.Buffer
	WriteArticles(&buf, []model.Article{
		{Title: "Rates hold", Description: "The bank kept rates flat.", URL: "https://example.com/rates", Source: "Wire"},
		{URL: "https://example.com/empty"},
	})

	out := buf.String()
	for _, want := range []string{
		"1. Rates hold",
		"Wire · 1 min read",
		"https://example.com/rates",
		"2. " + model.NoTitle,
		model.UnknownSource,
		model.NoDescription,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

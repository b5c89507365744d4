package tui

import (
	"fmt"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rickgao/newsdesk/internal/model"
)

// messenger is satisfied by *tea.Program.
type messenger interface {
	Send(msg tea.Msg)
}

// ProgramSink forwards router output into a running bubbletea program.
// Output sent before Attach is dropped. Safe for concurrent use.
type ProgramSink struct {
	mu sync.RWMutex
	p  messenger
}

// NewProgramSink creates a sink that sends to p, which may be nil until
// the program exists.
func NewProgramSink(p messenger) *ProgramSink {
	return &ProgramSink{p: p}
}

// Attach sets the program that receives output.
func (s *ProgramSink) Attach(p messenger) {
	s.mu.Lock()
	s.p = p
	s.mu.Unlock()
}

func (s *ProgramSink) RenderFact(text string) { s.send(factMsg{text: text}) }

func (s *ProgramSink) RenderNewsList(articles []model.Article) {
	s.send(newsMsg{articles: articles})
}

func (s *ProgramSink) RenderError(text string) { s.send(errorMsg{text: text}) }

func (s *ProgramSink) RenderVerdict(v model.Verdict) { s.send(verdictMsg{verdict: v}) }

func (s *ProgramSink) RenderStatus(text string) { s.send(statusMsg{text: text}) }

func (s *ProgramSink) ClearError() { s.send(clearErrorMsg{}) }

func (s *ProgramSink) send(msg tea.Msg) {
	s.mu.RLock()
	p := s.p
	s.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// PlainSink writes router output as plain lines. Done is closed after the
// first reply from the server, which is what one-shot commands wait for.
type PlainSink struct {
	mu   sync.Mutex
	w    io.Writer
	once sync.Once
	done chan struct{}
}

// NewPlainSink creates a sink writing to w.
func NewPlainSink(w io.Writer) *PlainSink {
	return &PlainSink{w: w, done: make(chan struct{})}
}

// Done is closed once a fact, news list, error or verdict has been written.
func (s *PlainSink) Done() <-chan struct{} {
	return s.done
}

func (s *PlainSink) RenderFact(text string) {
	s.write("Fact: %s\n", text)
	s.replied()
}

func (s *PlainSink) RenderNewsList(articles []model.Article) {
	s.mu.Lock()
	writeArticles(s.w, articles)
	s.mu.Unlock()
	s.replied()
}

func (s *PlainSink) RenderError(text string) {
	s.write("Error: %s\n", text)
	s.replied()
}

func (s *PlainSink) RenderVerdict(v model.Verdict) {
	s.write("Prediction: %s (%s confidence)\n", v.Prediction, v.ConfidencePercent())
	if v.Message != "" {
		s.write("%s\n", v.Message)
	}
	s.replied()
}

func (s *PlainSink) RenderStatus(text string) {
	s.write("%s\n", text)
}

func (s *PlainSink) write(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, format, args...)
}

func (s *PlainSink) replied() {
	s.once.Do(func() { close(s.done) })
}

// WriteArticles prints a numbered article list.
func WriteArticles(w io.Writer, articles []model.Article) {
	writeArticles(w, articles)
}

func writeArticles(w io.Writer, articles []model.Article) {
	for i, a := range articles {
		a = a.WithDefaults()
		fmt.Fprintf(w, "%d. %s\n", i+1, a.Title)
		fmt.Fprintf(w, "   %s · %d min read\n", a.Source, a.ReadingMinutes())
		fmt.Fprintf(w, "   %s\n", a.Description)
		if a.URL != "" {
			fmt.Fprintf(w, "   %s\n", a.URL)
		}
	}
}

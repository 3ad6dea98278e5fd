package types

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gosuri/uilive"
)

// TERMINAL PRINTER

// TerminalPrinter keeps a single live-updating status line per experiment
type TerminalPrinter struct {
	writer *uilive.Writer
	// print at most once every `every` episodes
	every int

	lock    sync.Mutex
	running bool
	last    string
}

func NewTerminalPrinter(out io.Writer, every int) *TerminalPrinter {
	writer := uilive.New()
	writer.Out = out
	writer.RefreshInterval = 100 * time.Millisecond
	if every < 1 {
		every = 1
	}
	return &TerminalPrinter{
		writer: writer,
		every:  every,
	}
}

func (p *TerminalPrinter) Start() {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.running {
		return
	}
	p.running = true
	p.writer.Start()
}

func (p *TerminalPrinter) Stop() {
	p.lock.Lock()
	defer p.lock.Unlock()
	if !p.running {
		return
	}
	p.running = false
	p.writer.Stop()
}

// Update records the progress of an experiment
func (p *TerminalPrinter) Update(name string, episode, total int) {
	if episode%p.every != 0 && episode != total {
		return
	}
	p.lock.Lock()
	defer p.lock.Unlock()
	p.last = fmt.Sprintf("Exp: %s, Eps: %d/%d [%5.1f%%]", name, episode, total, float64(episode)/float64(total)*100)
	if p.running {
		fmt.Fprintln(p.writer, p.last)
	}
}

// Last is the most recent status line
func (p *TerminalPrinter) Last() string {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.last
}

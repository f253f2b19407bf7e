package benchmark

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/mwiater/ollamabench/internal/util"
)

// progressLine redraws a single-line progress bar for non-verbose runs.
type progressLine struct {
	out   io.Writer
	bar   progress.Model
	total int
	done  int
}

func newProgressLine(out io.Writer, total int) *progressLine {
	return &progressLine{
		out:   out,
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		total: total,
	}
}

// step marks one call as finished and redraws the line.
func (p *progressLine) step(model, prompt string) {
	if p == nil || p.total == 0 {
		return
	}
	p.done++
	fmt.Fprintf(p.out, "\r%s %d/%d %s: %s\x1b[K", p.bar.ViewAs(float64(p.done)/float64(p.total)), p.done, p.total, model, util.TruncateRunes(prompt, 40))
	if p.done == p.total {
		fmt.Fprintln(p.out)
	}
}

// interrupt ends the current line so other output starts cleanly.
func (p *progressLine) interrupt() {
	if p == nil || p.done == 0 || p.done == p.total {
		return
	}
	fmt.Fprintln(p.out)
}

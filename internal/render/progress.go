package render

import (
	"context"
	"io"
	"sync"

	"github.com/mattn/go-runewidth"
	"github.com/publieople/termseq/pkg/seqlib"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// PROGRESS_TEXT_WIDTH is the width of the current step column.
const PROGRESS_TEXT_WIDTH = 36

// Progress shows a playing sequence as a single bar: one unit per
// scheduled step, with the text of the latest step next to it.
type Progress struct {
	p   *mpb.Progress
	bar *mpb.Bar

	mu      sync.Mutex
	current string
}

// NewProgress creates the bar for tl. name labels the bar. The bar is
// torn down when ctx ends.
func NewProgress(ctx context.Context, w io.Writer, name string, tl *seqlib.Timeline) *Progress {
	pr := &Progress{}
	pr.p = mpb.NewWithContext(ctx,
		mpb.WithOutput(w),
		mpb.WithWidth(32),
		mpb.WithAutoRefresh(),
	)
	barStyle := mpb.BarStyle().Lbound("╢").Filler("█").Tip("█").Padding("░").Rbound("╟")
	pr.bar = pr.p.New(int64(tl.Len()),
		barStyle,
		mpb.PrependDecorators(
			decor.Name(name, decor.WC{W: len(name) + 1, C: decor.DindentRight}),
			decor.Any(pr.currentText, decor.WC{W: PROGRESS_TEXT_WIDTH + 1, C: decor.DindentRight}),
		),
		mpb.AppendDecorators(
			decor.OnComplete(decor.Percentage(decor.WC{W: 5}), "done"),
		),
	)
	return pr
}

func (pr *Progress) currentText(decor.Statistics) string {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	return runewidth.Truncate(pr.current, PROGRESS_TEXT_WIDTH, "…")
}

func (pr *Progress) OnStep(ctx context.Context, gen uint64, st *seqlib.ScheduledStep) {
	pr.mu.Lock()
	pr.current = Decorate(st).Plain()
	pr.mu.Unlock()
	pr.bar.SetCurrent(int64(st.Index + 1))
}

func (pr *Progress) OnComplete(gen uint64) {
	// A total of -1 means "current", which also marks the bar complete
	// for empty timelines.
	pr.bar.SetTotal(-1, true)
}

// Abort stops the bar without completing it.
func (pr *Progress) Abort() {
	pr.bar.Abort(false)
}

// Wait blocks until the bar has been drawn for the last time.
func (pr *Progress) Wait() {
	pr.p.Wait()
}

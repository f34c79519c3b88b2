package ioimport

import (
	"github.com/cheggaaa/pb/v3"
)

// progress wraps an optional progress bar.
type progress struct {
	bar *pb.ProgressBar
}

func newProgress(show bool, total int, prefix string) *progress {
	if !show || total == 0 {
		return &progress{}
	}
	bar := pb.Full.Start(total)
	bar.Set("prefix", prefix)
	bar.Set(pb.CleanOnFinish, true)
	return &progress{bar: bar}
}

func (p *progress) Increment() {
	if p.bar != nil {
		p.bar.Increment()
	}
}

func (p *progress) Finish() {
	if p.bar != nil {
		p.bar.Finish()
	}
}

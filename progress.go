package main

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// embedProgress 임베딩 배치 진행률을 터미널에 표시합니다
type embedProgress struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func newEmbedProgress(w io.Writer) *embedProgress {
	return &embedProgress{w: w}
}

// progressEnabled stderr가 터미널일 때만 진행 막대를 그립니다
func progressEnabled() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// Update db.BuildOptions.OnProgress 콜백
func (p *embedProgress) Update(done, total int) {
	if total <= 0 {
		return
	}
	if p.bar == nil {
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.w),
			progressbar.OptionSetDescription("임베딩"),
			progressbar.OptionSetWidth(32),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		)
	}
	_ = p.bar.Set(done)
	if done >= total {
		_ = p.bar.Finish()
	}
}

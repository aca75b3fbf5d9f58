package tui_test

import (
	"strings"
	"testing"

	"github.com/blackwell-systems/shelfcount/internal/catalog"
	"github.com/blackwell-systems/shelfcount/internal/classify"
	"github.com/blackwell-systems/shelfcount/internal/report"
	"github.com/blackwell-systems/shelfcount/internal/session"
	"github.com/blackwell-systems/shelfcount/internal/tui"
	xansi "github.com/charmbracelet/x/ansi"
)

func TestEventLine_Truncates(t *testing.T) {
	ev := session.Event{
		Barcode: "101200000001",
		Record:  &catalog.Record{Title: strings.Repeat("Long title ", 20)},
	}
	line := tui.EventLine(ev, 40)
	if w := xansi.StringWidth(line); w > 40 {
		t.Errorf("width = %d, want <= 40", w)
	}
	if !strings.Contains(xansi.Strip(line), "101200000001") {
		t.Errorf("line %q missing barcode", line)
	}
}

func TestEventLine_ShowsWarnings(t *testing.T) {
	ev := session.Event{
		Barcode:  "101200000001",
		Warnings: []classify.Warning{{Kind: classify.Duplicate, Message: "Already scanned in this session"}},
	}
	plain := xansi.Strip(tui.EventLine(ev, 0))
	if !strings.Contains(plain, "Already scanned") {
		t.Errorf("line = %q, want warning message", plain)
	}
	if !strings.HasPrefix(plain, "!") {
		t.Errorf("line = %q, want single-warning marker", plain)
	}
}

func TestCoverageBar_Width(t *testing.T) {
	c := report.Coverage{Valid: 3, Warned: 1, Missing: 6, Total: 10}
	bar := tui.CoverageBar(c, 20)
	if w := xansi.StringWidth(bar); w != 20 {
		t.Errorf("width = %d, want 20", w)
	}
	if tui.CoverageBar(report.Coverage{}, 20) != "" {
		t.Error("empty coverage should render nothing")
	}
}

func TestSummaryBox(t *testing.T) {
	s := report.Summary{
		Session:  "count",
		Library:  "Central",
		Coverage: report.Coverage{Valid: 1, Total: 2, Missing: 1},
		Kinds:    []report.KindCount{{Kind: classify.OnLoan, Label: "On loan", Count: 2}},
	}
	plain := xansi.Strip(tui.SummaryBox(s, 60))
	for _, want := range []string{"count · Central", "of 2 (50.0%)", "On loan"} {
		if !strings.Contains(plain, want) {
			t.Errorf("summary missing %q:\n%s", want, plain)
		}
	}
}

func TestProgressFunc_DropsWhenFull(t *testing.T) {
	ch := make(chan int, 1)
	f := tui.ProgressFunc(ch)
	f(1, 10)
	f(2, 10) // dropped, must not block
	if got := <-ch; got != 1 {
		t.Errorf("got %d, want 1", got)
	}
}

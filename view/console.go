// Package view prints scraped records for humans.
package view

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mylucky2d3d/crawler/lottery"
)

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	t.SetStyle(table.StyleRounded)
	return t
}

func Daily(w io.Writer, r lottery.DailyRecord) {
	t := newTable(w, r.Title)
	t.AppendRow(table.Row{"Date", r.Date})
	t.AppendRow(table.Row{"Live", r.LiveNumber})
	t.AppendRow(table.Row{"Updated", r.UpdatedTime})
	t.Render()

	d := newTable(w, "Draws")
	d.AppendHeader(table.Row{"Time", "Result", "Set", "Value"})
	for _, draw := range []lottery.Draw{r.AM, r.PM} {
		d.AppendRow(table.Row{draw.Time, draw.Result, draw.Set, draw.Value})
	}
	d.Render()

	supplementary(w, r.Additional)
}

func supplementary(w io.Writer, a lottery.Additional) {
	t := newTable(w, "Modern / Internet")
	t.AppendHeader(table.Row{"Time", "Modern", "Internet"})
	for _, s := range []lottery.Supplementary{a.AM, a.PM} {
		t.AppendRow(table.Row{s.Time, s.ModernValue, s.InternetValue})
	}
	t.Render()
}

func Weekly(w io.Writer, records []lottery.WeeklyRecord) {
	t := newTable(w, fmt.Sprintf("2D weekly (%d days)", len(records)))
	t.AppendHeader(table.Row{"Date", "Day",
		lottery.AMDrawTime, "Set", "Value",
		lottery.PMDrawTime, "Set", "Value",
		lottery.AMSupplementaryTime, lottery.PMSupplementaryTime})
	for _, r := range records {
		t.AppendRow(table.Row{r.Date, r.Day,
			r.AM.Result, r.AM.Set, r.AM.Value,
			r.PM.Result, r.PM.Set, r.PM.Value,
			r.Additional.AM.ModernValue + " / " + r.Additional.AM.InternetValue,
			r.Additional.PM.ModernValue + " / " + r.Additional.PM.InternetValue,
		})
	}
	t.Render()
}

func ThreeD(w io.Writer, records []lottery.ThreeDRecord) {
	t := newTable(w, fmt.Sprintf("3D (%d draws)", len(records)))
	t.AppendHeader(table.Row{"Date", "Day", "Result"})
	for _, r := range records {
		t.AppendRow(table.Row{r.Date, r.Day, r.Result})
	}
	t.Render()
}

// Any prints whichever record type data holds.
func Any(w io.Writer, data any) error {
	switch v := data.(type) {
	case lottery.DailyRecord:
		Daily(w, v)
	case []lottery.WeeklyRecord:
		Weekly(w, v)
	case []lottery.ThreeDRecord:
		ThreeD(w, v)
	default:
		return fmt.Errorf("no view for %T", data)
	}
	return nil
}

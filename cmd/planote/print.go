package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/mattn/go-isatty"

	notedto "planote/internal/modules/note/dto"
	plandto "planote/internal/modules/plan/dto"
)

var (
	heading = color.New(color.Bold, color.Underline)
	muted   = color.New(color.Faint)
	good    = color.New(color.FgGreen)
	hot     = color.New(color.FgYellow, color.Bold)
)

func init() {
	fd := os.Stdout.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		color.NoColor = true
	}
}

func newTable() *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.Wrap = true
	return tbl
}

func formatDate(scale string, date time.Time) string {
	switch scale {
	case "month":
		return date.Format("Jan 2006")
	case "year":
		return date.Format("2006")
	default:
		return date.Format("Mon 2006-01-02")
	}
}

func printEntries(w io.Writer, scale string, entries []plandto.EntryOutput) {
	if len(entries) == 0 {
		_, _ = fmt.Fprintf(w, "no %s entries\n", scale)
		return
	}
	_, _ = fmt.Fprintln(w, heading.Sprint(strings.ToUpper(scale[:1])+scale[1:]+"s"))
	tbl := newTable()
	tbl.AddRow("ID", "DATE", "TITLE")
	for _, e := range entries {
		tbl.AddRow(e.ID, formatDate(scale, e.Date), e.Title)
	}
	_, _ = fmt.Fprintln(w, tbl)
}

func doneLabel(done bool) string {
	if done {
		return "done"
	}
	return "open"
}

func printTasks(w io.Writer, tasks []plandto.TaskOutput) {
	if len(tasks) == 0 {
		_, _ = fmt.Fprintln(w, "no tasks")
		return
	}
	tbl := newTable()
	tbl.AddRow("ID", "", "TITLE", "DESCRIPTION")
	for _, t := range tasks {
		mark := "•"
		if t.Done {
			mark = good.Sprint("✓")
		}
		tbl.AddRow(t.ID, mark, t.Title, muted.Sprint(t.Description))
	}
	_, _ = fmt.Fprintln(w, tbl)
}

func printWeeks(w io.Writer, weeks []plandto.WeekOutput) {
	if len(weeks) == 0 {
		_, _ = fmt.Fprintln(w, "no weeks")
		return
	}
	tbl := newTable()
	tbl.AddRow("ID", "TITLE", "")
	for _, wk := range weeks {
		active := ""
		if wk.Active {
			active = hot.Sprint("active")
		}
		tbl.AddRow(wk.ID, wk.Title, active)
	}
	_, _ = fmt.Fprintln(w, tbl)
}

func printActiveWeek(w io.Writer, week plandto.ActiveWeekOutput) {
	if !week.Found {
		_, _ = fmt.Fprintln(w, "no active week")
		return
	}
	_, _ = fmt.Fprintln(w, heading.Sprint(week.Week.Title))
	if len(week.Days) == 0 {
		_, _ = fmt.Fprintln(w, muted.Sprint("no days"))
		return
	}
	tbl := newTable()
	tbl.AddRow("ID", "DAY", "DESCRIPTION")
	for _, d := range week.Days {
		tbl.AddRow(d.ID, d.Title, muted.Sprint(d.Description))
	}
	_, _ = fmt.Fprintln(w, tbl)
}

func printWeekDayTasks(w io.Writer, tasks []plandto.WeekDayTaskOutput) {
	if len(tasks) == 0 {
		_, _ = fmt.Fprintln(w, "no tasks")
		return
	}
	tbl := newTable()
	tbl.AddRow("ID", "TIME", "TITLE")
	for _, t := range tasks {
		span := ""
		if !t.Start.IsZero() || !t.End.IsZero() {
			span = t.Start.Format("15:04") + "–" + t.End.Format("15:04")
		}
		tbl.AddRow(t.ID, span, t.Title)
	}
	_, _ = fmt.Fprintln(w, tbl)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func printNotes(w io.Writer, notes []notedto.NoteOutput, now time.Time) {
	if len(notes) == 0 {
		_, _ = fmt.Fprintln(w, "no notes")
		return
	}
	tbl := newTable()
	tbl.AddRow("ID", "TITLE", "UPDATED")
	for _, n := range notes {
		tbl.AddRow(shortID(n.ID), noteTitle(n), muted.Sprint(humanize.RelTime(n.UpdatedAt, now, "ago", "from now")))
	}
	_, _ = fmt.Fprintln(w, tbl)
}

func noteTitle(n notedto.NoteOutput) string {
	if t := strings.TrimSpace(n.Title); t != "" {
		return t
	}
	first, _, _ := strings.Cut(strings.TrimSpace(n.Body), "\n")
	if first = strings.TrimSpace(strings.TrimLeft(first, "# ")); first != "" {
		return first
	}
	return "untitled"
}

func printNote(w io.Writer, n notedto.NoteOutput) {
	_, _ = fmt.Fprintln(w, heading.Sprint(noteTitle(n)))
	_, _ = fmt.Fprintln(w, muted.Sprintf("%s · updated %s", n.ID, n.UpdatedAt.Local().Format(time.DateTime)))
	if body := strings.TrimSpace(n.Body); body != "" {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, body)
	}
}

func printPurge(w io.Writer, cutoff time.Time, out plandto.PurgeOutput) {
	scales := make([]string, 0, len(out.Removed))
	var total int64
	for scale, n := range out.Removed {
		scales = append(scales, scale)
		total += n
	}
	sort.Strings(scales)
	_, _ = fmt.Fprintf(w, "purged %s entries before %s\n", humanize.Comma(total), cutoff.Format(dateLayout))
	for _, scale := range scales {
		_, _ = fmt.Fprintf(w, "  %-6s %s\n", scale, humanize.Comma(out.Removed[scale]))
	}
}

func printStats(w io.Writer, stats plandto.StatsOutput, now time.Time) {
	_, _ = fmt.Fprintln(w, heading.Sprintf("As of %s", stats.Cutoff.Format(dateLayout)))
	tbl := newTable()
	tbl.AddRow("SCALE", "UPCOMING", "PAST", "TASKS", "DONE")
	for _, s := range stats.Scales {
		tbl.AddRow(s.Scale, humanize.Comma(int64(s.Upcoming)), humanize.Comma(int64(s.Past)),
			humanize.Comma(int64(s.Tasks)), humanize.Comma(int64(s.TasksDone)))
	}
	_, _ = fmt.Fprintln(w, tbl)

	if stats.TotalTasks > 0 {
		pct := 100 * stats.DoneTasks / stats.TotalTasks
		_, _ = fmt.Fprintf(w, "%s of %s tasks done (%d%%)\n",
			good.Sprint(humanize.Comma(int64(stats.DoneTasks))), humanize.Comma(int64(stats.TotalTasks)), pct)
	}
	if stats.Next != nil {
		_, _ = fmt.Fprintf(w, "next: %s %s (%s)\n", hot.Sprint(stats.Next.Title),
			formatDate(stats.Next.Scale, stats.Next.Date), humanize.RelTime(stats.Next.Date, now, "ago", "from now"))
	}
}

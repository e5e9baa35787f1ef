package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/lnquy/threadpool"
)

var (
	colorHeader = color.New(color.FgWhite, color.Bold).SprintFunc()
	colorOK     = color.New(color.FgGreen).SprintFunc()
	colorFailed = color.New(color.FgRed, color.Bold).SprintFunc()
	colorNumber = color.New(color.FgCyan).SprintFunc()
)

func newTable(w io.Writer, headers ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	colored := make([]string, len(headers))
	for i, h := range headers {
		colored[i] = colorHeader(h)
	}
	table.SetHeader(colored)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	return table
}

func status(err error) string {
	if err != nil {
		return colorFailed("failed: " + err.Error())
	}
	return colorOK("ok")
}

func printStatistics(w io.Writer, s *threadpool.Statistics) {
	fmt.Fprintln(w)
	table := newTable(w, "MODE", "WORKERS", "MIN", "MAX", "IDLE", "PENDING", "SUBMITTED", "REJECTED", "FINISHED", "PANICKED", "DROPPED")
	table.Append([]string{
		s.Mode.String(),
		colorNumber(strconv.Itoa(int(s.CurrWorker))),
		strconv.Itoa(s.MinWorker),
		strconv.Itoa(s.MaxWorker),
		strconv.Itoa(int(s.IdleWorker)),
		strconv.Itoa(int(s.PendingTasks)),
		strconv.FormatInt(s.SubmittedTasks, 10),
		strconv.FormatInt(s.RejectedTasks, 10),
		strconv.FormatInt(s.FinishedTasks, 10),
		strconv.FormatInt(s.PanickedTasks, 10),
		strconv.FormatInt(s.DroppedTasks, 10),
	})
	table.Render()
}

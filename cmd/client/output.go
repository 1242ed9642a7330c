package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"google.golang.org/grpc/status"

	taskv1 "github.com/gurkanbulca/dayplan/api/task/v1"
)

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func printTask(t *taskv1.Task) error {
	if outputJSON {
		return printJSON(t)
	}
	return printTasks([]*taskv1.Task{t})
}

func printTasks(tasks []*taskv1.Task) error {
	if outputJSON {
		return printJSON(tasks)
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Date", "Time", "Title", "Status", "%", "Notes"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	for _, t := range tasks {
		table.Append([]string{
			t.Id,
			t.Date,
			t.StartTime,
			t.Title,
			t.Status,
			fmt.Sprint(t.Completion),
			notes(t),
		})
	}
	table.Render()
	return nil
}

// printTree prints tasks indented under their parents. Tasks whose parent is
// not in the list are treated as roots.
func printTree(tasks []*taskv1.Task) {
	present := make(map[string]bool, len(tasks))
	children := make(map[string][]*taskv1.Task)
	for _, t := range tasks {
		present[t.Id] = true
	}
	var roots []*taskv1.Task
	for _, t := range tasks {
		if t.ParentId == "" || !present[t.ParentId] {
			roots = append(roots, t)
			continue
		}
		children[t.ParentId] = append(children[t.ParentId], t)
	}

	var walk func(t *taskv1.Task, depth int)
	walk = func(t *taskv1.Task, depth int) {
		mark := " "
		switch t.Status {
		case "COMPLETED":
			mark = "x"
		case "CANCELLED":
			mark = "-"
		case "IN_PROGRESS":
			mark = "~"
		}
		line := fmt.Sprintf("%s[%s] %s", strings.Repeat("  ", depth), mark, t.Title)
		if t.StartTime != "" {
			line += " @" + t.StartTime
		}
		if n := notes(t); n != "" {
			line += "  (" + n + ")"
		}
		fmt.Printf("%s  %s\n", line, t.Id)
		for _, c := range children[t.Id] {
			walk(c, depth+1)
		}
	}
	for _, r := range roots {
		walk(r, 0)
	}
}

func printEvent(ev *taskv1.TaskEvent) error {
	if outputJSON {
		data, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	at := ""
	if ev.At != nil {
		at = ev.At.AsTime().Local().Format("15:04:05")
	}
	subject := ev.TaskId
	if ev.Task != nil {
		subject = fmt.Sprintf("%q on %s", ev.Task.Title, ev.Task.Date)
	}
	switch {
	case ev.Message != "":
		fmt.Printf("%s %-18s %s\n", at, ev.Type, ev.Message)
	case ev.Count > 0:
		fmt.Printf("%s %-18s %s (%d tasks)\n", at, ev.Type, subject, ev.Count)
	default:
		fmt.Printf("%s %-18s %s\n", at, ev.Type, subject)
	}
	return nil
}

func notes(t *taskv1.Task) string {
	var parts []string
	if t.IsRecurring {
		parts = append(parts, "repeats "+strings.ToLower(t.RecurrencePattern))
	}
	if t.RecurringParentId != "" {
		parts = append(parts, "series instance")
	}
	if t.CarriedOverTo != "" {
		parts = append(parts, "moved to "+t.CarriedOverTo)
	}
	if t.CarriedOverFrom != "" {
		parts = append(parts, "from "+t.CarriedOverFrom)
	}
	if t.CancelReason != "" {
		parts = append(parts, "cancelled: "+t.CancelReason)
	}
	return strings.Join(parts, ", ")
}

// describe strips the rpc error prefix so users see the server's notice
func describe(err error) string {
	if s, ok := status.FromError(err); ok {
		return fmt.Sprintf("%s (%s)", s.Message(), s.Code())
	}
	return err.Error()
}

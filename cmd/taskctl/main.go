// Command taskctl is a terminal client for the task tracker API.
//
//	taskctl list [-status all|completed|incomplete] [-sort due_date|priority|created]
//	taskctl add -name "Buy tickets" [-desc ...] [-due 2026-02-06] [-priority high] [-done]
//	taskctl edit <id> [-name ...] [-desc ...] [-due ...] [-priority ...]
//	taskctl done <id>
//	taskctl undo <id>
//	taskctl rm <id>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/TWRT/task-tracker/internal/client"
	"github.com/TWRT/task-tracker/internal/client/items"
	"github.com/TWRT/task-tracker/internal/config"
	"github.com/TWRT/task-tracker/internal/models"
	"github.com/TWRT/task-tracker/internal/view"
)

var errUsage = errors.New("usage: taskctl <list|add|edit|done|undo|rm> [flags]")

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c := items.NewItemsClient(config.APIURL())
	if err := run(ctx, os.Args[1:], c, os.Stdout, time.Now()); err != nil {
		fmt.Fprintln(os.Stderr, "taskctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, c client.TaskClient, out io.Writer, now time.Time) error {
	if len(args) == 0 {
		return errUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "list", "ls":
		return runList(ctx, rest, c, out, now)
	case "add":
		return runAdd(ctx, rest, c, out)
	case "edit":
		return runEdit(ctx, rest, c, out)
	case "done", "undo":
		return runSetCompleted(ctx, rest, c, out, cmd == "done")
	case "rm", "delete":
		return runDelete(ctx, rest, c, out)
	default:
		return fmt.Errorf("unknown command %q\n%w", cmd, errUsage)
	}
}

func runList(ctx context.Context, args []string, c client.TaskClient, out io.Writer, now time.Time) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	status := fs.String("status", view.StatusAll, "all, completed or incomplete")
	sortBy := fs.String("sort", view.SortByDueDate, "due_date, priority or created")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tasks, err := c.ListTasks(ctx)
	if err != nil {
		return err
	}

	tasks = view.FilterTasksByStatus(tasks, *status)
	tasks = view.SortTasks(tasks, *sortBy)
	return renderTasks(out, tasks, now)
}

type fieldFlags struct {
	name     *string
	desc     *string
	due      *string
	priority *string
	set      map[string]bool
}

func bindFieldFlags(fs *flag.FlagSet) *fieldFlags {
	return &fieldFlags{
		name:     fs.String("name", "", "task name"),
		desc:     fs.String("desc", "", "description"),
		due:      fs.String("due", "", "due date (YYYY-MM-DD)"),
		priority: fs.String("priority", "", "high, medium or low"),
	}
}

// only returns v when the flag was given on the command line.
func (f *fieldFlags) only(flagName string, v *string) *string {
	if !f.set[flagName] {
		return nil
	}
	return v
}

func (f *fieldFlags) collect(fs *flag.FlagSet) {
	f.set = map[string]bool{}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
}

func runAdd(ctx context.Context, args []string, c client.TaskClient, out io.Writer) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fields := bindFieldFlags(fs)
	done := fs.Bool("done", false, "create the task already completed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	fields.collect(fs)

	if !view.IsValidTaskName(*fields.name) {
		return errors.New("a non-empty -name is required")
	}

	input := models.TaskInput{
		Name:        *fields.name,
		Description: fields.only("desc", fields.desc),
		DueDate:     fields.only("due", fields.due),
		Priority:    fields.only("priority", fields.priority),
	}
	if *done {
		completed := models.Flag(true)
		input.Completed = &completed
	}

	task, err := c.CreateTask(ctx, input)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "created task %d: %s\n", task.ID, task.Name)
	return nil
}

func runEdit(ctx context.Context, args []string, c client.TaskClient, out io.Writer) error {
	if len(args) == 0 {
		return errors.New("edit needs a task id")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fields := bindFieldFlags(fs)
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	fields.collect(fs)

	patch := models.TaskPatch{
		Name:        fields.only("name", fields.name),
		Description: fields.only("desc", fields.desc),
		DueDate:     fields.only("due", fields.due),
		Priority:    fields.only("priority", fields.priority),
	}
	if patch.IsEmpty() {
		return errors.New("edit needs at least one of -name, -desc, -due, -priority")
	}

	task, err := c.UpdateTask(ctx, id, patch)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "updated task %d: %s\n", task.ID, task.Name)
	return nil
}

func runSetCompleted(ctx context.Context, args []string, c client.TaskClient, out io.Writer, completed bool) error {
	if len(args) != 1 {
		return errors.New("expected exactly one task id")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	f := models.Flag(completed)
	task, err := c.UpdateTask(ctx, id, models.TaskPatch{Completed: &f})
	if err != nil {
		return err
	}

	state := "open"
	if task.Completed {
		state = "done"
	}
	fmt.Fprintf(out, "task %d is %s\n", task.ID, state)
	return nil
}

func runDelete(ctx context.Context, args []string, c client.TaskClient, out io.Writer) error {
	if len(args) != 1 {
		return errors.New("expected exactly one task id")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	res, err := c.DeleteTask(ctx, id)
	if err != nil {
		if items.IsNotFound(err) {
			return fmt.Errorf("task %d does not exist", id)
		}
		return err
	}
	fmt.Fprintf(out, "%s (id %d)\n", res.Message, res.ID)
	return nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", raw)
	}
	return id, nil
}

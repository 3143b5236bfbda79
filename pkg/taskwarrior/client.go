package taskwarrior

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/harrisonrobin/dosely/pkg/model"
)

// Runner executes the task binary and returns its stdout.
type Runner func(ctx context.Context, args ...string) ([]byte, error)

// Client reads tasks from a local Taskwarrior database on behalf of a single owner.
type Client struct {
	owner string
	run   Runner
}

func NewClient(owner string) *Client {
	return &Client{owner: owner, run: execTask}
}

// NewClientWithRunner is NewClient with a substitute for the task binary.
func NewClientWithRunner(owner string, run Runner) *Client {
	return &Client{owner: owner, run: run}
}

func execTask(ctx context.Context, args ...string) ([]byte, error) {
	output, err := exec.CommandContext(ctx, "task", args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("taskwarrior command failed: exit code %d, %s, stderr: %s",
				exitErr.ExitCode(), err, exitErr.Stderr)
		}
		return nil, fmt.Errorf("taskwarrior command failed: %w", err)
	}
	return output, nil
}

func (c *Client) GetTasks(ctx context.Context, filter []string) ([]Task, error) {
	args := append(append([]string{}, filter...), "export", "rc.hooks=0")
	output, err := c.run(ctx, args...)
	if err != nil {
		return nil, err
	}

	var tasks []Task
	if err := json.Unmarshal(output, &tasks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal taskwarrior output: %w", err)
	}
	return tasks, nil
}

// FindTasks returns the owner's pending tasks planned for day. Tasks of any
// other owner do not exist in a Taskwarrior database, so the result is empty.
func (c *Client) FindTasks(ctx context.Context, owner string, day time.Time) ([]model.Task, error) {
	if owner != c.owner {
		return nil, nil
	}
	raw, err := c.GetTasks(ctx, []string{"status:" + PENDING})
	if err != nil {
		return nil, err
	}

	var out []model.Task
	for _, t := range raw {
		planned, ok := t.Day()
		if !ok || !model.SameDay(day, planned) {
			continue
		}
		mt, err := t.ToModel(owner, day.Location())
		if err != nil {
			log.Warn().Err(err).Str("uuid", t.UUID).Msg("skipping taskwarrior task")
			continue
		}
		out = append(out, mt)
	}
	return out, nil
}

// ParseTask parses a single task JSON from an io.Reader
func (c *Client) ParseTask(r io.Reader) (Task, error) {
	var task Task
	if err := json.NewDecoder(r).Decode(&task); err != nil {
		return Task{}, fmt.Errorf("failed to decode task json: %w", err)
	}
	return task, nil
}

// ParseTasks parses multiple JSON objects from an io.Reader (e.g. for hooks that send multiple lines)
func (c *Client) ParseTasks(r io.Reader) ([]Task, error) {
	var tasks []Task
	decoder := json.NewDecoder(r)
	for {
		var task Task
		if err := decoder.Decode(&task); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to decode task json: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

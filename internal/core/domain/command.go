package domain

import "strings"

// Command describes an external OS-level operation.
type Command struct {
	Name string   `yaml:"name" validate:"required"`
	Args []string `yaml:"args"`
	Dir  string   `yaml:"dir"`
}

// String renders the command line for logs.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// CommandResult is what the executor reports for a command that ran to completion.
type CommandResult struct {
	ExitCode int
	Output   string
}

// Tail returns the last n non-empty lines of the output, joined by "; ".
func (r CommandResult) Tail(n int) string {
	lines := strings.Split(strings.ReplaceAll(r.Output, "\r\n", "\n"), "\n")
	kept := make([]string, 0, n)
	for i := len(lines) - 1; i >= 0 && len(kept) < n; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		kept = append([]string{line}, kept...)
	}
	return strings.Join(kept, "; ")
}

// Package namecheck is the boundary to the external author-name-format
// checker. The checker itself is a separate tool; this package carries its
// invocation contract plus two implementations: Nop for runs that disable
// name checking and External for delegating to an installed command.
package namecheck

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Mode selects the matching strategy of the external checker.
type Mode string

// ModeEnsemble combines the checker's individual matchers; it is the only
// mode the validation pipeline requests.
const ModeEnsemble Mode = "ensemble"

// Config carries one invocation's parameters.
type Config struct {
	// File is the document the checker should read.
	File string
	// Display toggles.
	ShowNames bool
	WholeName bool
	FirstName bool
	LastName  bool
	// RefString is the literal line prefix that opens the reference section.
	RefString string
	Mode      Mode
	// Initials controls whether abbreviated given names are accepted.
	Initials bool
}

// Checker produces advisory messages about author name formatting.
type Checker interface {
	Execute(ctx context.Context, cfg Config) ([]string, error)
}

// Nop is a Checker that reports nothing.
type Nop struct{}

func (Nop) Execute(context.Context, Config) ([]string, error) { return nil, nil }

// External invokes a name-checker command and returns its stdout lines as
// messages. Blank lines are dropped; a non-zero exit is surfaced as an error
// so the caller can decide whether to degrade or fail.
type External struct {
	// Command is the executable to run, e.g. "pdf-namecheck".
	Command string
}

func (e External) Execute(ctx context.Context, cfg Config) ([]string, error) {
	if e.Command == "" {
		return nil, fmt.Errorf("namecheck: no command configured")
	}
	args := []string{
		"--file", cfg.File,
		"--ref-string", cfg.RefString,
		"--mode", string(cfg.Mode),
		"--show-names=" + strconv.FormatBool(cfg.ShowNames),
		"--whole-name=" + strconv.FormatBool(cfg.WholeName),
		"--first-name=" + strconv.FormatBool(cfg.FirstName),
		"--last-name=" + strconv.FormatBool(cfg.LastName),
		"--initials=" + strconv.FormatBool(cfg.Initials),
	}
	cmd := exec.CommandContext(ctx, e.Command, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("namecheck %s: %w (%s)", e.Command, err, strings.TrimSpace(stderr.String()))
	}
	var messages []string
	scanner := bufio.NewScanner(&stdout)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			messages = append(messages, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("namecheck output: %w", err)
	}
	return messages, nil
}

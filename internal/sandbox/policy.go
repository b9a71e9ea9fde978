package sandbox

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// DefaultAllowedCommands are the read-only inspection commands the model may run.
var DefaultAllowedCommands = []string{
	"ls", "grep", "cat", "find", "head", "tail",
	"tree", "file", "stat", "which", "wc", "du",
}

// DefaultMaxOutputBytes caps combined stdout and stderr per execution.
const DefaultMaxOutputBytes = 2000

// Policy is an immutable whitelist of command names plus output and time bounds.
// It is safe for concurrent use.
type Policy struct {
	commands       []string
	allowed        map[string]struct{}
	maxOutputBytes int
	commandTimeout time.Duration
}

// NewPolicy builds a policy. commandTimeout of zero means executions are
// bounded only by the caller's context deadline.
func NewPolicy(commands []string, maxOutputBytes int, commandTimeout time.Duration) (*Policy, error) {
	if len(commands) == 0 {
		return nil, fmt.Errorf("sandbox policy: no allowed commands")
	}
	if maxOutputBytes <= 0 {
		return nil, fmt.Errorf("sandbox policy: max output bytes must be positive, got %d", maxOutputBytes)
	}
	if commandTimeout < 0 {
		return nil, fmt.Errorf("sandbox policy: negative command timeout %s", commandTimeout)
	}

	p := &Policy{
		allowed:        make(map[string]struct{}, len(commands)),
		maxOutputBytes: maxOutputBytes,
		commandTimeout: commandTimeout,
	}
	for _, name := range commands {
		if name == "" || strings.ContainsAny(name, "/\\ \t\n") {
			return nil, fmt.Errorf("sandbox policy: invalid command name %q", name)
		}
		if _, dup := p.allowed[name]; dup {
			continue
		}
		p.allowed[name] = struct{}{}
		p.commands = append(p.commands, name)
	}
	return p, nil
}

// DefaultPolicy returns the built-in whitelist with the default output cap.
func DefaultPolicy() *Policy {
	p, err := NewPolicy(DefaultAllowedCommands, DefaultMaxOutputBytes, 0)
	if err != nil {
		panic(err)
	}
	return p
}

// Allows reports whether name is on the whitelist. Matching is exact:
// "/bin/ls" is not "ls".
func (p *Policy) Allows(name string) bool {
	_, ok := p.allowed[name]
	return ok
}

// Commands returns the whitelist in declaration order.
func (p *Policy) Commands() []string {
	return slices.Clone(p.commands)
}

func (p *Policy) MaxOutputBytes() int { return p.maxOutputBytes }

func (p *Policy) CommandTimeout() time.Duration { return p.commandTimeout }

package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rickgao/newsdesk/internal/model"
)

var (
	// ErrUnknownCommand is returned for an unrecognised slash command.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrUsage is returned when a command's arguments are wrong.
	ErrUsage = errors.New("usage")
)

type commandKind int

const (
	cmdSubmit commandKind = iota
	cmdNews
	cmdFact
	cmdSave
	cmdRemove
	cmdSaved
	cmdOpen
	cmdLike
	cmdDislike
	cmdShare
	cmdTheme
	cmdReconnect
	cmdHelp
	cmdQuit
)

// command is a parsed input line.
type command struct {
	kind     commandKind
	text     string // free text (cmdSubmit) or category (cmdNews)
	index    int    // 1-based article number
	platform string // share platform
}

// usage lines, also shown by /help.
var usage = map[commandKind]string{
	cmdNews:      "/news <category>",
	cmdFact:      "/fact",
	cmdSave:      "/save <n>",
	cmdRemove:    "/remove <n>",
	cmdSaved:     "/saved",
	cmdOpen:      "/open <n>",
	cmdLike:      "/like <n>",
	cmdDislike:   "/dislike <n>",
	cmdShare:     "/share <n> twitter|facebook|linkedin",
	cmdTheme:     "/theme",
	cmdReconnect: "/reconnect",
	cmdHelp:      "/help",
	cmdQuit:      "/quit",
}

var commandNames = map[string]commandKind{
	"news":      cmdNews,
	"fact":      cmdFact,
	"save":      cmdSave,
	"remove":    cmdRemove,
	"saved":     cmdSaved,
	"open":      cmdOpen,
	"like":      cmdLike,
	"dislike":   cmdDislike,
	"share":     cmdShare,
	"theme":     cmdTheme,
	"reconnect": cmdReconnect,
	"help":      cmdHelp,
	"quit":      cmdQuit,
	"q":         cmdQuit,
}

// parseCommand parses one input line. Lines not starting with "/" are free
// text for the server. A leading "//" escapes a literal slash.
func parseCommand(line string) (command, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		return command{kind: cmdSubmit, text: line}, nil
	}
	if strings.HasPrefix(line, "//") {
		return command{kind: cmdSubmit, text: line[1:]}, nil
	}

	fields := strings.Fields(line[1:])
	if len(fields) == 0 {
		return command{}, fmt.Errorf("%w: /", ErrUnknownCommand)
	}

	name := strings.ToLower(fields[0])
	kind, ok := commandNames[name]
	if !ok {
		return command{}, fmt.Errorf("%w: /%s", ErrUnknownCommand, name)
	}
	args := fields[1:]
	cmd := command{kind: kind}

	switch kind {
	case cmdNews:
		if len(args) != 1 {
			return command{}, usageError(kind)
		}
		cmd.text = strings.ToLower(args[0])

	case cmdSave, cmdRemove, cmdOpen, cmdLike, cmdDislike:
		if len(args) != 1 {
			return command{}, usageError(kind)
		}
		n, err := parseIndex(args[0])
		if err != nil {
			return command{}, usageError(kind)
		}
		cmd.index = n

	case cmdShare:
		if len(args) != 2 {
			return command{}, usageError(kind)
		}
		n, err := parseIndex(args[0])
		if err != nil {
			return command{}, usageError(kind)
		}
		cmd.index = n
		cmd.platform = strings.ToLower(args[1])
		switch cmd.platform {
		case model.PlatformTwitter, model.PlatformFacebook, model.PlatformLinkedIn:
		default:
			return command{}, usageError(kind)
		}

	default:
		if len(args) != 0 {
			return command{}, usageError(kind)
		}
	}

	return cmd, nil
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("index %d out of range", n)
	}
	return n, nil
}

func usageError(kind commandKind) error {
	return fmt.Errorf("%w: %s", ErrUsage, usage[kind])
}

// helpText lists the commands in display order.
func helpText() string {
	order := []commandKind{
		cmdNews, cmdFact, cmdSaved, cmdSave, cmdRemove, cmdOpen,
		cmdLike, cmdDislike, cmdShare, cmdTheme, cmdReconnect, cmdHelp, cmdQuit,
	}
	var b strings.Builder
	b.WriteString("Type a message to check it for fake news.\n")
	b.WriteString("Ask \"do you know ...\" for a fact.\n\n")
	for _, k := range order {
		b.WriteString("  ")
		b.WriteString(usage[k])
		b.WriteString("\n")
	}
	b.WriteString("\n  pgup/pgdn scroll  ctrl+c quit")
	return b.String()
}

package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/yanqian/userdirectory/internal/domain/directory"
	"github.com/yanqian/userdirectory/internal/infra/config"
	"github.com/yanqian/userdirectory/pkg/metrics"
	"github.com/yanqian/userdirectory/pkg/util"
)

type outcome int

const (
	outcomeAccepted outcome = iota
	outcomeRejected
	outcomeInvalid
	outcomeQuit
)

func (o outcome) String() string {
	switch o {
	case outcomeAccepted:
		return "accepted"
	case outcomeRejected:
		return "rejected"
	case outcomeInvalid:
		return "invalid"
	default:
		return "quit"
	}
}

type command struct {
	usage   string
	minArgs int
	maxArgs int
	run     func(c *Console, w io.Writer, args []string) outcome
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"register":     {usage: "register <username> <password> [email]", minArgs: 2, maxArgs: 3, run: (*Console).register},
		"login":        {usage: "login <username> <password>", minArgs: 2, maxArgs: 2, run: (*Console).login},
		"login-email":  {usage: "login-email <email> <password>", minArgs: 2, maxArgs: 2, run: (*Console).loginEmail},
		"remove":       {usage: "remove <username>", minArgs: 1, maxArgs: 1, run: (*Console).remove},
		"change-email": {usage: "change-email <username> <email>", minArgs: 2, maxArgs: 2, run: (*Console).changeEmail},
		"get":          {usage: "get <username>", minArgs: 1, maxArgs: 1, run: (*Console).get},
		"get-email":    {usage: "get-email <email>", minArgs: 1, maxArgs: 1, run: (*Console).getEmail},
		"list":         {usage: "list", run: (*Console).list},
		"count":        {usage: "count", run: (*Console).count},
		"help":         {usage: "help", run: (*Console).help},
		"quit":         {usage: "quit", run: (*Console).quit},
		"exit":         {usage: "exit", run: (*Console).quit},
	}
}

// Console serves line-oriented directory commands over a reader/writer pair.
type Console struct {
	svc    directory.Service
	cfg    config.ConsoleConfig
	logger *slog.Logger
	usage  metrics.CommandUsage
}

// NewConsole constructs a Console bound to the directory service.
func NewConsole(cfg *config.Config, svc directory.Service, logger *slog.Logger) *Console {
	return &Console{
		svc:    svc,
		cfg:    cfg.Console,
		logger: logger.With("component", "console"),
	}
}

// Usage reports command outcomes recorded so far.
func (c *Console) Usage() metrics.UsageSnapshot {
	return c.usage.Snapshot()
}

// Serve handles commands until EOF, a quit command, or ctx cancellation.
// Only read and write failures are returned. If in is an io.Closer, Serve
// closes it before returning so the pending read is released.
func (c *Console) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	started := util.NowUTC()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if closer, ok := in.(io.Closer); ok {
		defer closer.Close()
	}
	w := &stickyWriter{w: out}
	defer func() {
		snap := c.usage.Snapshot()
		if snap.IsZero() {
			c.logger.Info("console session ended", "commands", 0, "duration", util.Elapsed(started))
			return
		}
		c.logger.Info("console session ended",
			"commands", snap.Total,
			"accepted", snap.Accepted,
			"rejected", snap.Rejected,
			"invalid", snap.Invalid,
			"duration", util.Elapsed(started),
		)
	}()

	lines, readErr := readLines(ctx, in)
	for {
		c.prompt(w)
		if w.err != nil {
			return w.err
		}
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return <-readErr
			}
			if c.handle(w, line) == outcomeQuit {
				return w.err
			}
		}
	}
}

// maxLineBytes caps a single command line. Longer lines are discarded whole.
const maxLineBytes = 64 * 1024

type inputLine struct {
	text    string
	tooLong bool
}

func readLines(ctx context.Context, in io.Reader) (<-chan inputLine, <-chan error) {
	lines := make(chan inputLine)
	errCh := make(chan error, 1)
	go func() {
		defer close(lines)
		reader := bufio.NewReader(in)
		for {
			line, err := readLine(reader)
			if err != nil {
				if errors.Is(err, io.EOF) {
					err = nil
				}
				errCh <- err
				return
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				errCh <- nil
				return
			}
		}
	}()
	return lines, errCh
}

// readLine assembles one line from bufio fragments, keeping at most maxLineBytes.
func readLine(r *bufio.Reader) (inputLine, error) {
	var (
		buf  []byte
		line inputLine
	)
	for {
		chunk, isPrefix, err := r.ReadLine()
		if err != nil {
			return line, err
		}
		if !line.tooLong {
			if len(buf)+len(chunk) > maxLineBytes {
				line.tooLong = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			line.text = string(buf)
			return line, nil
		}
	}
}

func (c *Console) prompt(w io.Writer) {
	if c.cfg.Prompt != "" {
		fmt.Fprint(w, c.cfg.Prompt)
	}
}

func (c *Console) handle(w io.Writer, input inputLine) outcome {
	if input.tooLong {
		fmt.Fprintln(w, "error: line too long")
		c.usage.Invalid()
		c.logger.Warn("command invalid", "request_id", uuid.NewString(), "reason", "line too long", "limit", maxLineBytes)
		return outcomeInvalid
	}
	line := strings.TrimSpace(input.text)
	if line == "" || strings.HasPrefix(line, "#") {
		return outcomeAccepted
	}
	if c.cfg.Echo {
		fmt.Fprintln(w, line)
	}
	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]
	requestID := uuid.NewString()

	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(w, "error: unknown command %q, try help\n", name)
		c.usage.Invalid()
		c.logger.Warn("command invalid", "request_id", requestID, "command", name, "reason", "unknown command")
		return outcomeInvalid
	}
	if len(args) < cmd.minArgs || len(args) > cmd.maxArgs {
		fmt.Fprintf(w, "error: usage: %s\n", cmd.usage)
		c.usage.Invalid()
		c.logger.Warn("command invalid", "request_id", requestID, "command", name, "reason", "wrong argument count", "args", len(args))
		return outcomeInvalid
	}

	result := cmd.run(c, w, args)
	switch result {
	case outcomeAccepted:
		c.usage.Accepted()
	case outcomeRejected:
		c.usage.Rejected()
	}
	c.logger.Debug("command handled", "request_id", requestID, "command", name, "outcome", result.String())
	return result
}

func (c *Console) register(w io.Writer, args []string) outcome {
	var ok bool
	if len(args) == 3 {
		ok = c.svc.RegisterUserWithEmail(args[0], args[1], args[2])
	} else {
		ok = c.svc.RegisterUser(args[0], args[1])
	}
	return verdict(w, ok, "ok", "rejected")
}

func (c *Console) login(w io.Writer, args []string) outcome {
	return verdict(w, c.svc.LoginWithUsername(args[0], args[1]), "ok", "denied")
}

func (c *Console) loginEmail(w io.Writer, args []string) outcome {
	return verdict(w, c.svc.LoginWithEmail(args[0], args[1]), "ok", "denied")
}

func (c *Console) remove(w io.Writer, args []string) outcome {
	return verdict(w, c.svc.RemoveUser(args[0]), "ok", "rejected")
}

func (c *Console) changeEmail(w io.Writer, args []string) outcome {
	return verdict(w, c.svc.ChangeUserEmail(args[0], args[1]), "ok", "rejected")
}

func (c *Console) get(w io.Writer, args []string) outcome {
	user, ok := c.svc.GetUserByUsername(args[0])
	return printLookup(w, user, ok)
}

func (c *Console) getEmail(w io.Writer, args []string) outcome {
	user, ok := c.svc.GetUserByEmail(args[0])
	return printLookup(w, user, ok)
}

func (c *Console) list(w io.Writer, _ []string) outcome {
	users := c.svc.GetAllUsers()
	for _, user := range users {
		fmt.Fprintln(w, formatUser(user))
	}
	fmt.Fprintf(w, "%d users\n", len(users))
	return outcomeAccepted
}

func (c *Console) count(w io.Writer, _ []string) outcome {
	fmt.Fprintln(w, strconv.Itoa(c.svc.GetUserCount()))
	return outcomeAccepted
}

func (c *Console) help(w io.Writer, _ []string) outcome {
	usages := make([]string, 0, len(commands))
	for _, cmd := range commands {
		usages = append(usages, cmd.usage)
	}
	sort.Strings(usages)
	for _, usage := range usages {
		fmt.Fprintln(w, usage)
	}
	return outcomeAccepted
}

func (c *Console) quit(_ io.Writer, _ []string) outcome {
	return outcomeQuit
}

func verdict(w io.Writer, ok bool, yes, no string) outcome {
	if ok {
		fmt.Fprintln(w, yes)
		return outcomeAccepted
	}
	fmt.Fprintln(w, no)
	return outcomeRejected
}

func printLookup(w io.Writer, user directory.User, ok bool) outcome {
	if !ok {
		fmt.Fprintln(w, "not found")
		return outcomeRejected
	}
	fmt.Fprintln(w, formatUser(user))
	return outcomeAccepted
}

// formatUser renders "username email", with "-" for no email and `""` for an empty one.
func formatUser(user directory.User) string {
	view := user.View()
	email := "-"
	switch {
	case view.Email == nil:
	case *view.Email == "":
		email = `""`
	default:
		email = *view.Email
	}
	return view.Username + " " + email
}

// stickyWriter remembers the first write error and drops later writes.
type stickyWriter struct {
	w   io.Writer
	err error
}

func (s *stickyWriter) Write(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	n, err := s.w.Write(p)
	if err != nil {
		s.err = err
	}
	return n, err
}

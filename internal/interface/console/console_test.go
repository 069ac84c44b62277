package console

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/userdirectory/internal/domain/directory"
	"github.com/yanqian/userdirectory/internal/infra/config"
	"github.com/yanqian/userdirectory/internal/infra/userrepo"
	"github.com/yanqian/userdirectory/pkg/metrics"
)

func newConsoleUnderTest(t *testing.T, consoleCfg config.ConsoleConfig) *Console {
	t.Helper()
	repo, err := userrepo.NewMemoryRepository(
		directory.NewUser("admin", "1234"),
		directory.NewUser("ali", "qwert"),
		directory.NewUserWithEmail("hasan", "hasan123@", "hasan@gmail.com"),
	)
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := directory.NewService(repo, logger)
	return NewConsole(&config.Config{Console: consoleCfg}, svc, logger)
}

func serve(t *testing.T, c *Console, script string) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, c.Serve(context.Background(), strings.NewReader(script), &out))
	return out.String()
}

func TestConsole_Scenario(t *testing.T) {
	c := newConsoleUnderTest(t, config.ConsoleConfig{})

	out := serve(t, c, `
# lookups
get ali
get reza
register reza 123abc reza@sharif.edu
register hasanGholi gholi1@2 reza@sharif.edu
get-email reza@sharif.edu
count
change-email hasan hasan@yahoo.com
login-email hasan@yahoo.com hasan123@
get-email hasan@gmail.com
change-email admin hasan@yahoo.com
remove ali
login ali qwert
list
`)

	require.Equal(t, strings.Join([]string{
		"ali -",
		"not found",
		"ok",
		"rejected",
		"reza reza@sharif.edu",
		"4",
		"ok",
		"ok",
		"not found",
		"rejected",
		"ok",
		"denied",
		"admin -",
		"hasan hasan@yahoo.com",
		"reza reza@sharif.edu",
		"3 users",
	}, "\n")+"\n", out)

	require.Equal(t, metrics.UsageSnapshot{Total: 13, Accepted: 8, Rejected: 5}, c.Usage())
}

func TestConsole_InvalidCommands(t *testing.T) {
	c := newConsoleUnderTest(t, config.ConsoleConfig{})

	out := serve(t, c, "frobnicate\nregister onlyname\nremove a b\ncount\n")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	require.Equal(t, `error: unknown command "frobnicate", try help`, lines[0])
	require.Equal(t, "error: usage: register <username> <password> [email]", lines[1])
	require.Equal(t, "error: usage: remove <username>", lines[2])
	require.Equal(t, "3", lines[3])
	require.Equal(t, int64(3), c.Usage().Invalid)
}

func TestConsole_QuitStopsServing(t *testing.T) {
	c := newConsoleUnderTest(t, config.ConsoleConfig{})

	out := serve(t, c, "count\nquit\nremove ali\n")
	require.Equal(t, "3\n", out)
}

func TestConsole_PromptAndEcho(t *testing.T) {
	c := newConsoleUnderTest(t, config.ConsoleConfig{Prompt: "> ", Echo: true})

	out := serve(t, c, "count\n")
	require.Equal(t, "> count\n3\n> ", out)
}

func TestConsole_HelpListsCommands(t *testing.T) {
	c := newConsoleUnderTest(t, config.ConsoleConfig{})

	out := serve(t, c, "help\n")
	for _, cmd := range commands {
		require.Contains(t, out, cmd.usage)
	}
}

func TestConsole_EmptyEmailRendering(t *testing.T) {
	require.Equal(t, `ghost ""`, formatUser(directory.NewUserWithEmail("ghost", "pw", "")))
	require.Equal(t, "ghost -", formatUser(directory.NewUser("ghost", "pw")))
}

func TestConsole_ContextCancel(t *testing.T) {
	c := newConsoleUnderTest(t, config.ConsoleConfig{})
	reader, writer := io.Pipe()
	defer writer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- c.Serve(ctx, reader, io.Discard)
	}()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("console did not stop after cancellation")
	}

	_, err := writer.Write([]byte("count\n"))
	require.ErrorIs(t, err, io.ErrClosedPipe)
}

func TestConsole_QuitClosesInput(t *testing.T) {
	c := newConsoleUnderTest(t, config.ConsoleConfig{})
	reader, writer := io.Pipe()
	defer writer.Close()

	go func() {
		_, _ = writer.Write([]byte("count\nquit\n"))
	}()

	var out bytes.Buffer
	require.NoError(t, c.Serve(context.Background(), reader, &out))
	require.Equal(t, "3\n", out.String())

	_, err := writer.Write([]byte("count\n"))
	require.ErrorIs(t, err, io.ErrClosedPipe)
}

func TestConsole_OverlongLineKeepsServing(t *testing.T) {
	c := newConsoleUnderTest(t, config.ConsoleConfig{})

	script := "register " + strings.Repeat("x", 70000) + " pw\ncount\n"
	out := serve(t, c, script)

	require.Equal(t, "error: line too long\n3\n", out)
	require.Equal(t, metrics.UsageSnapshot{Total: 2, Accepted: 1, Invalid: 1}, c.Usage())
}

func TestConsole_LineSpanningReadBuffer(t *testing.T) {
	c := newConsoleUnderTest(t, config.ConsoleConfig{})
	name := strings.Repeat("n", 5000)

	out := serve(t, c, "register "+name+" pw\r\nget "+name)

	require.Equal(t, "ok\n"+name+" -\n", out)
}

func TestConsole_EmptySessionLogsDurationOnly(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	repo, err := userrepo.NewMemoryRepository()
	require.NoError(t, err)
	c := NewConsole(&config.Config{}, directory.NewService(repo, logger), logger)

	require.NoError(t, c.Serve(context.Background(), strings.NewReader("\n# nothing\n"), io.Discard))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
	require.Equal(t, "console session ended", entry["msg"])
	require.EqualValues(t, 0, entry["commands"])
	require.Contains(t, entry, "duration")
	require.NotContains(t, entry, "accepted")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("stdin closed")
}

func TestConsole_ReadErrorReturned(t *testing.T) {
	c := newConsoleUnderTest(t, config.ConsoleConfig{})

	err := c.Serve(context.Background(), failingReader{}, io.Discard)
	require.EqualError(t, err, "stdin closed")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("stdout closed")
}

func TestConsole_WriteErrorReturned(t *testing.T) {
	c := newConsoleUnderTest(t, config.ConsoleConfig{})

	err := c.Serve(context.Background(), strings.NewReader("count\ncount\n"), failingWriter{})
	require.EqualError(t, err, "stdout closed")
}

package dlog

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/robfig/cron/v3"
	slogmulti "github.com/samber/slog-multi"
	"github.com/waverider-dev/discord-bridge/integrations/spaces"
)

const defaultArchiveCron = "0 0 * * *"

var Log *slog.Logger
var archiver *Archiver

func init() {
	archiver = &Archiver{uploader: spaces.FromEnv()}
	Log = createLogger()

	schedule := os.Getenv("ARCHIVE_CRON")
	if schedule == "" {
		schedule = defaultArchiveCron
	}
	c := cron.New()
	entryID, err := c.AddFunc(schedule, archiver.process)
	if err != nil {
		Warn("Invalid archive schedule, archiving disabled", "schedule", schedule, "err", err)
		return
	}
	c.Start()
	Debug("Scheduled log archive", "entryID", entryID, "schedule", schedule)
}

func Info(msg string, args ...any) {
	Log.Info(msg, args...)
}
func Error(msg string, args ...any) {
	Log.Error(msg, args...)
}
func Warn(msg string, args ...any) {
	Log.Warn(msg, args...)
}
func Debug(msg string, args ...any) {
	Log.Debug(msg, args...)
}

func createLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: true,
		Level:     levelFromEnv(),
	}

	if err := os.MkdirAll("logs/buffered", os.ModePerm); err != nil {
		// No writable log directory, console only.
		return slog.New(NewHandler(DualWriter{Stdout: os.Stdout, File: io.Discard}, opts))
	}

	return slog.New(slogmulti.Fanout(
		getPrettyHandler(archiver, opts),
		getTextHandler(archiver, opts),
		getJsonHandler(archiver, opts),
	))
}

func levelFromEnv() slog.Level {
	switch strings.ToUpper(os.Getenv("LOG_LEVEL")) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getJsonHandler(archiver *Archiver, opts *slog.HandlerOptions) slog.Handler {
	return slog.NewJSONHandler(newBufferedFile(archiver, "default.json"), opts)
}

func getTextHandler(archiver *Archiver, opts *slog.HandlerOptions) slog.Handler {
	return slog.NewTextHandler(newBufferedFile(archiver, "default.txt"), opts)
}

func getPrettyHandler(archiver *Archiver, opts *slog.HandlerOptions) *Handler {
	return NewHandler(DualWriter{
		Stdout: os.Stdout,
		File:   newBufferedFile(archiver, "pretty.log"),
	}, opts)
}

func newBufferedFile(archiver *Archiver, name string) io.Writer {
	file, err := os.OpenFile("logs/"+name, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		return io.Discard
	}
	bufferFile, err := os.OpenFile("logs/buffered/"+name, os.O_APPEND|os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return file
	}
	return &BufferedFile{
		Archiver:   archiver,
		File:       file,
		BufferFile: bufferFile,
	}
}

package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

type MultiWriter struct {
	writers []io.Writer
}

func NewMultiWriter(writers ...io.Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

func (mw *MultiWriter) Write(p []byte) (n int, err error) {
	for _, w := range mw.writers {
		if _, err := w.Write(p); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

func (mw *MultiWriter) Add(writer io.Writer) {
	mw.writers = append(mw.writers, writer)
}

// ColoredLogger writes levelled diagnostics. Stdout belongs to the flattened
// output, so every level defaults to stderr.
type ColoredLogger struct {
	verbose bool
	color   bool
	mu      sync.RWMutex
	writers map[LogLevel]io.Writer
	loggers map[LogLevel]*log.Logger
}

var globalLogger *ColoredLogger

var levelColors = map[LogLevel]*color.Color{
	DEBUG: color.New(color.FgHiBlack),
	INFO:  color.New(color.FgBlue),
	WARN:  color.New(color.FgYellow),
	ERROR: color.New(color.FgRed),
}

var timestampColor = color.New(color.FgHiBlack)

func init() {
	globalLogger = &ColoredLogger{
		verbose: false,
		color:   isTerminal(os.Stderr),
		writers: make(map[LogLevel]io.Writer),
		loggers: make(map[LogLevel]*log.Logger),
	}

	for level := DEBUG; level <= ERROR; level++ {
		globalLogger.writers[level] = os.Stderr
		globalLogger.loggers[level] = log.New(os.Stderr, "", 0)
	}
}

func isTerminal(f *os.File) bool {
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func SetVerbose(verbose bool) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.verbose = verbose
}

func IsVerbose() bool {
	globalLogger.mu.RLock()
	defer globalLogger.mu.RUnlock()
	return globalLogger.verbose
}

// SetColor overrides terminal detection.
func SetColor(enabled bool) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.color = enabled
}

func SetWriterForAll(writer io.Writer) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	for level := DEBUG; level <= ERROR; level++ {
		globalLogger.writers[level] = writer
		globalLogger.loggers[level] = log.New(writer, "", 0)
	}
}

func AddWriter(level LogLevel, writer io.Writer) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()

	currentWriter := globalLogger.writers[level]

	if mw, ok := currentWriter.(*MultiWriter); ok {
		mw.Add(writer)
	} else {
		multiWriter := NewMultiWriter(currentWriter, writer)
		globalLogger.writers[level] = multiWriter
		globalLogger.loggers[level] = log.New(multiWriter, "", 0)
	}
}

func AddWriterForAll(writer io.Writer) {
	for level := DEBUG; level <= ERROR; level++ {
		AddWriter(level, writer)
	}
}

func (cl *ColoredLogger) formatMessage(level LogLevel, message string) string {
	timestamp := time.Now().Format("06-01-02 15:04:05")
	levelName := fmt.Sprintf("%-5s", level.String())

	if !cl.color {
		return fmt.Sprintf("[%s] %s %s", timestamp, levelName, message)
	}

	ts := timestampColor.Sprintf("[%s]", timestamp)
	lc, ok := levelColors[level]
	if !ok {
		lc = color.New(color.FgWhite)
	}
	return fmt.Sprintf("%s %s %s", ts, lc.Sprint(levelName), message)
}

func (cl *ColoredLogger) log(level LogLevel, format string, args ...interface{}) {
	cl.mu.RLock()
	if level == DEBUG && !cl.verbose {
		cl.mu.RUnlock()
		return
	}

	logger := cl.loggers[level]
	formattedMessage := cl.formatMessage(level, fmt.Sprintf(format, args...))
	cl.mu.RUnlock()

	logger.Println(formattedMessage)
}

func Debug(format string, args ...interface{}) {
	globalLogger.log(DEBUG, format, args...)
}

func Info(format string, args ...interface{}) {
	globalLogger.log(INFO, format, args...)
}

func Warn(format string, args ...interface{}) {
	globalLogger.log(WARN, format, args...)
}

func Error(format string, args ...interface{}) {
	globalLogger.log(ERROR, format, args...)
}

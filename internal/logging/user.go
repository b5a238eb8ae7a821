package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// User-facing output functions with status prefixes.
// These write to stdout/stderr directly for CLI output,
// separate from the structured debug logging.

var (
	// Stdout and Stderr are the destinations for user output.
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// UserInfo prints an info message to stdout.
func UserInfo(format string, args ...interface{}) {
	fmt.Fprintf(Stdout, "ℹ "+format+"\n", args...)
}

// UserSuccess prints a success message to stdout.
func UserSuccess(format string, args ...interface{}) {
	fmt.Fprintln(Stdout, successStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

// UserWarning prints a warning message to stderr.
func UserWarning(format string, args ...interface{}) {
	fmt.Fprintln(Stderr, warningStyle.Render("⚠ "+fmt.Sprintf(format, args...)))
}

// UserError prints an error message to stderr.
func UserError(format string, args ...interface{}) {
	fmt.Fprintln(Stderr, errorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

// UserHeader prints a highlighted section header to stdout.
func UserHeader(format string, args ...interface{}) {
	fmt.Fprintln(Stdout, headerStyle.Render(fmt.Sprintf(format, args...)))
}

// UserProgress rewrites the current stdout line. Call UserProgressDone
// before printing anything else.
func UserProgress(format string, args ...interface{}) {
	fmt.Fprintf(Stdout, "\r"+format, args...)
}

// UserProgressDone terminates a line started by UserProgress.
func UserProgressDone() {
	fmt.Fprintln(Stdout)
}

package tuitest

import (
	"regexp"
	"strings"
)

// Frame is what the program drew between two clear-screen sequences.
type Frame struct {
	Index int
	// Raw keeps the escape sequences; Text has them removed and trailing
	// blanks trimmed.
	Raw  string
	Text string
}

const cursorHome = "\x1b[H"

var (
	clearScreen = regexp.MustCompile(`\x1b\[[0-9;]*J`)
	// OSC strings first so their BEL terminator is consumed with them.
	escapeSequence = regexp.MustCompile(
		`\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)` +
			`|\x1b\[[0-9;?]*[ -/]*[@-~]` +
			`|\x1b[()][A-Za-z0-9]|\x1b[=>78]`)
	controlBytes = strings.NewReplacer("\x00", "", "\x07", "", "\x0e", "", "\x0f", "")
)

func splitFrames(raw []byte) []Frame {
	var frames []Frame
	for _, chunk := range clearScreen.Split(dropCarriageReturns(raw), -1) {
		text := visible(chunk)
		if text == "" {
			continue
		}
		frames = append(frames, Frame{
			Index: len(frames),
			Raw:   strings.TrimPrefix(chunk, cursorHome),
			Text:  text,
		})
	}
	return frames
}

// Last returns the most recent frame, or false when nothing was drawn.
func (r *Recording) Last() (Frame, bool) {
	if r == nil || len(r.Frames) == 0 {
		return Frame{}, false
	}
	return r.Frames[len(r.Frames)-1], true
}

// Text is the whole transcript as plain text. Bubbletea repaints only the
// lines that changed, so text that was on screen at some point is found here
// even when no single frame holds all of it.
func (r *Recording) Text() string {
	if r == nil {
		return ""
	}
	return visible(dropCarriageReturns(r.Raw))
}

// Contains reports whether text was drawn at any point.
func (r *Recording) Contains(text string) bool {
	return strings.Contains(r.Text(), text)
}

func dropCarriageReturns(raw []byte) string {
	return strings.ReplaceAll(string(raw), "\r", "")
}

// visible strips escapes and control bytes, trims each line's trailing
// blanks and drops trailing empty lines.
func visible(s string) string {
	s = controlBytes.Replace(escapeSequence.ReplaceAllString(s, ""))
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

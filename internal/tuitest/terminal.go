package tuitest

import (
	"bytes"
	"io"
)

// terminalReplies answers the queries bubbletea and termenv send on startup.
// Without replies they wait for a timeout before the first frame.
var terminalReplies = []struct {
	query []byte
	reply []byte
}{
	{[]byte("\x1b[6n"), []byte("\x1b[1;1R")},
	{[]byte("\x1b]10;?\x07"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x07")},
	{[]byte("\x1b]10;?\x1b\\"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x1b\\")},
	{[]byte("\x1b]11;?\x07"), []byte("\x1b]11;rgb:0000/0000/0000\x07")},
	{[]byte("\x1b]11;?\x1b\\"), []byte("\x1b]11;rgb:0000/0000/0000\x1b\\")},
}

const (
	responderBufferLimit = 256
	responderTail        = 64
)

type terminalResponder struct {
	w   io.Writer
	buf []byte
}

func newTerminalResponder(w io.Writer) *terminalResponder {
	return &terminalResponder{w: w, buf: make([]byte, 0, responderBufferLimit)}
}

// Process scans chunk for terminal queries and writes their replies.
func (tr *terminalResponder) Process(chunk []byte) {
	tr.buf = append(tr.buf, chunk...)
	for tr.answerNext() {
	}
	// Keep a tail so sequences split across reads are still seen.
	if len(tr.buf) > responderBufferLimit {
		tr.buf = append(tr.buf[:0], tr.buf[len(tr.buf)-responderTail:]...)
	}
}

// answerNext replies to the earliest query in the buffer.
func (tr *terminalResponder) answerNext() bool {
	first, firstAt := -1, len(tr.buf)
	for i, entry := range terminalReplies {
		if idx := bytes.Index(tr.buf, entry.query); idx >= 0 && idx < firstAt {
			first, firstAt = i, idx
		}
	}
	if first < 0 {
		return false
	}
	entry := terminalReplies[first]
	tr.buf = tr.buf[firstAt+len(entry.query):]
	_, _ = tr.w.Write(entry.reply)
	return true
}

package tui

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/pitsorgalla/Wortify/internal/app"
)

type jobStatus string

const (
	jobStatusRunning   jobStatus = "running"
	jobStatusSucceeded jobStatus = "succeeded"
	jobStatusFailed    jobStatus = "failed"
)

type jobSnapshot struct {
	ID          string
	Kind        app.RequestKind
	Generation  uint64
	Status      jobStatus
	StartedAt   time.Time
	CompletedAt time.Time
	Err         string
	Duration    time.Duration
}

type jobSignalMsg struct {
	Snapshot jobSnapshot
}

type jobResultEnvelope struct {
	Snapshot jobSnapshot
	Event    app.Event
}

// jobBus runs machine requests off the event loop.
type jobBus struct {
	counter int64
	log     *logrus.Entry
}

func newJobBus(logger *logrus.Logger) *jobBus {
	return &jobBus{log: logger.WithField("component", "jobs")}
}

func (b *jobBus) nextID(kind app.RequestKind) string {
	idx := atomic.AddInt64(&b.counter, 1)
	return fmt.Sprintf("%s-%d", kind, idx)
}

// Start emits a running signal, then the request's outcome.
func (b *jobBus) Start(req app.Request) tea.Cmd {
	id := b.nextID(req.Kind)
	started := time.Now()
	startSnapshot := jobSnapshot{
		ID:         id,
		Kind:       req.Kind,
		Generation: req.Generation,
		Status:     jobStatusRunning,
		StartedAt:  started,
	}
	startCmd := func() tea.Msg {
		return jobSignalMsg{Snapshot: startSnapshot}
	}

	runCmd := func() tea.Msg {
		ev := req.Run(context.Background())
		err := app.Err(ev)
		snapshot := startSnapshot
		snapshot.CompletedAt = time.Now()
		snapshot.Duration = snapshot.CompletedAt.Sub(started)
		snapshot.Status = jobStatusSucceeded
		entry := b.log.WithFields(logrus.Fields{
			"job":        id,
			"kind":       req.Kind,
			"generation": req.Generation,
			"duration":   snapshot.Duration,
		})
		if err != nil {
			snapshot.Status = jobStatusFailed
			snapshot.Err = err.Error()
			entry.WithError(err).Warn("job failed")
		} else {
			entry.Info("job succeeded")
		}
		return jobResultEnvelope{Snapshot: snapshot, Event: ev}
	}

	return tea.Sequence(startCmd, runCmd)
}

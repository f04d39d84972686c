package scheduler

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Publisher delivers the messages of a post in order
type Publisher interface {
	Publish(ctx context.Context, messages []string) error
}

// WriterPublisher writes each message to w separated by a blank line
type WriterPublisher struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterPublisher creates a publisher writing to w
func NewWriterPublisher(w io.Writer) *WriterPublisher {
	return &WriterPublisher{w: w}
}

// Publish implements Publisher
func (p *WriterPublisher) Publish(ctx context.Context, messages []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, msg := range messages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(p.w, "%s\n\n", msg); err != nil {
			return fmt.Errorf("failed to publish: %w", err)
		}
	}
	return nil
}

// LogPublisher records each message at info level
type LogPublisher struct {
	logger *logrus.Logger
}

// NewLogPublisher creates a publisher that logs
func NewLogPublisher(logger *logrus.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish implements Publisher
func (p *LogPublisher) Publish(_ context.Context, messages []string) error {
	for i, msg := range messages {
		p.logger.WithFields(logrus.Fields{
			"component": "publisher",
			"part":      i + 1,
			"parts":     len(messages),
			"lines":     strings.Count(msg, "\n") + 1,
		}).Info(msg)
	}
	return nil
}

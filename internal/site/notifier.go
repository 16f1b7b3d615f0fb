package site

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gocloud.dev/pubsub"
	_ "gocloud.dev/pubsub/mempubsub"
)

// BuildEvent is published after a build has been written.
type BuildEvent struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Duration    string         `json:"duration"`
	Pages       int            `json:"pages"`
	Redirects   int            `json:"redirects"`
	PagesByKind map[string]int `json:"pages_by_kind"`
	Artifacts   []string       `json:"artifacts,omitempty"`
}

// Notifier publishes build events to a pubsub topic.
type Notifier struct {
	url   string
	topic *pubsub.Topic
}

// OpenNotifier opens the topic at url, for example mem://builds.
func OpenNotifier(ctx context.Context, url string) (*Notifier, error) {
	topic, err := pubsub.OpenTopic(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("site: open topic %s: %w", url, err)
	}
	return &Notifier{url: url, topic: topic}, nil
}

// NewNotifier wraps an already open topic.
func NewNotifier(topic *pubsub.Topic) *Notifier {
	return &Notifier{topic: topic}
}

// Publish sends the event for result.
func (n *Notifier) Publish(ctx context.Context, result *BuildResult, artifacts []string) error {
	event := BuildEvent{
		GeneratedAt: result.GeneratedAt,
		Duration:    result.Duration.String(),
		Pages:       len(result.Pages),
		Redirects:   len(result.Redirects),
		PagesByKind: map[string]int{},
		Artifacts:   artifacts,
	}
	for kind, count := range result.PagesByKind {
		event.PagesByKind[string(kind)] = count
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("site: encode build event: %w", err)
	}
	return n.topic.Send(ctx, &pubsub.Message{
		Body: body,
		Metadata: map[string]string{
			"event": "site.build.completed",
			"pages": strconv.Itoa(event.Pages),
		},
	})
}

// Close shuts the topic down. mem:// topics are shared per process and are
// left open for other users of the same URL.
func (n *Notifier) Close(ctx context.Context) error {
	if n == nil || n.topic == nil {
		return nil
	}
	if strings.HasPrefix(strings.ToLower(n.url), "mem://") {
		return nil
	}
	return n.topic.Shutdown(ctx)
}

package site

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"gocloud.dev/pubsub/mempubsub"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

func TestNotifierPublishesBuildEvent(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	topic := mempubsub.NewTopic()
	subscription := mempubsub.NewSubscription(topic, time.Minute)
	defer subscription.Shutdown(ctx)

	notifier := NewNotifier(topic)
	defer notifier.Close(ctx)

	result := sampleResult()
	result.PagesByKind = map[interfaces.PageKind]int{interfaces.PageKindNotFound: 2}
	if err := notifier.Publish(ctx, result, []string{"pages.json"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	msg, err := subscription.Receive(ctx)
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	msg.Ack()

	if msg.Metadata["event"] != "site.build.completed" || msg.Metadata["pages"] != "4" {
		t.Fatalf("unexpected metadata %#v", msg.Metadata)
	}
	var event BuildEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if event.Pages != 4 || event.Redirects != 1 || event.PagesByKind["notFound"] != 2 {
		t.Fatalf("unexpected event %+v", event)
	}
}

func TestOpenNotifierMemTopic(t *testing.T) {
	ctx := context.Background()
	notifier, err := OpenNotifier(ctx, "mem://sitegen-builds")
	if err != nil {
		t.Fatalf("OpenNotifier: %v", err)
	}
	if err := notifier.Publish(ctx, sampleResult(), nil); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := notifier.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

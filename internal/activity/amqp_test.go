package activity

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"

	"boxoffice/pkg/logger"
)

type fakeChannel struct {
	published []amqp.Publishing
	keys      []string
	fail      error
	closed    bool
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.fail != nil {
		return f.fail
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestAMQPPublisherSendsAction(t *testing.T) {
	ch := &fakeChannel{}
	pub := NewAMQPPublisherWithChannel(ch, "boxoffice.activity", logger.Discard())

	action := NewAction(ActionCreateEvent, "user:7", `Created event "Gala" with 60 seats`).WithRequestID("req-9")
	pub.Publish(context.Background(), action)

	if len(ch.published) != 1 || ch.keys[0] != "boxoffice.activity" {
		t.Fatalf("expected one message on the activity queue, got %v", ch.keys)
	}
	msg := ch.published[0]
	if msg.DeliveryMode != amqp.Persistent || msg.MessageId != action.ID.String() {
		t.Fatalf("unexpected publishing %+v", msg)
	}
	if msg.Headers["request_id"] != "req-9" || msg.Type != string(ActionCreateEvent) {
		t.Fatalf("unexpected headers %v", msg.Headers)
	}

	var decoded Action
	if err := json.Unmarshal(msg.Body, &decoded); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if decoded.Username != "user:7" {
		t.Fatalf("unexpected payload %+v", decoded)
	}
}

func TestAMQPPublisherRedialsAfterFailure(t *testing.T) {
	broken := &fakeChannel{fail: errors.New("channel closed")}
	pub := NewAMQPPublisherWithChannel(broken, "q", logger.Discard())

	fresh := &fakeChannel{}
	dials := 0
	pub.dial = func() (AMQPChannel, io.Closer, error) {
		dials++
		return fresh, nil, nil
	}

	pub.Publish(context.Background(), NewAction(ActionLogin, "alice", "Logged in"))
	if !broken.closed {
		t.Fatalf("failed channel should be closed")
	}

	pub.Publish(context.Background(), NewAction(ActionLogout, "alice", "Logged out"))
	if dials != 1 || len(fresh.published) != 1 {
		t.Fatalf("expected one redial and one publish, got %d dials and %d messages", dials, len(fresh.published))
	}
}

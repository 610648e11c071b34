package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/internal/domain"
)

var at = time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)

func sampleEvent() Event {
	return OrderCreated(domain.Order{ID: 7, UserID: 2, Status: domain.OrderPending, Total: decimal.RequireFromString("19.99")}, at)
}

func TestBroker_DeliversToEverySubscriber(t *testing.T) {
	b := NewBroker(4)
	a, cancelA := b.Subscribe()
	c, cancelC := b.Subscribe()
	defer cancelA()
	defer cancelC()

	e := sampleEvent()
	require.NoError(t, b.Publish(context.Background(), e))

	assert.Equal(t, e, <-a)
	assert.Equal(t, e, <-c)
}

func TestBroker_DropsForSlowSubscriber(t *testing.T) {
	b := NewBroker(1)
	ch, cancel := b.Subscribe()
	defer cancel()

	first, second := sampleEvent(), sampleEvent()
	require.NoError(t, b.Publish(context.Background(), first))
	require.NoError(t, b.Publish(context.Background(), second))

	assert.Equal(t, first.ID, (<-ch).ID)
	select {
	case e := <-ch:
		t.Fatalf("expected the second event to be dropped, got %v", e.ID)
	default:
	}
}

func TestBroker_CancelClosesAndUnregisters(t *testing.T) {
	b := NewBroker(1)
	ch, cancel := b.Subscribe()
	assert.Equal(t, 1, b.Subscribers())

	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, b.Subscribers())
	require.NoError(t, b.Publish(context.Background(), sampleEvent()))
}

type fakeSQS struct {
	in  *sqs.SendMessageInput
	err error
}

func (f *fakeSQS) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{}, nil
}

func TestSQSPublisher_SendsJSONWithAttributes(t *testing.T) {
	client := &fakeSQS{}
	p := NewSQSPublisher(client, "https://sqs.example/orders")
	e := sampleEvent()

	require.NoError(t, p.Publish(context.Background(), e))
	require.NotNil(t, client.in)
	assert.Equal(t, "https://sqs.example/orders", *client.in.QueueUrl)
	assert.Equal(t, "7", *client.in.MessageAttributes["order_id"].StringValue)
	assert.Equal(t, TypeOrderCreated, *client.in.MessageAttributes["event_type"].StringValue)

	var back Event
	require.NoError(t, json.Unmarshal([]byte(*client.in.MessageBody), &back))
	assert.Equal(t, e.ID, back.ID)
	assert.Equal(t, 7, back.Order.ID)
}

func TestMulti_JoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	b := NewBroker(1)
	ch, cancel := b.Subscribe()
	defer cancel()

	m := Multi{NewSQSPublisher(&fakeSQS{err: boom}, "q"), nil, b}
	err := m.Publish(context.Background(), sampleEvent())
	assert.ErrorIs(t, err, boom)
	// Later publishers still run.
	assert.Len(t, ch, 1)
}

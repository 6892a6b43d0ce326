//go:build integration

package mqtt

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// Integration tests against a broker at 127.0.0.1:1883.
//
//	go test -tags=integration -count=1 ./internal/infrastructure/mqtt/...

func connectIntegration(t *testing.T, clientID string) *Client {
	t.Helper()
	cfg := testConfig()
	cfg.Broker.ClientID = clientID

	client, err := Connect(cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestIntegration_ConnectAndClose(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.ClientID = "graylogic-int-close"

	client, err := Connect(cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if !client.IsConnected() {
		t.Error("IsConnected() = false after Connect()")
	}

	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if client.IsConnected() {
		t.Error("IsConnected() = true after Close()")
	}
	if err := client.Publish("graylogic/int/closed", []byte("x"), 1, false); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Publish() after Close() error = %v, want ErrNotConnected", err)
	}
}

func TestIntegration_SubscriptionTracking(t *testing.T) {
	client := connectIntegration(t, "graylogic-int-sub-track")
	handler := func(string, []byte) error { return nil }

	topics := []string{
		Topics{}.BridgeCommands("botvac-int"),
		Topics{}.BridgeAck("botvac-int", "r1"),
	}
	for _, topic := range topics {
		if err := client.Subscribe(topic, 1, handler); err != nil {
			t.Fatalf("Subscribe(%s) error = %v", topic, err)
		}
	}
	if got := client.SubscriptionCount(); got != len(topics) {
		t.Errorf("SubscriptionCount() = %d, want %d", got, len(topics))
	}

	if err := client.Unsubscribe(topics[0]); err != nil {
		t.Fatalf("Unsubscribe() error = %v", err)
	}
	if client.HasSubscription(topics[0]) || !client.HasSubscription(topics[1]) {
		t.Error("subscription tracking out of sync after Unsubscribe()")
	}
}

func TestIntegration_CommandRoundtrip(t *testing.T) {
	client := connectIntegration(t, "graylogic-int-roundtrip")

	var received atomic.Value
	done := make(chan struct{}, 1)
	err := client.Subscribe(Topics{}.BridgeCommands("botvac-int"), 1, func(topic string, payload []byte) error {
		received.Store(topic + " " + string(payload))
		done <- struct{}{}
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	if err := client.Publish(Topics{}.BridgeCommand("botvac-int", "r1"), []byte(`{"operation":"find_me"}`), 1, false); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for message")
	}
	want := `graylogic/command/botvac-int/r1 {"operation":"find_me"}`
	if got := received.Load(); got != want {
		t.Errorf("received %v, want %q", got, want)
	}
}

func TestIntegration_OnConnectCallback(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.ClientID = "graylogic-int-callback"

	client, err := Connect(cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	var disconnects atomic.Int32
	client.SetOnDisconnect(func(error) { disconnects.Add(1) })
	client.SetOnConnect(func() {})

	if err := client.HealthCheck(t.Context()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
	if disconnects.Load() != 0 {
		t.Error("unexpected disconnect callback")
	}
}

package botvac

import (
	"context"
	"sync"
	"time"

	"github.com/nerrad567/gray-logic-botvac/internal/audit"
	"github.com/nerrad567/gray-logic-botvac/internal/capability"
	"github.com/nerrad567/gray-logic-botvac/internal/fleet"
	"github.com/nerrad567/gray-logic-botvac/internal/robot"
)

// MockMQTTClient implements MQTTClient for testing.
type MockMQTTClient struct {
	mu        sync.Mutex
	published []mockPublish
	handlers  map[string]func(topic string, payload []byte)
	connected bool
}

type mockPublish struct {
	Topic    string
	Payload  []byte
	QoS      byte
	Retained bool
}

func NewMockMQTTClient() *MockMQTTClient {
	return &MockMQTTClient{
		connected: true,
		handlers:  make(map[string]func(topic string, payload []byte)),
	}
}

func (m *MockMQTTClient) Publish(topic string, payload []byte, qos byte, retained bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, mockPublish{Topic: topic, Payload: payload, QoS: qos, Retained: retained})
	return nil
}

func (m *MockMQTTClient) Subscribe(topic string, _ byte, handler func(topic string, payload []byte)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[topic] = handler
	return nil
}

func (m *MockMQTTClient) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// Deliver routes a message to the handler subscribed with pattern.
func (m *MockMQTTClient) Deliver(pattern, topic string, payload []byte) bool {
	m.mu.Lock()
	handler, ok := m.handlers[pattern]
	m.mu.Unlock()
	if ok {
		handler(topic, payload)
	}
	return ok
}

// PublishedTo returns the payloads published to topic.
func (m *MockMQTTClient) PublishedTo(topic string) []mockPublish {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []mockPublish
	for _, p := range m.published {
		if p.Topic == topic {
			out = append(out, p)
		}
	}
	return out
}

// mockRobots implements RobotSource.
type mockRobots struct {
	robots map[string]*fleet.Robot
}

func (m *mockRobots) GetRobot(_ context.Context, id string) (*fleet.Robot, error) {
	if r, ok := m.robots[id]; ok {
		return r.DeepCopy(), nil
	}
	return nil, fleet.ErrRobotNotFound
}

func (m *mockRobots) ListRobots(_ context.Context) ([]fleet.Robot, error) {
	out := make([]fleet.Robot, 0, len(m.robots))
	for _, r := range m.robots {
		out = append(out, *r.DeepCopy())
	}
	return out, nil
}

// mockTransport implements robot.Transport.
type mockTransport struct {
	mu   sync.Mutex
	sent []robot.Command
	err  error
}

func (m *mockTransport) Send(_ context.Context, _ string, cmd robot.Command) (robot.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, cmd)
	if m.err != nil {
		return nil, m.err
	}
	return robot.Response{"result": "ok"}, nil
}

func (m *mockTransport) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// mockRecorder implements Recorder.
type mockRecorder struct {
	mu       sync.Mutex
	statuses []string
}

func (m *mockRecorder) WriteCommandMetric(_, _, status string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, status)
}

// mockJournal implements Journal.
type mockJournal struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (m *mockJournal) Create(_ context.Context, e *audit.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *e)
	return nil
}

// testFleet returns a D7-like robot and one with an empty declaration.
func testFleet() *mockRobots {
	return &mockRobots{robots: map[string]*fleet.Robot{
		"d7": {
			ID:     "d7",
			Name:   "Downstairs",
			Serial: "OPS01234-0123456789AB",
			Secret: "s3cr3t",
			Capabilities: capability.Declaration{
				capability.CapHouseCleaning: capability.LevelBasic2,
				capability.CapSpotCleaning:  capability.LevelBasic2,
				capability.CapFindMe:        capability.LevelBasic1,
				capability.CapGeneralInfo:   capability.LevelBasic1,
			},
		},
		"bare": {
			ID:     "bare",
			Name:   "Attic",
			Serial: "OPS99999-000000000000",
		},
	}}
}

package robot

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/nerrad567/gray-logic-botvac/internal/capability"
)

// mockTransport records sent commands and replies with a canned response.
type mockTransport struct {
	mu       sync.Mutex
	sent     []Command
	serials  []string
	response Response
	err      error
}

func (m *mockTransport) Send(_ context.Context, serial string, cmd Command) (Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, cmd)
	m.serials = append(m.serials, serial)
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *mockTransport) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func basic2Remote(tr Transport) *Remote {
	return NewRemote("OPS01234-0123456789AB", capability.Declaration{
		capability.CapHouseCleaning: capability.LevelBasic2,
		capability.CapSpotCleaning:  capability.LevelBasic1,
		capability.CapFindMe:        capability.LevelBasic1,
		capability.CapGeneralInfo:   capability.LevelBasic1,
	}, tr)
}

func TestNewRemote_CopiesDeclaration(t *testing.T) {
	decl := capability.Declaration{capability.CapFindMe: capability.LevelBasic1}
	r := NewRemote("SN1", decl, nil)

	delete(decl, capability.CapFindMe)
	if !r.FindMe().Supported() {
		t.Error("FindMe().Supported() = false after caller mutated declaration")
	}

	caps := r.Capabilities()
	caps[capability.CapMaps] = capability.LevelBasic1
	if _, ok := r.Capabilities()[capability.CapMaps]; ok {
		t.Error("Capabilities() returned the internal map")
	}
}

func TestDo_SendsCommand(t *testing.T) {
	tr := &mockTransport{response: Response{"result": "ok"}}
	r := basic2Remote(tr)

	resp, err := Do(context.Background(), r, r.StartCleaning(), CleaningOptions{EcoMode: true})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if resp["result"] != "ok" {
		t.Errorf("resp = %v, want result=ok", resp)
	}
	if tr.count() != 1 {
		t.Fatalf("sent %d commands, want 1", tr.count())
	}
	if tr.serials[0] != r.Serial() {
		t.Errorf("serial = %q, want %q", tr.serials[0], r.Serial())
	}
	if tr.sent[0].Params["navigationMode"] != 1 {
		t.Errorf("navigationMode = %v, want 1", tr.sent[0].Params["navigationMode"])
	}
}

func TestDo_UnsupportedNeverSends(t *testing.T) {
	tr := &mockTransport{}
	r := NewRemote("SN1", nil, tr)

	_, err := Do(context.Background(), r, r.StartCleaning(), CleaningOptions{})
	if !errors.Is(err, capability.ErrUnsupportedOperation) {
		t.Errorf("Do() error = %v, want ErrUnsupportedOperation", err)
	}
	if tr.count() != 0 {
		t.Errorf("sent %d commands, want 0", tr.count())
	}
}

func TestSend_NoTransport(t *testing.T) {
	r := NewRemote("SN1", nil, nil)
	_, err := r.Send(context.Background(), r.GetState())
	if !errors.Is(err, ErrNoTransport) {
		t.Errorf("Send() error = %v, want ErrNoTransport", err)
	}
}

func TestSend_TransportErrorUnwrapped(t *testing.T) {
	boom := errors.New("connection reset")
	r := NewRemote("SN1", nil, &mockTransport{err: boom})

	_, err := r.Send(context.Background(), r.DismissAlert())
	if err != boom {
		t.Errorf("Send() error = %v, want %v", err, boom)
	}
}

func TestExecute(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		params   string
		wantCmd  string
		wantErr  error
		wantSent int
	}{
		{name: "spot cleaning", op: OpStartSpotCleaning, params: `{"width": 200}`, wantCmd: "startCleaning", wantSent: 1},
		{name: "find me", op: OpFindMe, wantCmd: "findMe", wantSent: 1},
		{name: "fixed op", op: OpGetState, wantCmd: "getRobotState", wantSent: 1},
		{name: "return to base", op: OpReturnToBase, wantCmd: "sendToBase", wantSent: 1},
		{name: "unsupported", op: OpGetLocalStats, wantErr: capability.ErrUnsupportedOperation},
		{name: "unknown", op: "fly", wantErr: ErrUnknownOperation},
		{name: "bad params", op: OpStartCleaning, params: `{"speed": 9}`, wantErr: ErrInvalidParameters},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &mockTransport{response: Response{}}
			r := basic2Remote(tr)

			cmd, _, err := r.Execute(context.Background(), tt.op, json.RawMessage(tt.params))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Execute() error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if cmd.Name != tt.wantCmd {
				t.Errorf("cmd.Name = %q, want %q", cmd.Name, tt.wantCmd)
			}
			if tr.count() != tt.wantSent {
				t.Errorf("sent %d commands, want %d", tr.count(), tt.wantSent)
			}
		})
	}
}

func TestBuild_ErrorsNameOperation(t *testing.T) {
	tests := []struct {
		name   string
		params string
	}{
		{name: "decode error", params: `{"width": "wide"}`},
		{name: "negative size", params: `{"width": -5}`},
	}

	r := basic2Remote(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Resolve(OpStartSpotCleaning)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			_, err = res.Build(json.RawMessage(tt.params))
			if !errors.Is(err, ErrInvalidParameters) {
				t.Fatalf("Build() error = %v, want ErrInvalidParameters", err)
			}
			if !strings.HasPrefix(err.Error(), OpStartSpotCleaning+": ") {
				t.Errorf("Build() error = %q, want %s prefix", err, OpStartSpotCleaning)
			}
		})
	}
}

func TestExecute_ReturnsCommandOnSendFailure(t *testing.T) {
	boom := errors.New("timeout")
	r := basic2Remote(&mockTransport{err: boom})

	cmd, _, err := r.Execute(context.Background(), OpFindMe, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("Execute() error = %v, want %v", err, boom)
	}
	if cmd.Name != "findMe" {
		t.Errorf("cmd.Name = %q, want findMe", cmd.Name)
	}
}

func TestDescribe(t *testing.T) {
	r := basic2Remote(nil)
	statuses := r.Describe()

	byName := make(map[string]OperationStatus, len(statuses))
	for _, s := range statuses {
		byName[s.Name] = s
	}
	if len(byName) != len(Operations()) {
		t.Fatalf("Describe() returned %d operations, want %d", len(byName), len(Operations()))
	}

	sc := byName[OpStartCleaning]
	if !sc.Supported || sc.Selected == nil || *sc.Selected != capability.K(capability.CapHouseCleaning, capability.LevelBasic2) {
		t.Errorf("start_cleaning status = %+v", sc)
	}

	stop := byName[OpStopCleaning]
	if len(stop.Available) != 2 || stop.Diagnostic != "" {
		t.Errorf("stop_cleaning status = %+v, want two available pairs and no diagnostic", stop)
	}

	stats := byName[OpGetLocalStats]
	if stats.Supported || stats.Selected != nil {
		t.Errorf("get_local_stats status = %+v, want unsupported", stats)
	}

	state := byName[OpGetState]
	if !state.Supported || state.Available != nil {
		t.Errorf("get_state status = %+v, want supported with no pairs", state)
	}
}

func TestSupportedOperations(t *testing.T) {
	r := NewRemote("SN1", capability.Declaration{capability.CapFindMe: capability.LevelBasic1}, nil)
	got := r.SupportedOperations()
	want := []string{OpDismissAlert, OpFindMe, OpGetDebugInfo, OpGetState}

	if len(got) != len(want) {
		t.Fatalf("SupportedOperations() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SupportedOperations()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

package robot

import (
	"context"
	"encoding/json"

	"github.com/nerrad567/gray-logic-botvac/internal/capability"
)

// Remote controls one robot.
//
// It holds the robot's serial, its capability declaration and the transport
// used to deliver commands. Resolution happens on every accessor call and
// leaves no state behind, so a Remote is safe for concurrent use when its
// Transport is.
type Remote struct {
	serial    string
	caps      capability.Declaration
	transport Transport
}

// NewRemote creates a Remote. The declaration is copied.
// A nil transport is allowed; Send then fails with ErrNoTransport.
func NewRemote(serial string, caps capability.Declaration, transport Transport) *Remote {
	return &Remote{
		serial:    serial,
		caps:      caps.Clone(),
		transport: transport,
	}
}

// Serial returns the robot serial number.
func (r *Remote) Serial() string {
	return r.serial
}

// Capabilities returns a copy of the robot's declaration.
func (r *Remote) Capabilities() capability.Declaration {
	return r.caps.Clone()
}

// FindMe resolves find_me, which makes the robot play a locator sound.
func (r *Remote) FindMe() *capability.Handle[NoArgs, Command] {
	return capability.Resolve(r.caps, findMe)
}

// GetInfo resolves get_info (getGeneralInfo).
func (r *Remote) GetInfo() *capability.Handle[NoArgs, Command] {
	return capability.Resolve(r.caps, getInfo)
}

// StartCleaning resolves start_cleaning for a house clean.
func (r *Remote) StartCleaning() *capability.Handle[CleaningOptions, Command] {
	return capability.Resolve(r.caps, startCleaning)
}

// StartSpotCleaning resolves start_spot_cleaning.
func (r *Remote) StartSpotCleaning() *capability.Handle[SpotCleaningOptions, Command] {
	return capability.Resolve(r.caps, startSpotCleaning)
}

// StopCleaning resolves stop_cleaning.
func (r *Remote) StopCleaning() *capability.Handle[NoArgs, Command] {
	return capability.Resolve(r.caps, stopCleaning)
}

// PauseCleaning resolves pause_cleaning.
func (r *Remote) PauseCleaning() *capability.Handle[NoArgs, Command] {
	return capability.Resolve(r.caps, pauseCleaning)
}

// ResumeCleaning resolves resume_cleaning.
func (r *Remote) ResumeCleaning() *capability.Handle[NoArgs, Command] {
	return capability.Resolve(r.caps, resumeCleaning)
}

// ReturnToBase resolves return_to_base, which sends the robot to its dock.
func (r *Remote) ReturnToBase() *capability.Handle[NoArgs, Command] {
	return capability.Resolve(r.caps, returnToBase)
}

// GetLocalStats resolves get_local_stats.
func (r *Remote) GetLocalStats() *capability.Handle[NoArgs, Command] {
	return capability.Resolve(r.caps, getLocalStats)
}

// GetManualCleaningInfo resolves get_manual_cleaning_info.
func (r *Remote) GetManualCleaningInfo() *capability.Handle[NoArgs, Command] {
	return capability.Resolve(r.caps, getManualCleaningInfo)
}

// GetPreferences resolves get_preferences.
func (r *Remote) GetPreferences() *capability.Handle[NoArgs, Command] {
	return capability.Resolve(r.caps, getPreferences)
}

// GetSchedule resolves get_schedule.
func (r *Remote) GetSchedule() *capability.Handle[NoArgs, Command] {
	return capability.Resolve(r.caps, getSchedule)
}

// EnableSchedule resolves enable_schedule.
func (r *Remote) EnableSchedule() *capability.Handle[NoArgs, Command] {
	return capability.Resolve(r.caps, enableSchedule)
}

// DisableSchedule resolves disable_schedule.
func (r *Remote) DisableSchedule() *capability.Handle[NoArgs, Command] {
	return capability.Resolve(r.caps, disableSchedule)
}

// GetDebugInfo returns the getRobotInfo command. It needs no capability.
func (r *Remote) GetDebugInfo() Command { return Command{Name: cmdGetRobotInfo} }

// GetState returns the getRobotState command. It needs no capability.
func (r *Remote) GetState() Command { return Command{Name: cmdGetRobotState} }

// DismissAlert returns the dismissCurrentAlert command. It needs no capability.
func (r *Remote) DismissAlert() Command { return Command{Name: cmdDismissCurrentAlert} }

// Resolve resolves a catalog operation by name for this robot.
func (r *Remote) Resolve(name string) (Resolution, error) {
	op, err := LookupOperation(name)
	if err != nil {
		return nil, err
	}
	return op.Resolve(r.caps), nil
}

// OperationStatus describes how one operation resolves for a robot.
type OperationStatus struct {
	Name       string           `json:"name"`
	Supported  bool             `json:"supported"`
	Available  []capability.Key `json:"available,omitempty"`
	Selected   *capability.Key  `json:"selected,omitempty"`
	Diagnostic string           `json:"diagnostic,omitempty"`
}

// Describe resolves every catalog operation and reports the outcome, sorted by name.
func (r *Remote) Describe() []OperationStatus {
	ops := Operations()
	out := make([]OperationStatus, 0, len(ops))
	for _, op := range ops {
		out = append(out, statusOf(op.Resolve(r.caps)))
	}
	return out
}

// SupportedOperations returns the names of operations the robot can run.
func (r *Remote) SupportedOperations() []string {
	var names []string
	for _, s := range r.Describe() {
		if s.Supported && s.Diagnostic == "" {
			names = append(names, s.Name)
		}
	}
	return names
}

func statusOf(res Resolution) OperationStatus {
	s := OperationStatus{
		Name:      res.Operation(),
		Supported: res.Supported(),
		Available: res.Available(),
	}
	if k, ok := res.Selected(); ok {
		s.Selected = &k
	}
	if err := res.Err(); err != nil {
		s.Diagnostic = err.Error()
	}
	return s
}

// Send delivers a command through the transport.
// Transport errors are returned unmodified.
func (r *Remote) Send(ctx context.Context, cmd Command) (Response, error) {
	if r.transport == nil {
		return nil, ErrNoTransport
	}
	return r.transport.Send(ctx, r.serial, cmd)
}

// Execute resolves the named operation, builds it from JSON params and sends it.
// The built command is returned even when sending fails.
func (r *Remote) Execute(ctx context.Context, name string, params json.RawMessage) (Command, Response, error) {
	res, err := r.Resolve(name)
	if err != nil {
		return Command{}, nil, err
	}
	cmd, err := res.Build(params)
	if err != nil {
		return Command{}, nil, err
	}
	resp, err := r.Send(ctx, cmd)
	return cmd, resp, err
}

// Do invokes a typed handle and sends the resulting command.
func Do[A any](ctx context.Context, r *Remote, h *capability.Handle[A, Command], args A) (Response, error) {
	cmd, err := h.Invoke(args)
	if err != nil {
		return nil, err
	}
	return r.Send(ctx, cmd)
}

package robot

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/nerrad567/gray-logic-botvac/internal/capability"
)

// Operation is a named entry in the operation catalog.
type Operation interface {
	// Name returns the operation name (e.g. "start_cleaning").
	Name() string

	// Keys returns the (capability, level) pairs the operation is registered
	// for. Capability-independent operations return nil.
	Keys() []capability.Key

	// Resolve binds the operation to a robot's capability declaration.
	Resolve(decl capability.Declaration) Resolution
}

// Resolution is a type-erased capability.Handle.
// Parameters arrive as JSON and are decoded into the operation's argument type.
type Resolution interface {
	Operation() string
	Supported() bool
	Available() []capability.Key
	Selected() (capability.Key, bool)
	Err() error

	// Build decodes params and builds the command.
	// Unsupported or ambiguous resolutions fail before params are decoded.
	Build(params json.RawMessage) (Command, error)
}

// registered wraps a capability registry as an Operation.
type registered[A any] struct {
	reg *capability.Registry[A, Command]
}

func (o registered[A]) Name() string           { return o.reg.Operation() }
func (o registered[A]) Keys() []capability.Key { return o.reg.Keys() }
func (o registered[A]) Resolve(decl capability.Declaration) Resolution {
	return resolution[A]{Handle: capability.Resolve(decl, o.reg)}
}

type resolution[A any] struct {
	*capability.Handle[A, Command]
}

func (r resolution[A]) Build(params json.RawMessage) (Command, error) {
	if !r.Supported() || r.Err() != nil {
		var zero A
		return r.Invoke(zero) // returns the resolution error without invoking
	}
	args, err := decodeParams[A](params)
	if err != nil {
		return Command{}, fmt.Errorf("%s: %w", r.Operation(), err)
	}
	cmd, err := r.Invoke(args)
	if err != nil {
		return Command{}, fmt.Errorf("%s: %w", r.Operation(), err)
	}
	return cmd, nil
}

// fixed is an operation every robot supports regardless of capabilities.
type fixed struct {
	name    string
	command string
}

func (o fixed) Name() string           { return o.name }
func (o fixed) Keys() []capability.Key { return nil }
func (o fixed) Resolve(capability.Declaration) Resolution {
	return o
}

func (o fixed) Operation() string                { return o.name }
func (o fixed) Supported() bool                  { return true }
func (o fixed) Available() []capability.Key      { return nil }
func (o fixed) Selected() (capability.Key, bool) { return capability.Key{}, false }
func (o fixed) Err() error                       { return nil }
func (o fixed) Build(params json.RawMessage) (Command, error) {
	if _, err := decodeParams[NoArgs](params); err != nil {
		return Command{}, fmt.Errorf("%s: %w", o.name, err)
	}
	return Command{Name: o.command}, nil
}

// catalog indexes every operation by name.
var catalog = buildCatalog(
	fixed{name: OpGetDebugInfo, command: cmdGetRobotInfo},
	fixed{name: OpGetState, command: cmdGetRobotState},
	fixed{name: OpDismissAlert, command: cmdDismissCurrentAlert},
	registered[NoArgs]{findMe},
	registered[NoArgs]{getInfo},
	registered[CleaningOptions]{startCleaning},
	registered[SpotCleaningOptions]{startSpotCleaning},
	registered[NoArgs]{stopCleaning},
	registered[NoArgs]{pauseCleaning},
	registered[NoArgs]{resumeCleaning},
	registered[NoArgs]{returnToBase},
	registered[NoArgs]{getLocalStats},
	registered[NoArgs]{getManualCleaningInfo},
	registered[NoArgs]{getPreferences},
	registered[NoArgs]{getSchedule},
	registered[NoArgs]{enableSchedule},
	registered[NoArgs]{disableSchedule},
)

// buildCatalog panics on duplicate names so the defect fails at start-up.
func buildCatalog(ops ...Operation) map[string]Operation {
	m := make(map[string]Operation, len(ops))
	for _, op := range ops {
		if _, exists := m[op.Name()]; exists {
			panic(fmt.Sprintf("robot: operation %q defined twice", op.Name()))
		}
		m[op.Name()] = op
	}
	return m
}

// LookupOperation returns the named operation.
func LookupOperation(name string) (Operation, error) {
	op, ok := catalog[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}
	return op, nil
}

// Operations returns every operation sorted by name.
func Operations() []Operation {
	ops := make([]Operation, 0, len(catalog))
	for _, op := range catalog {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool {
		return ops[i].Name() < ops[j].Name()
	})
	return ops
}

package robot

import (
	"context"
	"encoding/json"
	"fmt"
)

// Command is the payload delivered to a robot.
type Command struct {
	// Name is the Nucleo command name (e.g. "startCleaning").
	Name string `json:"cmd"`

	// Params holds command-specific values.
	Params map[string]any `json:"params,omitempty"`
}

// Response is the structured reply returned by the robot, passed through unmodified.
type Response map[string]any

// Transport delivers built commands to a robot.
// Implementations own timeouts, authentication and signing.
type Transport interface {
	Send(ctx context.Context, serial string, cmd Command) (Response, error)
}

// NoArgs is the argument type of operations that take no parameters.
type NoArgs struct{}

// CleaningOptions are the arguments of start_cleaning.
// Levels that do not understand an option ignore it.
type CleaningOptions struct {
	EcoMode   bool `json:"eco_mode"`
	ExtraCare bool `json:"extra_care"`
}

// Default spot size in centimetres.
const (
	defaultSpotWidth  = 100
	defaultSpotHeight = 100
)

// SpotCleaningOptions are the arguments of start_spot_cleaning.
// A zero Width or Height means the default of 100 cm.
type SpotCleaningOptions struct {
	EcoMode         bool `json:"eco_mode"`
	DoubleFrequency bool `json:"double_frequency"`
	ExtraCare       bool `json:"extra_care"`
	Width           int  `json:"width"`
	Height          int  `json:"height"`
}

// size returns the effective spot size, applying defaults.
func (o SpotCleaningOptions) size() (width, height int, err error) {
	width, height = o.Width, o.Height
	if width == 0 {
		width = defaultSpotWidth
	}
	if height == 0 {
		height = defaultSpotHeight
	}
	if width < 0 || height < 0 {
		return 0, 0, fmt.Errorf("%w: spot size %dx%d must be positive", ErrInvalidParameters, o.Width, o.Height)
	}
	return width, height, nil
}

// decodeParams decodes raw JSON into a value of type A.
// Empty input (or JSON null) yields the zero value.
func decodeParams[A any](raw json.RawMessage) (A, error) {
	var args A
	if len(raw) == 0 || string(raw) == "null" {
		return args, nil
	}
	if err := strictUnmarshal(raw, &args); err != nil {
		return args, fmt.Errorf("%w: %w", ErrInvalidParameters, err)
	}
	return args, nil
}

package fleet

import (
	"time"

	"github.com/nerrad567/gray-logic-botvac/internal/capability"
)

// Robot is a BotVac registered with the bridge.
type Robot struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Serial string `json:"serial"`

	// Secret signs Nucleo requests. It is never serialised.
	Secret string `json:"-"`

	Model    string `json:"model,omitempty"`
	Firmware string `json:"firmware,omitempty"`

	// Capabilities maps capability name to service level, as reported by
	// the Neato account API (e.g. {"houseCleaning": "basic-1"}).
	Capabilities capability.Declaration `json:"capabilities"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeepCopy returns a copy that shares no maps with r.
func (r *Robot) DeepCopy() *Robot {
	if r == nil {
		return nil
	}
	c := *r
	c.Capabilities = r.Capabilities.Clone()
	return &c
}

// Package capability provides capability-resolved command dispatch for BotVac robots.
//
// Robots advertise a set of (capability, level) pairs, for example
// houseCleaning at basic-2. The same logical operation ("start cleaning")
// is built differently depending on that level. This package keeps one
// Registry per logical operation and resolves it against a robot's
// Declaration at call time.
//
// # Architecture
//
//	┌──────────────────────────┐        ┌──────────────────────────┐
//	│  Registry (registry.go)  │        │ Declaration (key.go)     │
//	│  one per operation       │        │ capability -> level      │
//	│  (capability, level)→fn  │        │ owned by a robot         │
//	└────────────┬─────────────┘        └────────────┬─────────────┘
//	             │                                   │
//	             └──────────────┬────────────────────┘
//	                            ▼
//	               ┌──────────────────────────┐
//	               │  Resolve (resolver.go)   │
//	               │  declared ∩ registered   │
//	               │  → Handle                │
//	               └──────────────────────────┘
//
// # Usage
//
//	var startCleaning = capability.NewRegistry[CleaningOptions, Command]("start_cleaning")
//
//	func init() {
//	    startCleaning.MustRegister("houseCleaning", "basic-1", startCleaningBasic1)
//	}
//
//	h := capability.Resolve(robot.Capabilities, startCleaning)
//	if !h.Supported() {
//	    return // grey out the control
//	}
//	cmd, err := h.Invoke(CleaningOptions{EcoMode: true})
//
// # Thread Safety
//
// Registration must finish before the registry is shared (normally during
// package initialisation). After that, Lookup, Keys, Resolve and Invoke are
// read-only and safe for concurrent use.
package capability

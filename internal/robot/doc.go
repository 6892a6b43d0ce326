// Package robot defines the BotVac robot operations and the Remote that
// dispatches them.
//
// Each logical operation (start_cleaning, find_me, ...) owns a
// capability.Registry populated when the package loads. A Remote binds a
// robot's capability Declaration and a Transport; resolving an operation
// against the Declaration picks the builder for the robot's service level.
//
// # Usage
//
//	remote := robot.NewRemote(serial, caps, nucleoClient)
//
//	h := remote.StartCleaning()
//	if !h.Supported() {
//	    return
//	}
//	resp, err := robot.Do(ctx, remote, h, robot.CleaningOptions{EcoMode: true})
//
// Dynamic callers (MQTT, REST) go through the name-indexed catalog:
//
//	cmd, resp, err := remote.Execute(ctx, "start_spot_cleaning", rawJSON)
package robot

// Package dnp3 ties together the link, transport, application, master and
// outstation layers implemented in this module's subpackages into the
// top-level sentinel errors and small helpers shared across them, the
// DNP3 analogue of the teacher's own root part5 package (ConOf's
// response-validation helper, its "part5: " prefixed sentinel errors).
package dnp3

import "errors"

// ErrChannelDisabled names an operation attempted against a disabled
// channel runtime. No function in this module returns it; channel.Runtime
// reports that case with channel.ErrDisabled.
var ErrChannelDisabled = errors.New("dnp3: channel is disabled")

// ErrNoAssociation names a task submitted before any association has been
// established on a channel. No function in this module returns it.
var ErrNoAssociation = errors.New("dnp3: no association on channel")

// ErrShutdown names an in-flight operation whose owning channel or
// association was stopped. No function in this module returns it.
var ErrShutdown = errors.New("dnp3: shut down")

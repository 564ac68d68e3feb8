// Package registry holds the tool catalog and the dispatcher that invokes it.
//
// A Descriptor declares a tool's name, description and typed parameters.
// Register binds a Descriptor to a Handler. Dispatcher.Invoke looks a tool up
// by name, checks required arguments, fills declared defaults, runs the
// handler and converts whatever it returns into a Result: either Ok text or
// an Err message rendered as "Error: <message>".
//
// The error types in errors.go are the complete failure taxonomy. Handlers
// return them (or any other error) and FromError turns them into Err results,
// so envelope formatting lives in exactly one place.
package registry

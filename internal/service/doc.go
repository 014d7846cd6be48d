// Package service implements the build workflows behind the ed-forge CLI.
//
// BuildService ties the codec registry, the catalog and the loadout engine
// together: it imports builds from any registered format, exports them,
// and applies fitting and engineering changes to a ship by slot.
//
// # Event System
//
// Every successful workflow publishes an Event on the EventBus. The CLI
// subscribes to log them at debug level.
package service

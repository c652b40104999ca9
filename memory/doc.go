// Package memory adapts wazero linear memory to savedump.Memory so objects
// can be snapshotted out of a running guest module.
package memory

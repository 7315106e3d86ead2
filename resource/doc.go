// Package resource provides opaque handle tables for bridge-owned values.
//
// A handle is what crosses the call boundary instead of a pointer: the
// caller holds a number, the bridge holds the value. Ownership moves to the
// caller on Insert and back to the table on Remove.
//
//	table := resource.NewTable[*cursor]()
//
//	// Insert a value, get a handle
//	handle, err := table.Insert(c)
//
//	// Retrieve value by handle
//	c, ok := table.Get(handle)
//
//	// Remove and get value (destroy)
//	c, ok = table.Remove(handle)
//
// # Stale Handles
//
// Each slot carries an 8-bit generation that is bumped on Remove and
// encoded in the handle. Get and Remove on a destroyed handle fail even if
// the slot was reused, unless the generation wrapped around in between.
// Detection is best effort; callers still own the destroy-exactly-once
// obligation.
//
// # Observers
//
// Register observers to track lifecycle events:
//
//	table.Subscribe(observer)
//
// Events are delivered synchronously after the table lock is released.
//
// # Memory Management
//
// Values are not garbage collected while their handle is live. The caller
// must Remove every handle it was given; Close drops whatever is left.
package resource

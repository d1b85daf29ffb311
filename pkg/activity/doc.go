// Package activity fans item lifecycle events out to audit hooks.
//
// Items emit "item.created" when built fresh through Registry.CreateItem and
// "item.modified" when their parsed content is first written. Hooks receive
// normalized events; events without a verb or a subject (item ID, falling
// back to the filename) are dropped.
package activity

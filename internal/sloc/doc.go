// Package sloc defines the in-memory model of a sloc object graph: scene
// object descriptors, their transforms and type payloads, and the trigger
// actions attached to them.
//
// Descriptors are plain values. They become live entities only through the
// creation pipeline in package create.
package sloc

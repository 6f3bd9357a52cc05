// Package graph defines the scene graph types for meshsmith.
// The scene graph is an immutable DAG of primitive parts, transforms
// and groups produced by evaluating a scene script.
package graph

// Package primitive builds closed polygon meshes for parametric solids:
// capsules, UV spheres and boxes. Builders are pure functions. They do not
// validate their parameters; callers that accept user input should call the
// matching Validate method first.
package primitive

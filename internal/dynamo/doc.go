// Package dynamo provides the core data model for the bug simulation.
//
// The package defines the fundamental types every other package works on:
//
//   - [Vec2]: 2D vector used for positions and velocities
//   - [Entity]: a circular body with position, velocity, mass, radius and drag
//   - [World]: the complete simulation state (entities, viewport, physics params)
//   - [Integrator]: advances an entity by one tick
//
// # Coordinates
//
// An entity's position is the top-left corner of its bounding square, so a live
// entity is inside the viewport when 0 <= x <= Width-2r and 0 <= y <= Height-2r.
// Use [Entity.Center] for collision geometry.
//
// # Thread Safety
//
// World is NOT thread-safe. It is owned by a single scheduler; other goroutines
// submit commands through the scheduler's queue instead of touching the world.
package dynamo

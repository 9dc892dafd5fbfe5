// Package physics resolves contacts between entities and the viewport.
//
//   - [ResolveWalls]: clamps to the viewport and reflects velocity (coefficient 1.0)
//   - [PairCollider]: pairwise overlap detection and impulse exchange
//   - [Contain]: position-only clamp applied at the end of a tick
//
// Collision geometry uses entity centers. Pair resolution conserves momentum
// for any restitution in [0,1]; with restitution 1 and equal masses a head-on
// pair swaps velocities.
//
// # Scaling
//
// [PairCollider.Resolve] is an O(n^2) scan with no broad phase. That is fine
// for tens of entities. A spatial grid or sweep-and-prune pass in front of
// [PairCollider.ResolvePair] is the place to add one.
package physics

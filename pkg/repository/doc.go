// Package repository implements the fallback resolution engine.
//
// A [System] wraps a primary store [Delegate] and answers artifact,
// version range, descriptor, version and dependency collection requests.
// Every request is rebound to the single primary repository before it
// reaches the delegate. When the primary store cannot answer, the system
// degrades in a fixed order:
//
//  1. the requested coordinate from the primary store
//  2. the same coordinate with version LATEST from the primary store
//  3. the requested coordinate through a derived, offline session whose
//     local repository is the secondary (javadir) store
//
// Dependency collection tries the secondary store first and the primary
// store second. Version range resolution probes the primary store for a
// descriptor of the highest version before binding that version to the
// secondary store.
//
// Results record how they were obtained in their Match field; anything but
// [MatchExact] is a degraded match and is logged at warn level. When every
// attempt fails the error is a *[ResolutionError] listing each attempt and
// wrapping the first attempt that failed with an error.
//
// Sessions are validated before any store is touched; a [SessionError]
// names every missing field.
package repository

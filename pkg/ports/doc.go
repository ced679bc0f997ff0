/*
Package ports defines the driven ports (interfaces) for the Parley engine.

These interfaces decouple the core logic from external implementations,
allowing the engine to work with various storage backends and timing
sources.

# Key Interfaces

  - SnapshotStore: Responsible for persisting and loading conversation
    snapshots (memory, file, redis adapters are provided).
  - Sleeper: The timing primitive behind every pacing delay, so tests
    run without wall-clock waits.
*/
package ports

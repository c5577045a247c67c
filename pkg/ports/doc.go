/*
Package ports defines the driven ports (interfaces) of the gatlab engine.

These interfaces decouple the expression core from external implementations, so
the engine can persist terms in various backends and load theories from various
sources.

# Key Interfaces

  - TermStore: persists named terms in their S-expression wire form.
  - TheoryLoader: resolves a theory reference (a built-in name, a YAML file, a
    Markdown document) into a validated theory.
  - DistributedLocker: serializes check-then-write operations on a term name
    across engine replicas sharing a store.
  - TermService: the engine surface consumed by the HTTP and MCP adapters.
*/
package ports

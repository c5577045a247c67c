/*
Package observability provides hooks for monitoring expression construction and
functor evaluation.

Metrics exposes Prometheus counters that plug into syntax.Hooks and
functor.Hooks; LogHooks does the same for a structured logger. Chain combines
several hooks so both can be installed at once.
*/
package observability

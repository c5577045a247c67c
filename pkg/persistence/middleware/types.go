// Package middleware decorates term stores.
package middleware

import "github.com/aretw0/gatlab/pkg/ports"

// Middleware allows wrapping a TermStore to add behavior.
type Middleware func(ports.TermStore) ports.TermStore

// Chain applies middlewares so that the first one is the outermost.
func Chain(store ports.TermStore, mws ...Middleware) ports.TermStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package txn defines the unit-of-work boundary used by services that write
// an owner document together with the back-references that mirror it.
package txn

import "context"

// Runner executes fn inside one unit of work.
//
// Implementations propagate the unit of work through the context passed to fn;
// repositories that receive that context must use it for every statement.
// When fn returns an error, nothing it wrote is kept.
type Runner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// RunnerFunc adapts a plain function to [Runner].
type RunnerFunc func(ctx context.Context, fn func(ctx context.Context) error) error

// WithinTx implements [Runner].
func (f RunnerFunc) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return f(ctx, fn)
}

// Direct runs fn without any transactional guarantee.
//
// Writes made before a failure stay applied, matching a plain document store.
var Direct Runner = RunnerFunc(func(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
})

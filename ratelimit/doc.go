// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ratelimit throttles write requests per client.

Two Limiter implementations are provided:

  - MemoryLimiter: one golang.org/x/time/rate bucket per key, in process
  - RedisLimiter: a token bucket kept in Redis, shared between instances

Both allow RATE_LIMIT_PER_MINUTE requests per minute per key with a burst
of the same size. Middleware wraps a handler and answers 429 with a
Retry-After header when the bucket is empty:

	limit := ratelimit.Middleware(limiter, keyFunc)
	mux.HandleFunc("POST /polls/{id}/vote/{$}", limit(handler))
*/
package ratelimit

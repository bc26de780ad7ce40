// Package chatclient provides a session-aware Go client for the chat API:
// bearer-stamped requests, transparent access-token renewal with replay,
// broadcast of irrecoverable session loss, and the OTP-based password
// recovery flow.
//
// The package is designed for concurrent callers: Client methods are safe to
// use from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// chatclient is the public surface. It exposes [Client], [Builder], [Config],
// [ResetFlow], and value types (User, Answer, MetricsSnapshot, etc.). The
// credential store and the unauthorized broadcast channel live in the session
// sub-package and are injected, never ambient.
//
// # What this package must NOT do
//
//   - Validate or mint tokens. The remote API owns credential lifetimes; the
//     client only carries tokens and reads unverified claims for display.
//   - Retry a renewal. One failed renewal attempt is terminal for the session.
//   - Leak a raw transport error to presentation code without the generic
//     fallback error pair.
//
// # Renewal contract
//
// A request that fails with 401 triggers at most one renewal per logical
// call, and concurrent 401s share a single in-flight renewal. The replayed
// request carries the newly stored credential; its outcome reaches the
// caller unchanged.
package chatclient

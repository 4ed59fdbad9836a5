// Package lifecycle drives the state machine of lists and tasks.
//
// A list starts Unclaimed, becomes anonymous-owned on an actor's first visit
// (EnsureDefaultList), and moves to account-owned at most once when that
// actor registers or logs in (Register/Login via the one-time ownership
// transfer). After the transfer the original token never authorizes against
// the list again. Tasks toggle freely between open and done for the owner;
// deletion is terminal.
//
// Guarded mutations resolve the resource, consult the authz guard, and write
// inside a single store transaction, so concurrent requests cannot interleave
// between the check and the write.
package lifecycle

// Package authz is the single authorization decision point.
//
// Authorize is a pure function of (actor kind, actor value, owner kind,
// owner value). Same inputs, same decision, no hidden state. The historical
// behavior of letting session-less requests toggle or delete tasks on any
// list is deliberately not reproduced; unresolved actors get a distinguished
// Unauthorized verdict and explicit-resource endpoints treat it as fatal.
package authz

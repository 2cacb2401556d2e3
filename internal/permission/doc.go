// Package permission decides whether a worker may perform an action,
// optionally scoped to a case.
//
// Evaluation order is fixed: the worker must exist, case visibility is
// checked when a case is in scope, and only then is the action gated by
// role. Supervisors and admins see every case; staff see only the cases
// they are responsible for.
//
// Store failures never resolve to an allow. Lookups report a LookupStatus
// so a store error is distinguishable from a missing row, but both deny.
package permission

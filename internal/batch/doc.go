// Package batch partitions an index range into batches and drives each
// batch's container groups through start, observe and stop.
//
// # Lifecycle
//
// Fuzz processes batches strictly in order. For every batch the controller
// starts each group detached, then observes and stops each group in
// increasing index order, reaps the detached start commands and pauses for
// the cooldown before the next batch:
//
//	pending -> starting -> running -> stopping -> done
//
// Observe polls the group's logs for the completion marker once per poll
// interval. Without a wait timeout it polls until the context ends; with
// one it gives up with ErrWaitTimeout and the group is torn down anyway.
//
// Start and Stop operate on a single batch-sized range and refuse larger
// ones. Stop with force skips Observe entirely.
//
// # Failures
//
// External command failures are reported as EventCommandFailed carrying a
// *runtime.CommandError and recorded in the Report; the run continues.
// Only context cancellation stops a run early.
package batch

// Package health decides whether a fuzzing iteration has finished.
//
// An iteration is complete once the project's logs contain the completion
// marker, "Network attach successful." by default.
//
// # Health Status
//
//	StatusComplete - containers exist and the marker was logged
//	StatusPending  - containers exist, marker not seen yet
//	StatusStopped  - no containers belong to the project
//
// # Check Functions
//
//	health.CheckCompletion(logs, marker)   // pure string check
//	health.Check(ctx, rt, project, marker) // containers + logs
//	health.GetSummary(ctx, rt, project, marker)
package health

// Package testutil provides test utilities for ranfuzz-ctl.
//
// TestEnv sets up a temp compose directory, a logs directory, a compose
// template and an App backed by runtime.MockRuntime:
//
//	env := testutil.NewTestEnv(t)
//	env.GenerateCompose(0, 3)
//	env.CompleteGroup(2, 1) // marker appears on the second poll
//
// Fixtures under fixtures/ are embedded and loaded with LoadFixture,
// LoadConfigFixture and ComposeTemplate.
package testutil

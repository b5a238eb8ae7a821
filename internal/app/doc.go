// Package app provides the application context for ranfuzz-ctl.
//
// This package manages application-wide dependencies using the functional
// options pattern, enabling easy testing through dependency injection.
//
// # App Context
//
// The App struct holds core dependencies:
//
//	type App struct {
//	    Config   config.Config          // Resolved run configuration
//	    Runtime  runtime.Runtime        // Compose runtime
//	    FS       system.FileSystem      // Descriptors and log archives
//	    Executor system.CommandExecutor // Compose CLI execution
//	    Audit    *audit.Logger          // Per-index lifecycle events
//	    Metrics  *metrics.RunCollector  // Set when metrics_file is configured
//	}
//
// # Creating an App
//
// Use New with the configuration and functional options:
//
//	// Production usage
//	app, err := app.New(cfg)
//
//	// Testing with custom dependencies
//	app, err := app.New(cfg,
//	    app.WithRuntime(mockRuntime),
//	    app.WithFileSystem(mockFS),
//	)
//
// Controller returns a batch controller with the audit and metrics hooks
// attached.
package app

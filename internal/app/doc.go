// Package app wires the dashboard together: configuration, logging,
// telemetry, the dataset service, the event hub and the HTTP router.
//
// # Initialization Flow
//
//	1. Load configuration from EDA_* environment variables and the YAML file
//	2. Resolve paths and initialize the logger
//	3. Initialize OpenTelemetry and the pipeline metrics
//	4. Start the event hub and create the dataset and health services
//	5. Build the middleware chain and mount routes
//
// # Usage
//
//	a, err := app.NewApplication()
//	if err != nil {
//	    os.Exit(1)
//	}
//	if err := a.Run(); err != nil {
//	    os.Exit(1)
//	}
//
// # Graceful Shutdown
//
// Run returns after SIGINT or SIGTERM once the server has drained, the
// dataset cache has been cleared, WebSocket clients have been closed and
// telemetry has been flushed. Errors are returned, never passed to os.Exit.
package app

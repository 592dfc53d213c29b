// Package app wires the dashboard together and manages its lifecycle.
//
// # Initialization Flow
//
//  1. Load configuration (defaults, YAML file, PAINEL_* environment)
//  2. Initialize logging and OpenTelemetry
//  3. Create the websocket hub, the dataset cache and the extractor
//  4. Initialize the dashboard and health services
//  5. Set up middleware, API, page and websocket routes
//  6. Configure the HTTP server
//
// # Usage
//
//	application, err := app.NewApplicationFromEnvironment()
//	if err != nil {
//	    return err
//	}
//	return application.Run()
//
// # Graceful Shutdown
//
// Run waits for SIGINT or SIGTERM. Stop drains in-flight requests, closes
// every websocket client, stops the cache sweeper and flushes telemetry.
//
// Initialization errors are returned to the caller; the package never
// calls os.Exit.
package app

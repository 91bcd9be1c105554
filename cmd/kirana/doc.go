// Command kirana is the application CLI: it starts the HTTP server, lists
// registered routes, ensures database indexes and runs queue workers.
package main

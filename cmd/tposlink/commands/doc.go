// Package commands defines the tposlink CLI, a desktop stand-in for both
// sides of the point-of-sale deep-link protocol.
//
// Commands
//
//   - encode   Build a request URL from a cart or cart reference file
//   - send     Build a request URL and open it with the system launcher
//   - decode   Print the envelope carried by a request or response URL
//   - respond  Answer a request URL with a transaction or a failure
//
// # Configuration
//
// Settings come from TPOS_* environment variables, optionally read from a
// .env file (see internal/config). Flags override the environment.
package commands

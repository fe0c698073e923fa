// VenTY Relay is a multi-provider LLM gateway.
//
// It routes chat requests across interchangeable upstream providers with
// per-conversation affinity, temporary blacklisting of failing
// providers, model rotation, and buffered or streamed responses.
//
// Usage:
//
//	# Start the gateway with default configuration
//	venty run
//
//	# Start with a custom configuration file
//	venty run --config /etc/venty/config.yaml
//
//	# Validate a configuration file
//	venty validate
//
//	# Show version information
//	venty version
package main

func main() {
	Execute()
}

// Package discovery finds console backends on the local network with mDNS.
//
// Backends advertise the "_consolekit._tcp" service type in the "local."
// domain. Two TXT records are understood:
//   - path: URL prefix of the /action and /ws endpoints
//   - transport: "http" (default) or "websocket"
//
// # Usage Example
//
//	scanner := discovery.NewScanner()
//	backends, err := scanner.Scan(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, b := range backends {
//	    fmt.Println(b)
//	}
//
// The serve command announces itself with Announce and withdraws the
// announcement on shutdown.
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Firewall must allow mDNS (UDP port 5353)
package discovery

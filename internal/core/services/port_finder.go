package services

import (
	"fmt"
	"net"
)

// Port range scanned when the MCP HTTP transport is requested without an
// explicit port.
const (
	MCPPortRangeStart = 8765
	MCPPortRangeEnd   = 8799
)

// FindAvailablePort finds an available port in the given range on the
// loopback interface.
func FindAvailablePort(startPort, endPort int) (int, error) {
	if startPort <= 0 || endPort < startPort {
		return 0, fmt.Errorf("invalid port range %d-%d", startPort, endPort)
	}
	for port := startPort; port <= endPort; port++ {
		addr := fmt.Sprintf("127.0.0.1:%d", port)
		listener, err := net.Listen("tcp", addr)
		if err == nil {
			listener.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port in range %d-%d", startPort, endPort)
}

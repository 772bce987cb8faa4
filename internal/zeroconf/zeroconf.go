// Package zeroconf registers the control API as an mDNS/DNS-SD service
// so the daemon is discoverable on the LAN.
package zeroconf

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/grandcat/zeroconf"
)

// Service manages mDNS service registration.
type Service struct {
	name     string // instance name / hostname
	port     int
	deviceID string
	server   *zeroconf.Server
}

// New creates a zeroconf Service that will advertise on the given port.
// name should be the hostname.
func New(name string, port int, deviceID string) *Service {
	return &Service{
		name:     name,
		port:     port,
		deviceID: deviceID,
	}
}

// Start registers the mDNS service and blocks until ctx is cancelled, at
// which point it shuts down the server cleanly.
func (s *Service) Start(ctx context.Context) error {
	txt := []string{"model=hdmilink", "id=" + s.deviceID}

	server, err := zeroconf.Register(
		s.name,       // instance name
		"_http._tcp", // service type
		"local.",     // domain
		s.port,       // port
		txt,          // TXT records
		nil,          // ifaces — nil means all interfaces
	)
	if err != nil {
		return fmt.Errorf("zeroconf register: %w", err)
	}
	s.server = server
	slog.Info("zeroconf: registered mDNS service",
		"name", s.name,
		"port", s.port,
		"txt", txt,
	)

	<-ctx.Done()

	server.Shutdown()
	slog.Info("zeroconf: mDNS service unregistered")
	return nil
}

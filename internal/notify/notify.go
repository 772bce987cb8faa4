// Package notify emits output state changes as D-Bus signals on the system
// bus, for desktop shells and audio routers that want to follow the cable.
package notify

import (
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
	"github.com/pimedia/hdmilink/internal/events"
)

const (
	busName    = "net.pimedia.hdmilink"
	objectPath = "/net/pimedia/hdmilink"
	iface      = "net.pimedia.hdmilink.Output"
)

// Notifier forwards bus events to D-Bus signals.
type Notifier struct {
	conn *dbus.Conn
}

// New connects to the system bus and claims the daemon's well-known name.
func New() (*Notifier, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("notify: connect system bus: %w", err)
	}
	reply, err := conn.RequestName(busName, dbus.NameFlagDoNotQueue)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("notify: request name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		conn.Close()
		return nil, fmt.Errorf("notify: name %s already owned", busName)
	}
	return &Notifier{conn: conn}, nil
}

// Close releases the bus connection.
func (n *Notifier) Close() error {
	return n.conn.Close()
}

// Run forwards events from the bus until the channel closes. Callers
// subscribe on the event bus and hand the channel over.
func (n *Notifier) Run(ch <-chan events.Event) {
	for ev := range ch {
		if err := n.emit(ev); err != nil {
			slog.Warn("notify: emit failed", "err", err)
		}
	}
}

func (n *Notifier) emit(ev events.Event) error {
	switch ev.Kind {
	case events.KindHotplug:
		return n.conn.Emit(objectPath, iface+".Hotplug", ev.Connected)
	case events.KindAudio:
		return n.conn.Emit(objectPath, iface+".AudioChanged", ev.AudioStreaming)
	default:
		return n.conn.Emit(objectPath, iface+".StateChanged", ev.State, ev.Mode)
	}
}

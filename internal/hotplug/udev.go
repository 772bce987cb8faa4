package hotplug

import (
	"context"
	"fmt"

	"github.com/pilebones/go-udev/netlink"
)

// UdevSource listens for DRM subsystem uevents. The kernel raises a change
// event with HOTPLUG=1 when a connector's state flips; the actual state is
// then read back through Probe (the hotplug register), since the uevent
// itself does not carry the direction.
type UdevSource struct {
	Probe func() bool
}

func (s *UdevSource) Name() string { return "udev" }

func (s *UdevSource) Run(ctx context.Context, report func(bool)) error {
	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		return fmt.Errorf("connect netlink: %w", err)
	}
	defer conn.Close()

	queue := make(chan netlink.UEvent)
	errs := make(chan error)
	quit := conn.Monitor(queue, errs, s.matcher())
	defer close(quit)

	report(s.Probe())
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errs:
			return fmt.Errorf("netlink monitor: %w", err)
		case <-queue:
			report(s.Probe())
		}
	}
}

// matcher selects DRM hotplug change events.
func (s *UdevSource) matcher() netlink.Matcher {
	action := "change"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "drm",
			"HOTPLUG":   "1",
		},
	})
	return rules
}

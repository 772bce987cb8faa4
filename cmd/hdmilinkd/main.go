// Command hdmilinkd drives a VideoCore HDMI output: modesetting, infoframes
// and the MAI audio path, exposed over a local REST API.
// Run with --mock to use simulated hardware (no /dev/mem required).
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"
	"periph.io/x/host/v3"

	"github.com/pimedia/hdmilink/internal/api"
	"github.com/pimedia/hdmilink/internal/config"
	"github.com/pimedia/hdmilink/internal/controller"
	"github.com/pimedia/hdmilink/internal/encoder"
	"github.com/pimedia/hdmilink/internal/events"
	"github.com/pimedia/hdmilink/internal/firmware"
	"github.com/pimedia/hdmilink/internal/hotplug"
	"github.com/pimedia/hdmilink/internal/hw"
	"github.com/pimedia/hdmilink/internal/notify"
	"github.com/pimedia/hdmilink/internal/zeroconf"
)

func main() {
	var (
		mock    = flag.Bool("mock", false, "use simulated hardware (no /dev/mem or /dev/vcio required)")
		addr    = flag.String("addr", ":8080", "HTTP listen address")
		cfgDir  = flag.String("config-dir", "", "config directory (default: ~/.config/hdmilink)")
		debug   = flag.Bool("debug", false, "enable debug logging")
		variant = flag.String("variant", "", "hardware variant, overrides the config file")
		hpdPin  = flag.String("hpd-gpio", "", "HPD GPIO pin name (e.g. GPIO28); default is udev/register detection")
		rstPin  = flag.String("reset-gpio", "", "GPIO pin of an external reset line to pulse on modeset")
	)
	flag.Parse()

	// Configure logging: human-readable on a terminal, JSON under systemd.
	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: logLevel}
	var handler slog.Handler
	if isatty.IsTerminal(os.Stderr.Fd()) {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))

	// Resolve config directory
	if *cfgDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			slog.Error("cannot determine home directory", "err", err)
			os.Exit(1)
		}
		*cfgDir = filepath.Join(home, ".config", "hdmilink")
	}
	if err := os.MkdirAll(*cfgDir, 0755); err != nil {
		slog.Error("cannot create config directory", "path", *cfgDir, "err", err)
		os.Exit(1)
	}

	// Two daemons poking the same register island ends badly.
	lock := flock.New(filepath.Join(*cfgDir, "hdmilinkd.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		slog.Error("cannot take instance lock", "err", err)
		os.Exit(1)
	}
	if !locked {
		slog.Error("another hdmilinkd instance is already running", "lock", lock.Path())
		os.Exit(1)
	}
	defer lock.Unlock()

	// Graceful shutdown context
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Config store
	store := config.NewStore(*cfgDir)
	cfg, err := store.Load()
	if err != nil {
		slog.Error("cannot load config", "path", store.Path(), "err", err)
		os.Exit(1)
	}

	variantName := cfg.Variant
	if *variant != "" {
		variantName = *variant
	}
	v, ok := encoder.Variants[variantName]
	if !ok {
		slog.Error("unknown hardware variant", "variant", variantName)
		os.Exit(1)
	}

	// Hardware: register bus, clocks, power and PHY
	var (
		bus    hw.Bus
		deps   encoder.Deps
		hpdSrc hotplug.Source
	)
	if *mock {
		slog.Info("using simulated hardware", "variant", v.Name)
		sim := encoder.NewSimulator(v)
		bus = sim.Bus
		deps = encoder.Deps{
			Clocks: encoder.NewMockClocks(),
			Power:  &encoder.MockPower{},
			PHY:    &encoder.MockPHY{},
			Reset:  &encoder.MockReset{},
		}
	} else {
		slog.Info("using /dev/mem register access", "variant", v.Name)
		mem, err := hw.OpenMem(v.Layout.Windows())
		if err != nil {
			slog.Error("cannot map registers", "err", err)
			os.Exit(1)
		}
		defer mem.Close()
		bus = mem

		fw, err := firmware.Open()
		if err != nil {
			slog.Error("cannot open firmware mailbox", "err", err)
			os.Exit(1)
		}
		defer fw.Close()

		// The HSM clock has no property-channel id; the firmware keeps it
		// running and the encoder only needs its rate for the MAI divider.
		clockIDs := map[encoder.ClockID]uint32{
			encoder.ClockPixel: firmware.ClockPixelBVB,
		}
		var phy encoder.PHY = encoder.NoopPHY{}
		if v == encoder.BCM2835 {
			clockIDs[encoder.ClockPixel] = firmware.ClockPixel
			p, err := encoder.NewRegisterPHY(mem, v)
			if err != nil {
				slog.Error("cannot build PHY driver", "err", err)
				os.Exit(1)
			}
			phy = p
		}
		deps = encoder.Deps{
			Clocks: firmware.NewClocks(fw, clockIDs),
			Power:  firmware.NewPower(fw),
			PHY:    phy,
		}

		if *rstPin != "" {
			if _, err := host.Init(); err != nil {
				slog.Error("periph host init failed", "err", err)
				os.Exit(1)
			}
			rst, err := encoder.NewGPIOReset(*rstPin, slog.Default())
			if err != nil {
				slog.Error("cannot open reset line", "err", err)
				os.Exit(1)
			}
			deps.Reset = rst
		}
	}
	deps.Bus = bus
	deps.Variant = v
	deps.Log = slog.Default()
	enc := encoder.New(deps)

	// Event bus
	busEvents := events.NewBus()

	// Controller
	ctrl, err := controller.New(enc, store, busEvents, slog.Default())
	if err != nil {
		slog.Error("controller initialization failed", "err", err)
		os.Exit(1)
	}

	// Hotplug detection source
	switch {
	case *mock, *hpdPin == "" && !udevAvailable():
		hpdSrc = &hotplug.RegisterSource{Probe: enc.Connected}
	case *hpdPin != "":
		if _, err := host.Init(); err != nil {
			slog.Error("periph host init failed", "err", err)
			os.Exit(1)
		}
		hpdSrc = &hotplug.GPIOSource{Pin: *hpdPin}
	default:
		hpdSrc = &hotplug.UdevSource{Probe: enc.Connected}
	}
	monitor := hotplug.NewMonitor(hpdSrc, slog.Default(), ctrl.HandleHotplug)
	go func() {
		if err := monitor.Run(ctx); err != nil {
			slog.Error("hotplug monitor stopped", "err", err)
		}
	}()

	// Config file watcher for live reload
	go func() {
		if err := store.Watch(ctx, ctrl.ApplyConfig); err != nil {
			slog.Warn("config watcher stopped", "err", err)
		}
	}()

	// D-Bus signals, best effort: headless boxes without a system bus still work.
	if notifier, err := notify.New(); err != nil {
		slog.Warn("dbus unavailable", "err", err)
	} else {
		defer notifier.Close()
		ch := busEvents.Subscribe("dbus")
		defer busEvents.Unsubscribe("dbus")
		go notifier.Run(ch)
	}

	// Zeroconf mDNS registration
	hostname, _ := os.Hostname()
	port := 8080
	if parts := strings.SplitN(*addr, ":", 2); len(parts) == 2 && parts[1] != "" {
		if p, err := strconv.Atoi(parts[1]); err == nil {
			port = p
		}
	}
	zc := zeroconf.New(hostname, port, cfg.DeviceID)
	go func() {
		if err := zc.Start(ctx); err != nil {
			slog.Warn("zeroconf failed", "err", err)
		}
	}()

	// HTTP server
	srv := &http.Server{
		Addr:         *addr,
		Handler:      api.NewRouter(ctrl, busEvents),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // 0 = no timeout (needed for SSE)
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("hdmilinkd listening", "addr", *addr, "mock", *mock, "config", *cfgDir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
		}
	}()

	if _, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		slog.Debug("sd_notify failed", "err", err)
	}

	// Wait for shutdown signal
	<-ctx.Done()
	slog.Info("shutting down...")
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)

	// The output stays up across restarts; only flush pending config writes
	// and stop serving.
	if err := store.Flush(); err != nil {
		slog.Warn("failed to flush config", "err", err)
	}

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutCancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		slog.Warn("server shutdown error", "err", err)
	}

	slog.Info("shutdown complete")
}

// udevAvailable reports whether the kernel netlink uevent socket is usable,
// which needs a DRM driver bound to the device.
func udevAvailable() bool {
	_, err := os.Stat("/sys/class/drm")
	return err == nil
}

package phaser

/*------------------------------------------------------------------
 *
 * Purpose:	Announce the board's frame link over mDNS/DNS-SD so host
 *		tooling can find it without a fixed address.
 *
 * Description:	Pure-Go github.com/brutella/dnssd, same as the
 *		production TNC's discovery announcement, adapted to the
 *		board's own service type.
 *
 *------------------------------------------------------------------*/

import (
	"context"

	"github.com/brutella/dnssd"
)

// ServiceType is the DNS-SD service type advertised for the board's
// frame link.
const ServiceType = "_phaser-link._tcp"

// Announce advertises name on port over mDNS/DNS-SD until ctx is
// canceled. Announcement errors are logged and non-fatal: discovery
// is a convenience, not load-bearing for the datapath.
func Announce(ctx context.Context, name string, port int) {
	cfg := dnssd.Config{Name: name, Type: ServiceType, Port: port} //nolint:exhaustruct

	sv, err := dnssd.NewService(cfg)
	if err != nil {
		logEvent(DW_COLOR_ERROR, "dns-sd: failed to create service", "err", err)
		return
	}

	rp, err := dnssd.NewResponder()
	if err != nil {
		logEvent(DW_COLOR_ERROR, "dns-sd: failed to create responder", "err", err)
		return
	}

	if _, err := rp.Add(sv); err != nil {
		logEvent(DW_COLOR_ERROR, "dns-sd: failed to add service", "err", err)
		return
	}

	logEvent(DW_COLOR_INFO, "dns-sd: announcing frame link", "name", name, "port", port)

	go func() {
		if err := rp.Respond(ctx); err != nil && ctx.Err() == nil {
			logEvent(DW_COLOR_ERROR, "dns-sd: responder error", "err", err)
		}
	}()
}

// Package netinfo finds the address other devices on the counter's network
// should open, and prints the startup banner with a scannable QR code.
package netinfo

import (
	"fmt"
	"io"
	"net"
	"sort"
	"strings"

	"github.com/mdp/qrterminal/v3"
)

// Interface-name hints tried in order when no preferred interface matches:
// VPNs first (the register is often reached over Tailscale or similar),
// then mobile data, Wi-Fi, and wired networks.
var defaultHints = []string{
	"tailscale", "zerotier", "wireguard", "openvpn", "vpn", "wg",
	"tun", "tap", "utun", "ppp", "l2tp", "pptp",
	"rmnet", "wlan", "wi-fi", "wifi", "ethernet", "en", "eth",
}

// LanIP picks the IPv4 address to advertise: preferred interfaces first,
// then the default hints, then any external address. Empty when the host
// has no usable address.
func LanIP(preferred []string) string {
	return lanIPFrom(collectInterfaces(), append(preferred, defaultHints...))
}

// LanIPs lists every external IPv4 address, deduplicated, for the banner.
func LanIPs() []string {
	networks := collectInterfaces()

	seen := make(map[string]bool)
	var out []string
	for _, addrs := range networks {
		for _, addr := range addrs {
			if !seen[addr] {
				seen[addr] = true
				out = append(out, addr)
			}
		}
	}
	return out
}

// PrintBanner writes the register URL and a terminal QR code for it.
func PrintBanner(w io.Writer, url string) {
	fmt.Fprintf(w, "\n  Касса запущена: %s\n\n", url)
	qrterminal.GenerateWithConfig(url, qrterminal.Config{
		Writer:    w,
		Level:     qrterminal.L,
		BlackChar: qrterminal.BLACK,
		WhiteChar: qrterminal.WHITE,
		QuietZone: 1,
	})
	fmt.Fprintln(w)
}

// collectInterfaces maps interface names to their usable IPv4 addresses.
func collectInterfaces() map[string][]string {
	networks := make(map[string][]string)

	ifaces, err := net.Interfaces()
	if err != nil {
		return networks
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			ip := ipNet.IP.To4()
			if ip == nil || ip.IsLoopback() || ip.IsLinkLocalUnicast() {
				continue
			}
			networks[iface.Name] = append(networks[iface.Name], ip.String())
		}
	}
	return networks
}

// lanIPFrom resolves the advertised address from a name→addresses map.
// Split out so address selection is testable without real interfaces.
func lanIPFrom(networks map[string][]string, hints []string) string {
	// Stable iteration: hint order decides, not map order.
	names := make([]string, 0, len(networks))
	for name := range networks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, hint := range hints {
		if hint == "" {
			continue
		}
		hintLower := strings.ToLower(hint)
		for _, name := range names {
			nameLower := strings.ToLower(name)
			if nameLower != hintLower && !strings.Contains(nameLower, hintLower) {
				continue
			}
			if addrs := networks[name]; len(addrs) > 0 {
				return addrs[0]
			}
		}
	}

	for _, name := range names {
		if addrs := networks[name]; len(addrs) > 0 {
			return addrs[0]
		}
	}
	return ""
}

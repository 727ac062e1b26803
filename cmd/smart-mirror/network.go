package main

import (
	"net"
	"os"

	"github.com/sweeney/smart-mirror/internal/status"
)

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}

// networkInfo prefers the pi-helper environment. Without it, and when the
// host address is to be displayed, it falls back to the outbound address.
func networkInfo(wantIP bool) *status.NetworkInfo {
	if info := readNetworkInfo(); info != nil {
		return info
	}
	if !wantIP {
		return nil
	}
	ip := outboundIP()
	if ip == "" {
		return nil
	}
	return &status.NetworkInfo{IP: ip, Status: "unknown"}
}

// outboundIP returns the local address used to reach the internet. UDP
// "dial" sends no packets; it only selects a route.
func outboundIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return ""
	}
	defer conn.Close()
	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.IP.String()
	}
	return ""
}

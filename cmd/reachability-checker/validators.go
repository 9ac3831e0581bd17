package main

import (
	"net"
	"strings"
)

func isIP4Addr(val string) bool {
	if idx := strings.LastIndex(val, ":"); idx != -1 {
		val = val[0:idx]
	}

	ip := net.ParseIP(val)

	return ip != nil && ip.To4() != nil
}

func isIP6Addr(val string) bool {
	if idx := strings.LastIndex(val, ":"); idx != -1 {
		if idx != 0 && val[idx-1:idx] == "]" {
			val = val[1 : idx-1]
		}
	}

	ip := net.ParseIP(val)

	return ip != nil && ip.To4() == nil
}

func isTCPAddr(val string) bool {
	if !isIP4Addr(val) && !isIP6Addr(val) {
		return false
	}

	_, err := net.ResolveTCPAddr("tcp", val)

	return err == nil
}

func isLogLevel(val string) bool {
	switch strings.ToLower(val) {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func isProbeMethod(val string) bool {
	switch strings.ToUpper(val) {
	case "GET", "HEAD":
		return true
	default:
		return false
	}
}

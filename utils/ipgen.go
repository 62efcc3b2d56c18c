package utils

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// GenerateIPv4 returns a random dotted-quad address. Display data only:
// no allocation, no collision checking.
func GenerateIPv4() string {
	parts := make([]string, 4)
	for i := range parts {
		parts[i] = fmt.Sprintf("%d", rand.IntN(256))
	}
	return strings.Join(parts, ".")
}

// GenerateIPv6 returns a random address of eight zero-padded lowercase
// hex groups.
func GenerateIPv6() string {
	groups := make([]string, 8)
	for i := range groups {
		groups[i] = fmt.Sprintf("%04x", rand.IntN(0x10000))
	}
	return strings.Join(groups, ":")
}

// GenerateIPv4List returns count comma-joined IPv4 addresses.
func GenerateIPv4List(count int) string {
	addrs := make([]string, count)
	for i := range addrs {
		addrs[i] = GenerateIPv4()
	}
	return strings.Join(addrs, ",")
}

// GenerateIPv6List returns count comma-joined IPv6 addresses. Empty string
// when count is zero.
func GenerateIPv6List(count int) string {
	addrs := make([]string, count)
	for i := range addrs {
		addrs[i] = GenerateIPv6()
	}
	return strings.Join(addrs, ",")
}

// Package generator hands out ids for scheduler runs.
package generator

import (
	"bytes"
	"encoding/binary"
	"errors"
	"net"

	"github.com/bwmarrin/snowflake"
)

var ErrNoLocalIP = errors.New("no local ip")

// IDbyIP packs an IPv4 address into an uint32. Anything else yields 0.
func IDbyIP(ip string) uint32 {
	var id uint32
	binary.Read(bytes.NewBuffer(net.ParseIP(ip).To4()), binary.BigEndian, &id)
	return id
}

// NodeID maps an address onto the snowflake node range.
func NodeID(ip string) int64 {
	return int64(IDbyIP(ip) % (1 << snowflake.NodeBits))
}

// LocalIP returns the first non-loopback IPv4 address of the host.
func LocalIP() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", err
	}
	for _, addr := range addrs {
		if ipNet, ok := addr.(*net.IPNet); ok && !ipNet.IP.IsLoopback() {
			if ipNet.IP.To4() != nil {
				return ipNet.IP.String(), nil
			}
		}
	}
	return "", ErrNoLocalIP
}

// NewNode returns a snowflake node keyed by the host address, falling back
// to node 1 when the host has no usable address.
func NewNode() (*snowflake.Node, error) {
	var node int64 = 1
	if ip, err := LocalIP(); err == nil {
		node = NodeID(ip)
	}
	return snowflake.NewNode(node)
}

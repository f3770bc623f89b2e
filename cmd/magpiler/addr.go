// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

const defaultHost = "localhost"

// parseAddr parses an address in the form "host:port", "host" or ":port",
// and returns it in the form "host:port". A missing host is "localhost" and
// a missing port is the default port.
func parseAddr(addr string) (string, error) {
	if addr == "" {
		return "", errors.New("missing address")
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		// No port.
		host, port = addr, strconv.Itoa(defaultPort)
		if _, _, err := net.SplitHostPort(addr + ":" + port); err != nil {
			return "", fmt.Errorf("invalid address %q", addr)
		}
	}
	if host == "" {
		host = defaultHost
	}
	p, err := strconv.Atoi(port)
	if err != nil || p < 1 || p > 65535 {
		return "", fmt.Errorf("invalid port %q", port)
	}
	return net.JoinHostPort(host, port), nil
}

package server

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/amonks/focus/internal/config"
	internalstrings "github.com/amonks/focus/internal/strings"
)

// ResolveAddr returns the listen address. An explicit addr wins; otherwise
// the configured port is used on the loopback interface.
func ResolveAddr(cfg *config.Config, addr string) (string, error) {
	if !internalstrings.IsBlank(addr) {
		return normalizeAddr(addr)
	}
	port := config.DefaultPort
	if cfg != nil {
		port = cfg.Port()
	}
	return fmt.Sprintf("127.0.0.1:%d", port), nil
}

func normalizeAddr(addr string) (string, error) {
	trimmed := strings.TrimSpace(addr)
	if trimmed == "" {
		return "", fmt.Errorf("address is required")
	}
	if strings.Contains(trimmed, ":") {
		return trimmed, nil
	}
	port, err := strconv.Atoi(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid port %q", trimmed)
	}
	if port <= 0 || port > 65535 {
		return "", fmt.Errorf("port out of range: %d", port)
	}
	return fmt.Sprintf("127.0.0.1:%d", port), nil
}

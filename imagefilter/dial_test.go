package imagefilter

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicAddress(t *testing.T) {
	tests := []struct {
		addr   string
		public bool
	}{
		{"93.184.216.34", true},
		{"2606:2800:220:1:248:1893:25c8:1946", true},
		{"127.0.0.1", false},
		{"::1", false},
		{"0.0.0.0", false},
		{"::", false},
		{"10.1.2.3", false},
		{"172.16.0.1", false},
		{"192.168.1.1", false},
		{"fd00::1", false},
		{"169.254.169.254", false},
		{"fe80::1", false},
		{"100.64.0.1", false},
		{"224.0.0.1", false},
		{"::ffff:127.0.0.1", false},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			assert.Equal(t, tt.public, publicAddress(netip.MustParseAddr(tt.addr)))
		})
	}
}

func TestPublicOnly(t *testing.T) {
	assert.NoError(t, publicOnly("tcp4", "93.184.216.34:443", nil))
	assert.ErrorIs(t, publicOnly("tcp4", "127.0.0.1:80", nil), ErrForbiddenAddress)
	assert.ErrorIs(t, publicOnly("tcp6", "[fe80::1]:80", nil), ErrForbiddenAddress)
	assert.ErrorIs(t, publicOnly("tcp", "not-an-address", nil), ErrForbiddenAddress)
}

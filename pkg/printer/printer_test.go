package printer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSelectsTransport(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    Transport
		wantErr bool
	}{
		{"usb", Config{Transport: TransportUSB, USBPath: "/dev/usb/lp0"}, TransportUSB, false},
		{"usb without path", Config{Transport: TransportUSB}, "", true},
		{"network", Config{Transport: TransportNetwork, Address: "192.168.1.50:9100"}, TransportNetwork, false},
		{"network without address", Config{Transport: TransportNetwork}, "", true},
		{"none", Config{Transport: TransportNone}, TransportNone, false},
		{"unset means none", Config{}, TransportNone, false},
		{"unknown", Config{Transport: "serial"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Transport())
		})
	}
}

func TestNullPrinterSwallowsOutput(t *testing.T) {
	p := NewNullPrinter()

	assert.NoError(t, p.Print([]byte{ESC, '@'}))
	assert.NoError(t, p.Close())
	assert.False(t, p.IsConnected())
	assert.Equal(t, TransportNone, p.Transport())
}

func TestUSBPrinterConnectedOnlyWhenDevicePresent(t *testing.T) {
	p, err := New(Config{Transport: TransportUSB, USBPath: "/dev/does-not-exist/lp9"})
	require.NoError(t, err)
	assert.False(t, p.IsConnected())
}

func TestDocumentKeyValueFillsWidth(t *testing.T) {
	doc := NewDocument(Width58mm)
	doc.KeyValue("TOTAL:", "55.20")

	// Skip the two-byte initialize sequence
	line := strings.TrimSuffix(string(doc.Bytes()[2:]), "\n")
	assert.Len(t, line, Width58mm)
	assert.True(t, strings.HasPrefix(line, "TOTAL:"))
	assert.True(t, strings.HasSuffix(line, "55.20"))
}

func TestDocumentItemLineFormatsWeighedQuantity(t *testing.T) {
	doc := NewDocument(Width80mm)
	doc.ItemLine("12.500", "kg", "Copper Wire", "587.50")

	line := strings.TrimSuffix(string(doc.Bytes()[2:]), "\n")
	assert.Len(t, line, Width80mm)
	assert.True(t, strings.HasPrefix(line, "12.500 kg Copper Wire"))
	assert.True(t, strings.HasSuffix(line, "587.50"))
}

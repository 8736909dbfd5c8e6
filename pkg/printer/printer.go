package printer

import (
	"fmt"
	"net"
	"os"
	"time"
)

// Transport identifies how the receipt printer at the weighbridge counter is
// attached.
type Transport string

const (
	TransportUSB     Transport = "usb"
	TransportNetwork Transport = "network"
	TransportNone    Transport = "none"
)

// Config selects and parameterizes the printer transport.
type Config struct {
	Transport Transport
	// USBPath is the device file for USB printers, e.g. /dev/usb/lp0.
	USBPath string
	// Address is host:port for network printers, e.g. 192.168.1.100:9100.
	Address string
	// DialTimeout bounds the TCP connect for network printers. Zero means
	// a 5s default.
	DialTimeout time.Duration
}

// Printer sends rendered ESC/POS documents to a thermal printer. Invoices and
// receipt vouchers are rendered elsewhere; this layer only moves bytes.
type Printer interface {
	// Print sends one rendered document.
	Print(data []byte) error
	// Close releases the underlying handle.
	Close() error
	// IsConnected reports whether the device is currently reachable.
	IsConnected() bool
	// Transport reports how this printer is attached.
	Transport() Transport
}

// New builds the printer for the configured transport. An empty transport
// means no printer: documents still render, nothing is sent.
func New(cfg Config) (Printer, error) {
	switch cfg.Transport {
	case TransportUSB:
		if cfg.USBPath == "" {
			return nil, fmt.Errorf("printer: usb transport needs a device path")
		}
		return &usbPrinter{path: cfg.USBPath}, nil
	case TransportNetwork:
		if cfg.Address == "" {
			return nil, fmt.Errorf("printer: network transport needs an address")
		}
		timeout := cfg.DialTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		return &networkPrinter{address: cfg.Address, timeout: timeout}, nil
	case TransportNone, "":
		return NewNullPrinter(), nil
	default:
		return nil, fmt.Errorf("printer: unknown transport %q (use usb, network, or none)", cfg.Transport)
	}
}

// usbPrinter writes to a character device file. The handle is opened per
// print job; counter printers are shared with nothing else, so holding it
// open buys nothing.
type usbPrinter struct {
	path string
}

func (p *usbPrinter) Print(data []byte) error {
	f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("printer: open %s: %w", p.path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.path, err)
	}
	return nil
}

func (p *usbPrinter) Close() error {
	return nil
}

func (p *usbPrinter) IsConnected() bool {
	_, err := os.Stat(p.path)
	return err == nil
}

func (p *usbPrinter) Transport() Transport {
	return TransportUSB
}

// networkPrinter dials a raw-socket printer (JetDirect port 9100 style) per
// print job.
type networkPrinter struct {
	address string
	timeout time.Duration
}

func (p *networkPrinter) Print(data []byte) error {
	conn, err := net.DialTimeout("tcp", p.address, p.timeout)
	if err != nil {
		return fmt.Errorf("printer: connect %s: %w", p.address, err)
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(2 * p.timeout))

	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.address, err)
	}
	return nil
}

func (p *networkPrinter) Close() error {
	return nil
}

func (p *networkPrinter) IsConnected() bool {
	conn, err := net.DialTimeout("tcp", p.address, 2*time.Second)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (p *networkPrinter) Transport() Transport {
	return TransportNetwork
}

// nullPrinter swallows output. Used when no hardware is configured, and as
// the fallback when the configured printer fails to initialize; callers then
// serve the rendered printout as JSON instead.
type nullPrinter struct{}

// NewNullPrinter returns the no-op printer.
func NewNullPrinter() Printer {
	return &nullPrinter{}
}

func (p *nullPrinter) Print(data []byte) error {
	return nil
}

func (p *nullPrinter) Close() error {
	return nil
}

func (p *nullPrinter) IsConnected() bool {
	return false
}

func (p *nullPrinter) Transport() Transport {
	return TransportNone
}

package printer

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"
)

// Printer sends a rendered ESC/POS job to a receipt printer.
type Printer interface {
	Print(ctx context.Context, data []byte) error
	// Name identifies the device in logs and API responses.
	Name() string
	Available(ctx context.Context) bool
}

type devicePrinter struct {
	path string
}

// NewDevicePrinter writes jobs to a character device such as /dev/usb/lp0.
func NewDevicePrinter(path string) Printer {
	return &devicePrinter{path: path}
}

func (p *devicePrinter) Print(_ context.Context, data []byte) error {
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

func (p *devicePrinter) Name() string { return "usb:" + p.path }

func (p *devicePrinter) Available(context.Context) bool {
	_, err := os.Stat(p.path)
	return err == nil
}

type networkPrinter struct {
	address string
	dialer  net.Dialer
}

// NewNetworkPrinter talks raw TCP to a kitchen or counter printer, usually on port 9100.
func NewNetworkPrinter(address string) Printer {
	return &networkPrinter{
		address: address,
		dialer:  net.Dialer{Timeout: 5 * time.Second},
	}
}

func (p *networkPrinter) Print(ctx context.Context, data []byte) error {
	conn, err := p.dialer.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return fmt.Errorf("printer: dial %s: %w", p.address, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(10 * time.Second)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)

	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.address, err)
	}
	return nil
}

func (p *networkPrinter) Name() string { return "tcp:" + p.address }

func (p *networkPrinter) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	conn, err := p.dialer.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

type nopPrinter struct{}

// NewNopPrinter discards jobs. Used when PRINTER_TYPE is none.
func NewNopPrinter() Printer {
	return nopPrinter{}
}

func (nopPrinter) Print(context.Context, []byte) error { return nil }
func (nopPrinter) Name() string                        { return "none" }
func (nopPrinter) Available(context.Context) bool      { return false }

// New returns the printer for kind "usb", "network" or "none".
func New(kind, usbPath, address string) (Printer, error) {
	switch kind {
	case "usb":
		if usbPath == "" {
			return nil, fmt.Errorf("printer: PRINTER_USB_PATH is required for usb printers")
		}
		return NewDevicePrinter(usbPath), nil
	case "network":
		if address == "" {
			return nil, fmt.Errorf("printer: PRINTER_ADDRESS is required for network printers")
		}
		return NewNetworkPrinter(address), nil
	case "none", "":
		return NewNopPrinter(), nil
	default:
		return nil, fmt.Errorf("printer: unknown type %q", kind)
	}
}

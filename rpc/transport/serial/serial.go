package serial

import (
	"fmt"
	"io"
	"strings"

	"github.com/ValentinKolb/rpclink/rpc/common"
	"github.com/ValentinKolb/rpclink/rpc/transport"
	"github.com/ValentinKolb/rpclink/rpc/transport/base"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

var Logger = base.Logger

// clientConnector implements the IClientConnector interface for serial ports
type clientConnector struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see base.IClientConnector)
// --------------------------------------------------------------------------

func (c *clientConnector) GetName() string {
	return "serial"
}

func (c *clientConnector) Connect(config common.TransportConfig) (io.ReadWriteCloser, error) {
	mode, err := ParseMode(config.SerialConf)
	if err != nil {
		return nil, err
	}

	port, err := serial.Open(config.Endpoint, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", config.Endpoint, err)
	}
	return port, nil
}

func (c *clientConnector) UpgradeConnection(conn io.ReadWriteCloser, config common.TransportConfig) error {
	port, ok := conn.(serial.Port)
	if !ok {
		return nil
	}

	// with a timeout a read may return no data, the link simply reads again
	timeout := serial.NoTimeout
	if config.SerialConf.ReadTimeout > 0 {
		timeout = config.SerialConf.ReadTimeout
	}
	if err := port.SetReadTimeout(timeout); err != nil {
		return err
	}

	// drop bytes a previous session left in the driver buffers
	if err := port.ResetInputBuffer(); err != nil {
		return err
	}
	return nil
}

// --------------------------------------------------------------------------
// Transport Factory Method
// --------------------------------------------------------------------------

// NewSerialTransport creates a new transport on a serial device (e.g. /dev/ttyACM0).
// A serial line has no listening side, both peers open the device.
func NewSerialTransport() transport.IRPCTransport {
	return base.NewBaseClientTransport(&clientConnector{})
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// ParseMode converts the serial configuration into a serial.Mode
func ParseMode(conf common.SerialConf) (*serial.Mode, error) {
	mode := &serial.Mode{
		BaudRate: conf.BaudRate,
		DataBits: conf.DataBits,
	}
	if mode.BaudRate <= 0 {
		mode.BaudRate = common.DefaultBaudRate
	}
	if mode.DataBits == 0 {
		mode.DataBits = 8
	}
	if mode.DataBits < 5 || mode.DataBits > 8 {
		return nil, fmt.Errorf("invalid data bits %d, must be between 5 and 8", mode.DataBits)
	}

	switch strings.ToLower(conf.Parity) {
	case "", "none", "n":
		mode.Parity = serial.NoParity
	case "odd", "o":
		mode.Parity = serial.OddParity
	case "even", "e":
		mode.Parity = serial.EvenParity
	case "mark", "m":
		mode.Parity = serial.MarkParity
	case "space", "s":
		mode.Parity = serial.SpaceParity
	default:
		return nil, fmt.Errorf("invalid parity %q, must be one of none, odd, even, mark, space", conf.Parity)
	}

	switch conf.StopBits {
	case "", "1":
		mode.StopBits = serial.OneStopBit
	case "1.5":
		mode.StopBits = serial.OnePointFiveStopBits
	case "2":
		mode.StopBits = serial.TwoStopBits
	default:
		return nil, fmt.Errorf("invalid stop bits %q, must be one of 1, 1.5, 2", conf.StopBits)
	}

	return mode, nil
}

// PortInfo describes a serial device found on the system
type PortInfo struct {
	Name         string
	IsUSB        bool
	VID          string
	PID          string
	SerialNumber string
	Product      string
}

// ListPorts returns the serial devices of the system, USB details are filled in where available
func ListPorts() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		// the detailed enumeration is not supported everywhere, fall back to names only
		Logger.Debugf("Detailed port enumeration failed: %v", err)
		names, err := serial.GetPortsList()
		if err != nil {
			return nil, fmt.Errorf("failed to list serial ports: %w", err)
		}
		ports := make([]PortInfo, 0, len(names))
		for _, name := range names {
			ports = append(ports, PortInfo{Name: name})
		}
		return ports, nil
	}

	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		ports = append(ports, PortInfo{
			Name:         d.Name,
			IsUSB:        d.IsUSB,
			VID:          d.VID,
			PID:          d.PID,
			SerialNumber: d.SerialNumber,
			Product:      d.Product,
		})
	}
	return ports, nil
}

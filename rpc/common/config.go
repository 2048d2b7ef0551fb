package common

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Defaults
// --------------------------------------------------------------------------

const (
	DefaultCallTimeout    = 5 * time.Second
	DefaultWriteTimeout   = 5 * time.Second
	DefaultReadBufferSize = 4 * 1024   // 4 KB per transport read
	DefaultMaxFrameSize   = 1024 * 1024 // 1 MB of retained partial frame data
	DefaultBaudRate       = 115200
)

// --------------------------------------------------------------------------
// Transport configuration structs
// --------------------------------------------------------------------------

// SocketConf holds the kernel buffer settings for socket based transports
type SocketConf struct {
	WriteBufferSize int
	ReadBufferSize  int
}

// TCPConf holds TCP specific connection options
type TCPConf struct {
	TCPNoDelay      bool
	TCPKeepAliveSec int
	TCPLingerSec    int
}

// SerialConf holds the settings of a serial port link
type SerialConf struct {
	BaudRate    int
	DataBits    int
	Parity      string // none, odd, even, mark, space
	StopBits    string // 1, 1.5, 2
	ReadTimeout time.Duration
}

// TransportConfig configures the byte stream a link runs on
type TransportConfig struct {
	// Endpoint is the address of the peer (host:port, socket path or serial device)
	Endpoint string
	// RetryCount is how often establishing the connection is attempted
	RetryCount int
	// ReadBufferSize is the maximum number of bytes returned by one read
	ReadBufferSize int
	// WriteTimeout bounds a single frame write on stream connections (0 = none)
	WriteTimeout time.Duration

	SocketConf SocketConf
	TCPConf    TCPConf
	SerialConf SerialConf
}

// --------------------------------------------------------------------------
// Link configuration struct
// --------------------------------------------------------------------------

// LinkConfig holds all configuration parameters of one point-to-point link
type LinkConfig struct {
	// CallTimeout bounds how long a blocking call waits for its response (0 = only the context)
	CallTimeout time.Duration

	// MaxFrameSize bounds how many bytes of an incomplete frame are retained between reads
	MaxFrameSize int

	// Rate limit for inbound requests (0 = unlimited)
	RateLimit float64
	RateBurst int

	// Logging configuration
	LogLevel string

	// MetricsEndpoint is the address of the metrics http endpoint (empty = disabled)
	MetricsEndpoint string

	Transport TransportConfig
}

// DefaultLinkConfig returns a configuration with sensible defaults for the given endpoint
func DefaultLinkConfig(endpoint string) LinkConfig {
	return LinkConfig{
		CallTimeout:  DefaultCallTimeout,
		MaxFrameSize: DefaultMaxFrameSize,
		LogLevel:     "info",
		Transport: TransportConfig{
			Endpoint:       endpoint,
			RetryCount:     1,
			ReadBufferSize: DefaultReadBufferSize,
			WriteTimeout:   DefaultWriteTimeout,
			TCPConf: TCPConf{
				TCPNoDelay:   true,
				TCPLingerSec: -1,
			},
			SerialConf: SerialConf{
				BaudRate: DefaultBaudRate,
				DataBits: 8,
				Parity:   "none",
				StopBits: "1",
			},
		},
	}
}

// String returns a formatted string representation of the configuration
func (c *LinkConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// Link settings
	addSection("Link")
	addField("Call Timeout", c.CallTimeout.String())
	addField("Max Frame Size", fmt.Sprintf("%d bytes", c.MaxFrameSize))
	if c.RateLimit > 0 {
		addField("Rate Limit", fmt.Sprintf("%.1f req/s (burst %d)", c.RateLimit, c.RateBurst))
	} else {
		addField("Rate Limit", "unlimited")
	}

	// Transport settings
	addSection("Transport")
	addField("Endpoint", c.Transport.Endpoint)
	addField("Retry Count", strconv.Itoa(c.Transport.RetryCount))
	addField("Read Buffer", fmt.Sprintf("%d bytes", c.Transport.ReadBufferSize))
	addField("Write Timeout", c.Transport.WriteTimeout.String())
	addField("TCP No Delay", fmt.Sprintf("%t", c.Transport.TCPConf.TCPNoDelay))
	addField("Serial Mode", fmt.Sprintf("%d baud, %d%s%s",
		c.Transport.SerialConf.BaudRate,
		c.Transport.SerialConf.DataBits,
		strings.ToUpper(firstLetter(c.Transport.SerialConf.Parity)),
		c.Transport.SerialConf.StopBits))

	// Observability
	addSection("Logging")
	addField("Log Level", c.LogLevel)
	if c.MetricsEndpoint != "" {
		addField("Metrics Endpoint", c.MetricsEndpoint)
	}

	return sb.String()
}

func firstLetter(s string) string {
	if s == "" {
		return "n"
	}
	return s[:1]
}

package util

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/ValentinKolb/rpclink/rpc/common"
	"github.com/ValentinKolb/rpclink/rpc/link"
	"github.com/ValentinKolb/rpclink/rpc/serializer"
	"github.com/ValentinKolb/rpclink/rpc/server"
	"github.com/ValentinKolb/rpclink/rpc/transport"
	"github.com/ValentinKolb/rpclink/rpc/transport/serial"
	"github.com/ValentinKolb/rpclink/rpc/transport/tcp"
	"github.com/ValentinKolb/rpclink/rpc/transport/unix"
	"github.com/ValentinKolb/rpclink/rpc/transport/ws"
	"github.com/joho/godotenv"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Logger = logger.GetLogger("cli")

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupLinkFlags adds the link and transport flags to a command
func SetupLinkFlags(cmd *cobra.Command, defaultEndpoint string) {
	defaults := common.DefaultLinkConfig(defaultEndpoint)

	key := "endpoint"
	cmd.PersistentFlags().String(key, defaultEndpoint, WrapString("Address of the peer: host:port for tcp and ws (or a ws:// url), a socket path for unix, a device for serial (e.g. /dev/ttyACM0)"))

	key = "timeout"
	cmd.PersistentFlags().Duration(key, defaults.CallTimeout, WrapString("How long a call waits for its response (0 = forever)"))

	key = "write-timeout"
	cmd.PersistentFlags().Duration(key, defaults.Transport.WriteTimeout, WrapString("Deadline for writing a single frame on socket transports"))

	key = "retries"
	cmd.PersistentFlags().Int(key, 3, WrapString("How many times to try connecting to the peer"))

	key = "read-buffer"
	cmd.PersistentFlags().Int(key, defaults.Transport.ReadBufferSize, WrapString("Maximum number of bytes read from the transport at once"))

	key = "max-frame-size"
	cmd.PersistentFlags().Int(key, defaults.MaxFrameSize, WrapString("Maximum number of bytes retained for an incomplete frame"))

	key = "tcp-nodelay"
	cmd.PersistentFlags().Bool(key, true, WrapString("Whether to enable TCP_NODELAY (only for tcp)"))

	key = "tcp-keepalive"
	cmd.PersistentFlags().Int(key, 0, WrapString("The keepalive interval in seconds (only for tcp)"))

	key = "tcp-linger"
	cmd.PersistentFlags().Int(key, -1, WrapString("The linger time in seconds, -1 keeps the system default (only for tcp)"))

	key = "serial-baud"
	cmd.PersistentFlags().Int(key, common.DefaultBaudRate, WrapString("Baud rate of the serial port"))

	key = "serial-data-bits"
	cmd.PersistentFlags().Int(key, 8, WrapString("Data bits per character (5-8)"))

	key = "serial-parity"
	cmd.PersistentFlags().String(key, "none", WrapString("Parity of the serial port (none, odd, even, mark, space)"))

	key = "serial-stop-bits"
	cmd.PersistentFlags().String(key, "1", WrapString("Stop bits of the serial port (1, 1.5, 2)"))

	key = "serial-read-timeout"
	cmd.PersistentFlags().Duration(key, 0, WrapString("Read timeout of the serial port (0 = block until data arrives)"))
}

// InitConfig loads .env files and maps RPCLINK_* environment variables onto the flags
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("rpclink")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper and applies the log level
func BindCommandFlags(cmd *cobra.Command) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	return common.InitLoggers(viper.GetString("log-level"))
}

// GetLinkConfig reads the link configuration from viper
func GetLinkConfig() common.LinkConfig {
	conf := common.DefaultLinkConfig(viper.GetString("endpoint"))

	conf.CallTimeout = viper.GetDuration("timeout")
	conf.MaxFrameSize = viper.GetInt("max-frame-size")
	conf.LogLevel = viper.GetString("log-level")
	conf.RateLimit = viper.GetFloat64("rate-limit")
	conf.RateBurst = viper.GetInt("rate-burst")
	conf.MetricsEndpoint = viper.GetString("metrics-endpoint")

	conf.Transport.RetryCount = viper.GetInt("retries")
	conf.Transport.ReadBufferSize = viper.GetInt("read-buffer")
	conf.Transport.WriteTimeout = viper.GetDuration("write-timeout")
	conf.Transport.TCPConf = common.TCPConf{
		TCPNoDelay:      viper.GetBool("tcp-nodelay"),
		TCPKeepAliveSec: viper.GetInt("tcp-keepalive"),
		TCPLingerSec:    viper.GetInt("tcp-linger"),
	}
	conf.Transport.SerialConf = common.SerialConf{
		BaudRate:    viper.GetInt("serial-baud"),
		DataBits:    viper.GetInt("serial-data-bits"),
		Parity:      viper.GetString("serial-parity"),
		StopBits:    viper.GetString("serial-stop-bits"),
		ReadTimeout: viper.GetDuration("serial-read-timeout"),
	}

	return conf
}

// GetSerializer creates a serializer based on configuration
func GetSerializer() (serializer.IRPCSerializer, error) {
	switch viper.GetString("serializer") {
	case "msgpack":
		return serializer.NewMsgpackSerializer(), nil
	case "json":
		return serializer.NewJSONSerializer(), nil
	default:
		return nil, fmt.Errorf("invalid serializer %s", viper.GetString("serializer"))
	}
}

// GetTransport creates the transport based on configuration.
// listen selects the side that waits for the peer, serial ports have no such side.
func GetTransport(listen bool) (transport.IRPCTransport, error) {
	switch viper.GetString("transport") {
	case "tcp":
		if listen {
			return tcp.NewTCPServerTransport(), nil
		}
		return tcp.NewTCPClientTransport(), nil
	case "unix":
		if listen {
			return unix.NewUnixServerTransport(), nil
		}
		return unix.NewUnixClientTransport(), nil
	case "ws":
		if listen {
			return ws.NewWSServerTransport(), nil
		}
		return ws.NewWSClientTransport(), nil
	case "serial":
		return serial.NewSerialTransport(), nil
	default:
		return nil, fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}
}

// OpenLink opens a link with the configured transport and serializer
func OpenLink(listen bool, registry server.IProcedureRegistry) (*link.Link, error) {
	s, err := GetSerializer()
	if err != nil {
		return nil, err
	}

	t, err := GetTransport(listen)
	if err != nil {
		return nil, err
	}

	return link.Open(GetLinkConfig(), t, s, registry)
}

// --------------------------------------------------------------------------
// Argument Handling
// --------------------------------------------------------------------------

// ParseArgs converts command line arguments into call arguments.
// Each argument becomes int64, float64, bool or nil (for "null") if it parses as one,
// otherwise a string. Quoting with ' or " forces a string.
func ParseArgs(args []string) []any {
	out := make([]any, 0, len(args))
	for _, arg := range args {
		out = append(out, ParseArg(arg))
	}
	return out
}

// ParseArg converts a single command line argument, see ParseArgs
func ParseArg(arg string) any {
	if len(arg) >= 2 {
		first, last := arg[0], arg[len(arg)-1]
		if (first == '"' || first == '\'') && first == last {
			return arg[1 : len(arg)-1]
		}
	}

	if arg == "null" {
		return nil
	}
	if i, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(arg, 64); err == nil {
		return f
	}
	if arg == "true" || arg == "false" {
		return arg == "true"
	}
	return arg
}

// FormatValue renders a decoded value for terminal output
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			parts = append(parts, FormatValue(e))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		parts := make([]string, 0, len(t))
		for _, k := range keys {
			parts = append(parts, strconv.Quote(k)+": "+FormatValue(t[k]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case time.Time:
		return t.Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("%v", t)
	}
}

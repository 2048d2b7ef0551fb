package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/rpclink/cmd/call"
	"github.com/ValentinKolb/rpclink/cmd/object"
	"github.com/ValentinKolb/rpclink/cmd/peer"
	"github.com/ValentinKolb/rpclink/cmd/perf"
	"github.com/ValentinKolb/rpclink/cmd/util"
	"github.com/ValentinKolb/rpclink/rpc/transport/serial"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "rpclink",
		Short: "point-to-point rpc over serial ports and sockets",
		Long: fmt.Sprintf(`rpclink (v%s)

Call procedures and remote objects on a peer connected by a serial port,
a socket or a websocket, and serve procedures to it in the other direction.
Messages are msgpack arrays [kind, id, selector, payload].`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of rpclink",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("rpclink v%s\n", Version)
		},
	}
	portsCmd = &cobra.Command{
		Use:   "ports",
		Short: "List the serial ports of this machine",
		RunE: func(cmd *cobra.Command, args []string) error {
			ports, err := serial.ListPorts()
			if err != nil {
				return err
			}
			if len(ports) == 0 {
				fmt.Println("no serial ports found")
				return nil
			}
			for _, p := range ports {
				if p.IsUSB {
					fmt.Printf("%s\tusb=%s:%s serial=%s product=%s\n", p.Name, p.VID, p.PID, p.SerialNumber, p.Product)
				} else {
					fmt.Println(p.Name)
				}
			}
			return nil
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(call.CallCmd)
	RootCmd.AddCommand(call.SendCmd)
	RootCmd.AddCommand(call.NotifyCmd)
	RootCmd.AddCommand(object.ObjectCommands)
	RootCmd.AddCommand(peer.PeerCmd)
	RootCmd.AddCommand(perf.PerfCmd)
	RootCmd.AddCommand(portsCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "msgpack", util.WrapString("serializer to use (msgpack, json)"))
	key = "transport"
	RootCmd.PersistentFlags().String(key, "tcp", util.WrapString("transport to use (tcp, unix, ws, serial)"))
	key = "log-level"
	RootCmd.PersistentFlags().String(key, "warn", util.WrapString("level at which logs are written (debug, info, warn, error)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package call

import (
	"fmt"

	"github.com/ValentinKolb/rpclink/cmd/util"
	"github.com/ValentinKolb/rpclink/rpc/link"
	"github.com/spf13/cobra"
)

var (
	l *link.Link

	// CallCmd issues a blocking call and prints the result
	CallCmd = &cobra.Command{
		Use:   "call [procedure] [args...]",
		Short: "Call a procedure on the peer and print its result",
		Long: `Call a procedure on the peer and print its result.
Arguments are sent as integers, floats, booleans or null if they parse as such, otherwise as strings. Quote an argument to force a string (e.g. '"12"').`,
		Args:     cobra.MinimumNArgs(1),
		PreRunE:  setupLink,
		PostRunE: closeLink,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := l.Call(cmd.Context(), args[0], util.ParseArgs(args[1:])...)
			if err != nil {
				return err
			}
			fmt.Println(util.FormatValue(result))
			return nil
		},
	}

	// SendCmd issues a request without waiting for the response
	SendCmd = &cobra.Command{
		Use:      "send [procedure] [args...]",
		Short:    "Send a request to the peer without waiting for the result",
		Args:     cobra.MinimumNArgs(1),
		PreRunE:  setupLink,
		PostRunE: closeLink,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := l.Send(cmd.Context(), args[0], util.ParseArgs(args[1:])...); err != nil {
				return err
			}
			fmt.Println("sent successfully")
			return nil
		},
	}

	// NotifyCmd sends a one-way notification
	NotifyCmd = &cobra.Command{
		Use:      "notify [procedure] [args...]",
		Short:    "Send a one-way notification to the peer",
		Args:     cobra.MinimumNArgs(1),
		PreRunE:  setupLink,
		PostRunE: closeLink,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := l.Notify(cmd.Context(), args[0], util.ParseArgs(args[1:])...); err != nil {
				return err
			}
			fmt.Println("notified successfully")
			return nil
		},
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	for _, cmd := range []*cobra.Command{CallCmd, SendCmd, NotifyCmd} {
		util.SetupLinkFlags(cmd, "localhost:8080")
	}
}

// setupLink opens the link to the peer
func setupLink(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}
	var err error
	l, err = util.OpenLink(false, nil)
	return err
}

func closeLink(*cobra.Command, []string) error {
	if l != nil {
		return l.Close()
	}
	return nil
}

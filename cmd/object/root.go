package object

import (
	"fmt"
	"strconv"

	"github.com/ValentinKolb/rpclink/cmd/util"
	"github.com/ValentinKolb/rpclink/rpc/client"
	"github.com/ValentinKolb/rpclink/rpc/link"
	"github.com/spf13/cobra"
)

var (
	l *link.Link

	// ObjectCommands represents the remote object command group
	ObjectCommands = &cobra.Command{
		Use:                "object",
		Short:              "Create and use instances of classes on the peer",
		PersistentPreRunE:  setupLink,
		PersistentPostRunE: closeLink,
	}

	newCmd = &cobra.Command{
		Use:   "new [class] [args...]",
		Short: "Construct an instance on the peer and print its handle",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			obj, err := client.NewRemoteClass(l, args[0]).New(cmd.Context(), util.ParseArgs(args[1:])...)
			if err != nil {
				return err
			}
			fmt.Printf("class=%s, handle=%d\n", obj.Class().Name(), obj.Handle())
			return nil
		},
	}

	invokeCmd = &cobra.Command{
		Use:   "invoke [class] [handle] [method] [args...]",
		Short: "Call a method of an instance created earlier",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			handle, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("handle must be a number: %w", err)
			}

			obj := client.NewRemoteClass(l, args[0]).Attach(client.RemoteHandle(handle))
			result, err := obj.Invoke(cmd.Context(), args[2], util.ParseArgs(args[3:])...)
			if err != nil {
				return err
			}
			fmt.Println(util.FormatValue(result))
			return nil
		},
	}

	staticCmd = &cobra.Command{
		Use:   "static [class] [method] [args...]",
		Short: "Call a class level method (no instance handle is passed)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := client.NewRemoteClass(l, args[0]).Invoke(cmd.Context(), args[1], util.ParseArgs(args[2:])...)
			if err != nil {
				return err
			}
			fmt.Println(util.FormatValue(result))
			return nil
		},
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	util.SetupLinkFlags(ObjectCommands, "localhost:8080")

	ObjectCommands.AddCommand(newCmd)
	ObjectCommands.AddCommand(invokeCmd)
	ObjectCommands.AddCommand(staticCmd)
}

// setupLink opens the link the proxies call through
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

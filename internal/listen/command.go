package listen

import (
	"net"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"gsml3/internal/command"
)

var cmd = &cobra.Command{
	Use:   "listen",
	Short: "Receive GSMTAP datagrams on UDP and print the decoded messages",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		noDecode, _ := cmd.Flags().GetBool("no-decode")
		if addr == "" {
			addr = net.JoinHostPort("0.0.0.0", strconv.Itoa(int(command.Config().GSMTAP.Port)))
		}

		network, ms, err := command.NewCodecPair(cmd)
		if err != nil {
			return err
		}

		conn, err := net.ListenPacket("udp", addr)
		if err != nil {
			return errors.Wrap(err, "net.ListenPacket")
		}
		logrus.WithField("addr", conn.LocalAddr()).Info("Listen on")

		l := &Listener{Network: network, MS: ms, Decode: !noDecode, Out: cmd.OutOrStdout()}
		err = l.Serve(cmd.Context(), conn)
		if errors.Is(err, cmd.Context().Err()) {
			return nil
		}
		return err
	},
}

func init() {
	command.AddCodecFlags(cmd)
	cmd.Flags().String("addr", "", "UDP address to listen on, defaults to the configured GSMTAP port")
	cmd.Flags().Bool("no-decode", false, "print messages as hex")
	command.Register(cmd)
}

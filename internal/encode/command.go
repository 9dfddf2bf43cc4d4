package encode

import (
	"io"
	"net"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"gsml3/internal/command"
	"gsml3/internal/dump"
	"gsml3/pkg/rl3"
)

var cmd = &cobra.Command{
	Use:   "encode [FILE]",
	Short: "Encode XML messages to hex encoded Radio Layer 3",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tun, _ := cmd.Flags().GetString("tun")
		src, _ := cmd.Flags().GetIP("src")
		dst, _ := cmd.Flags().GetIP("dst")
		seq, _ := cmd.Flags().GetInt("seq")

		cd, err := command.NewCodec(cmd)
		if err != nil {
			return err
		}
		e := &Encoder{Codec: cd, Out: cmd.OutOrStdout(), SrcIP: src, DstIP: dst}

		if tun != "" {
			w, err := dump.NewTunWriter(tun)
			if err != nil {
				return err
			}
			defer w.Close()
			e.Injector = w
		}

		var in io.Reader = cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return errors.Wrap(err, "os.Open")
			}
			defer f.Close()
			in = f
		}

		var opts []rl3.CallOpt
		if seq >= 0 {
			opts = append(opts, rl3.WithSequenceNumber(uint8(seq)))
		}
		return e.EncodeDocument(in, opts...)
	},
}

func init() {
	command.AddCodecFlags(cmd)
	cmd.Flags().String("tun", "", "also inject every message as GSMTAP into a TUN device")
	cmd.Flags().IP("src", net.IPv4(127, 0, 0, 1), "source address of injected datagrams")
	cmd.Flags().IP("dst", net.IPv4(127, 0, 0, 1), "destination address of injected datagrams")
	cmd.Flags().Int("seq", -1, "NAS sequence number of protected messages")
	command.Register(cmd)
}

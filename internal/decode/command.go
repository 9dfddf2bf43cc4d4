package decode

import (
	"github.com/spf13/cobra"

	"gsml3/internal/command"
)

var cmd = &cobra.Command{
	Use:   "decode [HEX...]",
	Short: "Decode hex encoded Radio Layer 3 messages to XML",
	Long:  "Decode every argument, or every line of stdin when there is none, and print one XML tree per message.",
	RunE: func(cmd *cobra.Command, args []string) error {
		indent, _ := cmd.Flags().GetBool("indent")

		cd, err := command.NewCodec(cmd)
		if err != nil {
			return err
		}
		d := &Decoder{Codec: cd, Indent: indent, Out: cmd.OutOrStdout()}
		if len(args) > 0 {
			return d.DecodeArgs(args)
		}
		return d.DecodeLines(cmd.InOrStdin())
	},
}

func init() {
	command.AddCodecFlags(cmd)
	cmd.Flags().Bool("indent", true, "indent the XML output")
	command.Register(cmd)
}

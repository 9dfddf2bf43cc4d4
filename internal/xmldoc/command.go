package xmldoc

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"gsml3/internal/command"
	"gsml3/pkg/rl3"
)

var cmd = &cobra.Command{
	Use:   "xml [FILE]",
	Short: "Expand or collapse messages embedded in an XML document",
	Long: "Every marker element with enc=\"hex\" is replaced by its decoded tree, " +
		"or with --encode every marker with enc=\"xml\" by its hex form.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		encode, _ := cmd.Flags().GetBool("encode")
		indent, _ := cmd.Flags().GetBool("indent")

		cd, err := command.NewCodec(cmd)
		if err != nil {
			return err
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

		var report rl3.Report
		err = Transform(cd, in, cmd.OutOrStdout(), encode, indent, rl3.WithReport(&report))
		command.LogReport(&report)
		return err
	},
}

func init() {
	command.AddCodecFlags(cmd)
	cmd.Flags().Bool("encode", false, "collapse decoded messages back to hex")
	cmd.Flags().Bool("indent", true, "indent the XML output")
	command.Register(cmd)
}

// Command wirecat inspects and builds schema-registry envelopes.
//
//	wirecat inspect 0000000007000a0568656c6c6f
//	wirecat inspect --base64 --layout plain AAAAAAd7fQ==
//	wirecat encode --id 7 --index 1,0 0a0568656c6c6f
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/unkn0wn-root/schemawire/envelope"
)

type globalFlags struct {
	layout  string
	verbose bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "wirecat",
		Short:         "Inspect and build schema-registry wire envelopes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.layout, "layout", "indexed", "envelope layout: indexed (protobuf) or plain")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "debug logging to stderr")

	root.AddCommand(newInspectCmd(g), newEncodeCmd(g))
	return root
}

func (g *globalFlags) parseLayout() (envelope.Layout, error) {
	switch g.layout {
	case "indexed", "protobuf":
		return envelope.Indexed, nil
	case "plain", "avro", "json":
		return envelope.Plain, nil
	default:
		return 0, fmt.Errorf("unknown layout %q", g.layout)
	}
}

func (g *globalFlags) logger() *zap.Logger {
	if !g.verbose {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "wirecat:", err)
		os.Exit(1)
	}
}

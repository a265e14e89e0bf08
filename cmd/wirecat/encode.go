package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/unkn0wn-root/schemawire/envelope"
)

func newEncodeCmd(g *globalFlags) *cobra.Command {
	var (
		id      int32
		indexes []int32
	)
	cmd := &cobra.Command{
		Use:   "encode <hex payload>",
		Short: "Frame a hex payload in an envelope and print it as hex",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := g.logger()
			defer func() { _ = log.Sync() }()

			layout, err := g.parseLayout()
			if err != nil {
				return err
			}
			var payload []byte
			if len(args) == 1 {
				if payload, err = decodeInput(args[0], false); err != nil {
					return err
				}
			}
			h := envelope.Header{SchemaID: id, Indexes: indexes}
			out := layout.Append(nil, h, payload)
			log.Debug("encoded envelope",
				zap.Int32("schema_id", id),
				zap.Int32s("indexes", indexes),
				zap.Int("header_bytes", layout.Size(h)))

			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(out))
			return nil
		},
	}
	cmd.Flags().Int32Var(&id, "id", 0, "schema id")
	cmd.Flags().Int32SliceVar(&indexes, "index", nil, "message index path, e.g. 1,0 (indexed layout only)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

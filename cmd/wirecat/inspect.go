package main

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newInspectCmd(g *globalFlags) *cobra.Command {
	var useBase64 bool
	cmd := &cobra.Command{
		Use:   "inspect <data>",
		Short: "Print the header fields of an envelope given as hex (default) or base64",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := g.logger()
			defer func() { _ = log.Sync() }()

			layout, err := g.parseLayout()
			if err != nil {
				return err
			}
			raw, err := decodeInput(args[0], useBase64)
			if err != nil {
				return err
			}
			log.Debug("inspecting envelope", zap.Int("bytes", len(raw)), zap.Stringer("layout", layout))

			h, payload, err := layout.Split(raw)
			if err != nil {
				log.Debug("envelope rejected", zap.Error(err))
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "layout:    %s\n", layout)
			fmt.Fprintf(out, "schema id: %d\n", h.SchemaID)
			if h.Indexes != nil {
				fmt.Fprintf(out, "indexes:   %s\n", formatIndexes(h.Indexes))
			}
			fmt.Fprintf(out, "header:    %d bytes\n", len(raw)-len(payload))
			fmt.Fprintf(out, "payload:   %d bytes\n", len(payload))
			return nil
		},
	}
	cmd.Flags().BoolVar(&useBase64, "base64", false, "input is standard base64")
	return cmd
}

func decodeInput(s string, useBase64 bool) ([]byte, error) {
	s = strings.TrimSpace(s)
	if useBase64 {
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("decode base64: %w", err)
		}
		return b, nil
	}
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return b, nil
}

func formatIndexes(idx []int32) string {
	parts := make([]string, len(idx))
	for i, v := range idx {
		parts[i] = fmt.Sprint(v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

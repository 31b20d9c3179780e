package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bibbank/mt799-service/internal/application/dto"
	"github.com/bibbank/mt799-service/internal/version"
	"github.com/bibbank/mt799-service/pkg/swiftmt"
)

// ErrInvalid is returned by validate and parse when the message is rejected.
var ErrInvalid = errors.New("message is invalid")

func newParseCommand(v *viper.Viper) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a message and print its fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := runValidate(cmd, v, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSON(out, resp); err != nil {
					return err
				}
				if !resp.Valid {
					return ErrInvalid
				}
				return nil
			}
			if !resp.Valid {
				fmt.Fprintln(out, rejectionLine(resp))
				return ErrInvalid
			}
			renderFields(out, *resp.Fields)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func newValidateCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check whether a message would be accepted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := runValidate(cmd, v, args[0])
			if err != nil {
				return err
			}
			if !resp.Valid {
				fmt.Fprintln(cmd.OutOrStdout(), rejectionLine(resp))
				return ErrInvalid
			}
			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}
}

func newSegmentCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "segment <file>",
		Short: "Print the raw span of every block as the segmenter sees it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser, err := newParser(v)
			if err != nil {
				return err
			}
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			blocks := parser.Segment(string(data))
			table := newTable(cmd.OutOrStdout(), "Block", "Span")
			for _, id := range swiftmt.Blocks {
				span := blocks.Span(id)
				if span == "" {
					span = "(missing)"
				}
				table.Append([]string{id.String(), span})
			}
			table.Render()
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	var long bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			if long {
				return writeJSON(cmd.OutOrStdout(), info)
			}
			fmt.Fprintln(cmd.OutOrStdout(), info.Version)
			return nil
		},
	}
	cmd.Flags().BoolVar(&long, "long", false, "Print detailed version information as JSON")
	return cmd
}

func runValidate(cmd *cobra.Command, v *viper.Viper, name string) (dto.ValidateMessageResponse, error) {
	uc, err := newValidator(v)
	if err != nil {
		return dto.ValidateMessageResponse{}, err
	}
	data, err := readInput(cmd, name)
	if err != nil {
		return dto.ValidateMessageResponse{}, err
	}
	return uc.Execute(cmd.Context(), dto.ValidateMessageRequest{Content: data})
}

func rejectionLine(resp dto.ValidateMessageResponse) string {
	if resp.Block == "" {
		return "invalid: " + resp.Reason
	}
	return fmt.Sprintf("invalid (%s): %s", resp.Block, resp.Reason)
}

func renderFields(w io.Writer, f dto.MessageRecordResponse) {
	table := newTable(w, "Block", "Field", "Value")
	rows := [][]string{
		{"1", "Type of message", f.TypeOfMessage},
		{"1", "Service level", f.ServiceLevel},
		{"1", "BIC", f.BIC},
		{"1", "Session number", f.SessionNumber},
		{"1", "Sequence number", f.SequenceNumber},
		{"2", "Direction", f.MessageDirection},
		{"2", "Message type", f.MessageType},
		{"2", "Receiver BIC", f.ReceiverBIC},
		{"2", "Sender BIC", f.SenderBIC},
		{"2", "Session number", f.AppHeaderSessionNumber},
		{"2", "Sequence number", f.AppHeaderSequenceNumber},
		{"2", "Priority", f.MessagePriority},
	}
	for _, tf := range f.TextFields {
		rows = append(rows, []string{"4", ":" + tf.Tag + ":", tf.Value})
	}
	rows = append(rows,
		[]string{"5", swiftmt.SubfieldMAC, f.DigitalSignature},
		[]string{"5", swiftmt.SubfieldChecksum, f.Checksum},
	)
	table.AppendBulk(rows)
	table.Render()
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

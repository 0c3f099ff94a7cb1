package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SpineEventEngine/base-sub010/pkg/descriptors"
	"github.com/SpineEventEngine/base-sub010/pkg/fieldref"
	"github.com/SpineEventEngine/base-sub010/pkg/typeref"
)

type refsOptions struct {
	typeOnly   bool
	protoPaths []string
}

func newRefsCommand() *cobra.Command {
	opts := &refsOptions{}
	cmd := &cobra.Command{
		Use:   "refs <reference>...",
		Short: "Parse and explain (by) option values and type references",
		Long: `Refs parses each argument as the value of a (by) option, a list of field
references separated by '|'. With --type the arguments are parsed as type
references instead. With --proto-path the messages matched by each type
reference are listed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var set *descriptors.FileSet
			if len(opts.protoPaths) > 0 {
				files, err := discoverProtoFiles(opts.protoPaths)
				if err != nil {
					return err
				}
				if set, err = descriptors.CompileDir(cmd.Context(), opts.protoPaths, files); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			for _, raw := range args {
				var err error
				if opts.typeOnly {
					err = explainTypeRef(out, raw, set)
				} else {
					err = explainByOption(out, raw, set)
				}
				if err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.typeOnly, "type", "t", false, "Parse arguments as type references")
	cmd.Flags().StringSliceVarP(&opts.protoPaths, "proto-path", "I", nil, "Import root of proto sources to match against")
	return cmd
}

func explainTypeRef(w io.Writer, raw string, set *descriptors.FileSet) error {
	ref, err := typeref.Parse(raw)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s\n", raw)
	writeTypeRef(w, "  ", ref, set)
	return nil
}

func explainByOption(w io.Writer, raw string, set *descriptors.FileSet) error {
	refs, err := fieldref.ParseByOption(raw)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s\n", raw)
	for _, ref := range refs {
		fmt.Fprintf(w, "  %s\n", ref)
		fmt.Fprintf(w, "    field: %s\n", ref.FieldName())
		switch {
		case ref.IsInner():
			fmt.Fprintf(w, "    source: enrichment message\n")
		case ref.IsContext():
			fmt.Fprintf(w, "    source: event context\n")
		default:
			writeTypeRef(w, "    ", ref.TypeRef(), set)
		}
	}
	return nil
}

func writeTypeRef(w io.Writer, indent string, ref typeref.TypeRef, set *descriptors.FileSet) {
	if ref.Kind() == typeref.KindComposite {
		fmt.Fprintf(w, "%stype: %s\n", indent, ref.Kind())
		for _, el := range ref.Elements() {
			fmt.Fprintf(w, "%s  - %s %s\n", indent, el.Kind(), el.Value())
		}
	} else {
		fmt.Fprintf(w, "%stype: %s %s\n", indent, ref.Kind(), ref.Value())
	}

	if set == nil {
		return
	}
	var matched []string
	for _, msg := range set.AllMessages() {
		if ref.Matches(msg.Desc) {
			matched = append(matched, msg.FullName())
		}
	}
	if len(matched) == 0 {
		fmt.Fprintf(w, "%smatches: none\n", indent)
		return
	}
	fmt.Fprintf(w, "%smatches: %s\n", indent, strings.Join(matched, ", "))
}

package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/objexport/abi"
	"github.com/wippyai/objexport/boundary"
	"github.com/wippyai/objexport/wasmhost"
)

type layoutReport struct {
	Verified bool         `yaml:"verified"`
	Error    string       `yaml:"error,omitempty"`
	Types    []typeReport `yaml:"types"`
}

type typeReport struct {
	C      string        `yaml:"c"`
	Go     string        `yaml:"go"`
	Size   uint32        `yaml:"size"`
	Align  uint32        `yaml:"align"`
	Fields []fieldReport `yaml:"fields,omitempty"`
}

type fieldReport struct {
	Name   string `yaml:"name"`
	Offset uint32 `yaml:"offset"`
}

func buildLayoutReport() layoutReport {
	var r layoutReport
	if err := abi.Verify(); err != nil {
		r.Error = err.Error()
	} else {
		r.Verified = true
	}

	for _, d := range abi.Descriptors() {
		info := d.Layout()
		tr := typeReport{C: d.CName, Go: d.GoName, Size: info.Size, Align: info.Align}
		for name, off := range info.FieldOffs {
			tr.Fields = append(tr.Fields, fieldReport{Name: name, Offset: off})
		}
		sort.Slice(tr.Fields, func(i, j int) bool {
			if tr.Fields[i].Offset != tr.Fields[j].Offset {
				return tr.Fields[i].Offset < tr.Fields[j].Offset
			}
			return tr.Fields[i].Name < tr.Fields[j].Name
		})
		r.Types = append(r.Types, tr)
	}
	return r
}

func writeLayout(w io.Writer, format string) error {
	r := buildLayoutReport()
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode layout: %w", err)
		}
		return enc.Close()
	case "text":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, t := range r.Types {
			fmt.Fprintf(tw, "%s\t%s\tsize %d\talign %d\n", t.C, t.Go, t.Size, t.Align)
			for _, f := range t.Fields {
				fmt.Fprintf(tw, "  %s\t\t+%d\t\n", f.Name, f.Offset)
			}
		}
		if r.Verified {
			fmt.Fprintln(tw, "Go layouts match")
		} else {
			fmt.Fprintf(tw, "Go layouts differ: %s\n", r.Error)
		}
		return tw.Flush()
	}
	return fmt.Errorf("unknown layout format %q", format)
}

func writeExports(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EXPORT\tMETHOD\tDEFAULT\tWASM SIGNATURE")
	for _, sig := range wasmhost.Signatures() {
		e, ok := boundary.Lookup(sig.Name)
		if !ok {
			return fmt.Errorf("export %s has no boundary method", sig.Name)
		}
		method := e.Method
		if sig.Name == boundary.ExportSubtractLegacy {
			method += " (legacy name)"
		}
		def := e.Default
		if def == "" {
			def = "-"
		}
		// The signature already starts with the export name.
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", sig.Name, method, def, strings.TrimPrefix(sig.String(), sig.Name))
	}
	return tw.Flush()
}

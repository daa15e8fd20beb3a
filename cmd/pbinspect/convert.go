package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/pointbuf"
	"github.com/hupe1980/pointbuf/arrowconv"
	"github.com/hupe1980/pointbuf/buffer"
	"github.com/hupe1980/pointbuf/codec"
	"github.com/hupe1980/pointbuf/layout"
	"github.com/hupe1980/pointbuf/rawio"
	"github.com/hupe1980/pointbuf/view"
)

type writeFlags struct {
	compression string
	codec       string
	zstdLevel   int
}

func (w *writeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&w.compression, "compression", "none", "Payload compression (none, zstd, lz4)")
	cmd.Flags().StringVar(&w.codec, "codec", codec.Default.Name(), "Schema codec (cbor, json, go-json)")
	cmd.Flags().IntVar(&w.zstdLevel, "zstd-level", 3, "zstd compression level")
}

func (w *writeFlags) options() ([]rawio.Option, error) {
	c, err := rawio.ParseCompression(w.compression)
	if err != nil {
		return nil, err
	}
	sc, ok := codec.ByName(w.codec)
	if !ok {
		return nil, fmt.Errorf("unknown codec %q", w.codec)
	}
	return []rawio.Option{
		rawio.WithCompression(c),
		rawio.WithCodec(sc),
		rawio.WithZstdLevel(w.zstdLevel),
	}, nil
}

func newConvertCmd() *cobra.Command {
	var wf writeFlags
	cmd := &cobra.Command{
		Use:   "convert IN OUT",
		Short: "Rewrite a point file with other compression or schema codec",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := wf.options()
			if err != nil {
				return err
			}
			b, err := rawio.ReadFile(args[0])
			if err != nil {
				return err
			}
			return rawio.WriteFile(args[1], b, opts...)
		},
	}
	wf.register(cmd)
	return cmd
}

func newWrapCmd(g *globalFlags) *cobra.Command {
	var (
		wf         writeFlags
		schemaPath string
		offset     int
	)
	cmd := &cobra.Command{
		Use:   "wrap RAW OUT",
		Short: "Wrap raw interleaved point data described by a YAML schema",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := g.logger(cmd)
			if err != nil {
				return err
			}
			opts, err := wf.options()
			if err != nil {
				return err
			}

			f, err := os.Open(schemaPath)
			if err != nil {
				return err
			}
			l, err := layout.LoadSchemaYAML(f)
			_ = f.Close()
			if err != nil {
				return err
			}

			m, err := pointbuf.OpenMapped(args[0], l,
				pointbuf.WithOffset(offset),
				pointbuf.WithAccessPattern(pointbuf.AccessSequential),
				pointbuf.WithLogger(logger),
			)
			if err != nil {
				return err
			}
			defer m.Close()

			return rawio.WriteFile(args[1], m, opts...)
		},
	}
	cmd.Flags().StringVar(&schemaPath, "schema", "", "YAML schema describing one point (required)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Bytes to skip before the first point")
	_ = cmd.MarkFlagRequired("schema")
	wf.register(cmd)
	return cmd
}

func newFilterCmd() *cobra.Command {
	var (
		wf       writeFlags
		attr     string
		low, high float64
	)
	cmd := &cobra.Command{
		Use:   "filter IN OUT",
		Short: "Keep the points whose scalar attribute lies in [min, max]",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := wf.options()
			if err != nil {
				return err
			}
			src, err := rawio.ReadFile(args[0])
			if err != nil {
				return err
			}
			values, err := view.Converted[float64](src, attr)
			if err != nil {
				return err
			}
			sel := view.Where(values, func(v float64) bool { return v >= low && v <= high })

			dst, err := buffer.NewVectorBuffer(src.Layout(), int(sel.GetCardinality()))
			if err != nil {
				return err
			}
			if err := buffer.Gather(dst, src, sel); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "kept %d of %d points\n", dst.Len(), src.Len())
			return rawio.WriteFile(args[1], dst, opts...)
		},
	}
	cmd.Flags().StringVar(&attr, "attr", "", "Attribute to filter on (required)")
	cmd.Flags().Float64Var(&low, "min", 0, "Smallest value to keep")
	cmd.Flags().Float64Var(&high, "max", 0, "Largest value to keep")
	_ = cmd.MarkFlagRequired("attr")
	wf.register(cmd)
	return cmd
}

func newExportCmd() *cobra.Command {
	var zstd bool
	cmd := &cobra.Command{
		Use:   "export IN OUT",
		Short: "Export a point file as an Arrow IPC stream",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			b, err := rawio.ReadFile(args[0])
			if err != nil {
				return err
			}
			f, err := os.Create(args[1])
			if err != nil {
				return err
			}
			defer func() {
				if cerr := f.Close(); cerr != nil && err == nil {
					err = cerr
				}
			}()
			return arrowconv.WriteStream(f, b, zstd)
		},
	}
	cmd.Flags().BoolVar(&zstd, "zstd", false, "Compress record bodies with zstd")
	return cmd
}

package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"runtime"
	"sync"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hupe1980/pointbuf/buffer"
	"github.com/hupe1980/pointbuf/layout"
	"github.com/hupe1980/pointbuf/rawio"
)

// attrStats holds per-component statistics of one numeric attribute.
type attrStats struct {
	member   layout.Member
	min, max []float64
	sum      []float64
	count    int
}

func newAttrStats(m layout.Member) *attrStats {
	n := m.Datatype().Components()
	s := &attrStats{
		member: m,
		min:    make([]float64, n),
		max:    make([]float64, n),
		sum:    make([]float64, n),
	}
	for c := range n {
		s.min[c] = math.Inf(1)
		s.max[c] = math.Inf(-1)
	}
	return s
}

func (s *attrStats) add(v []float64) {
	for c, x := range v {
		s.min[c] = min(s.min[c], x)
		s.max[c] = max(s.max[c], x)
		s.sum[c] += x
	}
	s.count++
}

func (s *attrStats) merge(o *attrStats) {
	for c := range s.min {
		s.min[c] = min(s.min[c], o.min[c])
		s.max[c] = max(s.max[c], o.max[c])
		s.sum[c] += o.sum[c]
	}
	s.count += o.count
}

// computeStats reads every numeric attribute of b as float64 components.
// Chunks are processed concurrently and merged afterwards.
func computeStats(ctx context.Context, b buffer.Buffer, chunkLen, workers int) ([]*attrStats, error) {
	var numeric []layout.Member
	for _, m := range b.Layout().Members() {
		if m.Datatype().IsNumeric() {
			numeric = append(numeric, m)
		}
	}

	total := make([]*attrStats, len(numeric))
	for i, m := range numeric {
		total[i] = newAttrStats(m)
	}

	var mu sync.Mutex
	err := buffer.ForEachChunk(ctx, b, chunkLen, workers, func(_ context.Context, _ int, chunk buffer.Buffer) error {
		local := make([]*attrStats, len(numeric))
		for i, m := range numeric {
			local[i] = newAttrStats(m)
			target := float64Datatype(m.Datatype())
			conv, err := layout.Converter(m.Datatype(), target)
			if err != nil {
				return err
			}
			src := make([]byte, m.Size())
			raw := make([]byte, target.Size())
			vals := make([]float64, m.Datatype().Components())
			for p := 0; p < chunk.Len(); p++ {
				chunk.AttributeIntoUnchecked(m, p, src)
				conv(raw, src)
				for c := range vals {
					vals[c] = math.Float64frombits(binary.NativeEndian.Uint64(raw[c*8:]))
				}
				local[i].add(vals)
			}
		}

		mu.Lock()
		defer mu.Unlock()
		for i := range total {
			total[i].merge(local[i])
		}
		return nil
	})
	return total, err
}

func float64Datatype(dt layout.Datatype) layout.Datatype {
	if dt.Kind() == layout.KindVector {
		return layout.Vector(layout.Float64, dt.Components())
	}
	return layout.F64
}

func newStatsCmd() *cobra.Command {
	var workers, chunk int
	cmd := &cobra.Command{
		Use:   "stats FILE",
		Short: "Print min, max and mean of every numeric attribute",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := rawio.ReadFile(args[0])
			if err != nil {
				return err
			}
			stats, err := computeStats(cmd.Context(), b, chunk, workers)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ATTRIBUTE\tDATATYPE\tMIN\tMAX\tMEAN")
			for _, s := range stats {
				for c := range s.min {
					name := s.member.Name()
					if len(s.min) > 1 {
						name = fmt.Sprintf("%s[%d]", name, c)
					}
					if s.count == 0 {
						fmt.Fprintf(tw, "%s\t%s\t-\t-\t-\n", name, s.member.Datatype())
						continue
					}
					fmt.Fprintf(tw, "%s\t%s\t%g\t%g\t%g\n", name, s.member.Datatype(), s.min[c], s.max[c], s.sum[c]/float64(s.count))
				}
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "Number of concurrent workers")
	cmd.Flags().IntVar(&chunk, "chunk", 1<<16, "Points per worker chunk")
	return cmd
}

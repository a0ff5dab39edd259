package main

import (
	"context"
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/modelview/internal/engine/camera"
	"github.com/Faultbox/modelview/internal/engine/model"
	"github.com/Faultbox/modelview/internal/store"
	"github.com/Faultbox/modelview/pkg/formats"
)

// report is the result of inspecting one file.
type report struct {
	Path   string
	Name   string
	Format formats.Format
	Size   int
	Model  *model.Normalized
	Err    error
}

// inspect loads and normalizes the file at path through the files store,
// the same pipeline the viewer uses.
func inspect(ctx context.Context, path string) report {
	r := report{Path: path}
	files := store.NewFiles()

	meta, err := files.Metadata(ctx, store.ID(path))
	if err != nil {
		r.Err = err
		return r
	}
	r.Name = meta.Name

	r.Format, err = formats.ParseFormat(meta.Format)
	if err != nil {
		r.Err = err
		return r
	}

	data, err := files.Bytes(ctx, store.ID(path))
	if err != nil {
		r.Err = err
		return r
	}
	r.Size = len(data)

	geom, err := formats.Parse(data, r.Format)
	if err != nil {
		r.Err = err
		return r
	}
	if geom.Name != "" {
		r.Name = geom.Name
	}

	r.Model, r.Err = model.Normalize(geom)
	return r
}

// inspectAll inspects paths concurrently, at most jobs at a time. Reports
// keep the order of paths; per-file failures are carried in Report.Err.
func inspectAll(ctx context.Context, paths []string, jobs int) []report {
	reports := make([]report, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(jobs, 1))
	for i, p := range paths {
		g.Go(func() error {
			reports[i] = inspect(ctx, p)
			return nil
		})
	}
	g.Wait()

	return reports
}

func writeReport(w io.Writer, r report) {
	g := r.Model.Geometry
	nb := r.Model.NormalizedBounds()

	fmt.Fprintf(w, "File:       %s\n", r.Path)
	fmt.Fprintf(w, "Name:       %s\n", r.Name)
	fmt.Fprintf(w, "Format:     %s\n", r.Format)
	fmt.Fprintf(w, "Size:       %d bytes\n", r.Size)
	fmt.Fprintf(w, "Vertices:   %d\n", g.VertexCount())
	fmt.Fprintf(w, "Triangles:  %d\n", g.TriangleCount())
	fmt.Fprintf(w, "Bounds:     %s .. %s\n", vec(r.Model.Bounds.Min), vec(r.Model.Bounds.Max))
	fmt.Fprintf(w, "Extent:     %s\n", vec(r.Model.Bounds.Size()))
	fmt.Fprintf(w, "Translate:  %s\n", vec(r.Model.Transform.Translation))
	fmt.Fprintf(w, "Scale:      %.6g\n", r.Model.Transform.Scale)
	fmt.Fprintf(w, "Normalized: %s .. %s\n", vec(nb.Min), vec(nb.Max))
}

func writePose(w io.Writer, p camera.Pose) {
	fmt.Fprintf(w, "Position: %s\n", vec(p.Position))
	fmt.Fprintf(w, "Target:   %s\n", vec(p.Target))
	fmt.Fprintf(w, "Up:       %s\n", vec(p.Up))
	fmt.Fprintf(w, "Distance: %.6g\n", p.Distance())
}

func vec(v r3.Vec) string {
	return fmt.Sprintf("(%.6g, %.6g, %.6g)", v.X, v.Y, v.Z)
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

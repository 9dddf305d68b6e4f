// Package main provides the Ember kernel-generation CLI: it generates the
// specialized concat kernel for a set of shapes and prints the source and
// dispatch plan for inspection.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ember-ml/ember/internal/backend/webgpu"
	"github.com/ember-ml/ember/kernels"
	"github.com/ember-ml/ember/tensor"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("Ember Kernel Generator %s\n", version)
		return
	}

	axisFlag := flag.String("axis", "channels", "concatenation axis: channels, width, or height")
	shapesFlag := flag.String("shapes", "", "comma-separated input shapes in BxHxWxC form, e.g. 1x5x2x3,1x5x3x3")
	rawFlag := flag.Bool("raw", false, "print the source with $0/$1/$2 slots unresolved")
	flag.Parse()

	if *shapesFlag == "" {
		fmt.Fprintln(os.Stderr, "ember: -shapes is required")
		flag.Usage()
		os.Exit(2)
	}

	axis, err := parseAxis(*axisFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ember: %v\n", err)
		os.Exit(2)
	}
	shapes, err := parseShapes(*shapesFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ember: %v\n", err)
		os.Exit(2)
	}

	srcs := make([]kernels.TensorDescriptor, len(shapes))
	for i := range srcs {
		srcs[i] = kernels.TensorDescriptor{DataType: tensor.Float32}
	}
	def := kernels.OperationDef{
		SrcTensors: srcs,
		DstTensors: []kernels.TensorDescriptor{{DataType: tensor.Float32}},
	}

	desc := kernels.Concat(def, kernels.ConcatAttributes{Axis: axis}, shapes)
	dstShape := kernels.ConcatOutputShape(axis, shapes)

	if *rawFlag {
		fmt.Print(desc.ShaderSource)
	} else {
		fmt.Print(webgpu.ResolveTaskSource(desc, ""))
	}

	fmt.Printf("\n// destination shape: %s\n", dstShape)
	dstShapes := []tensor.BHWC{dstShape}
	for _, u := range desc.UniformBuffers {
		fmt.Printf("// uniforms (%s): %v\n", u.Declaration, int32Params(u.Data(shapes, dstShapes)))
	}
	groupSize, groups := desc.Resize(shapes, dstShapes)
	fmt.Printf("// workgroup size: (%d, %d, %d), group count: (%d, %d, %d)\n",
		groupSize.X, groupSize.Y, groupSize.Z, groups.X, groups.Y, groups.Z)
}

// parseAxis maps the -axis flag to a tensor.Axis.
func parseAxis(s string) (tensor.Axis, error) {
	switch s {
	case "channels":
		return tensor.Channels, nil
	case "width":
		return tensor.Width, nil
	case "height":
		return tensor.Height, nil
	default:
		return 0, fmt.Errorf("unknown axis %q", s)
	}
}

// parseShapes parses a comma-separated list of BxHxWxC shapes.
func parseShapes(s string) ([]tensor.BHWC, error) {
	var shapes []tensor.BHWC
	for _, part := range strings.Split(s, ",") {
		dims := strings.Split(part, "x")
		if len(dims) != 4 {
			return nil, fmt.Errorf("shape %q: want 4 dimensions in BxHxWxC form", part)
		}
		var vals [4]int
		for i, d := range dims {
			v, err := strconv.Atoi(d)
			if err != nil || v <= 0 {
				return nil, fmt.Errorf("shape %q: bad dimension %q", part, d)
			}
			vals[i] = v
		}
		shapes = append(shapes, tensor.BHWC{B: vals[0], H: vals[1], W: vals[2], C: vals[3]})
	}
	return shapes, nil
}

// int32Params decodes a uniform byte block back into its int values.
func int32Params(buf []byte) []int32 {
	params := make([]int32, len(buf)/4)
	for i := range params {
		params[i] = int32(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	return params
}

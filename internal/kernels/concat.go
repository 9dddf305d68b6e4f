package kernels

import (
	"fmt"
	"strings"

	"github.com/ember-ml/ember/internal/tensor"
)

// ConcatAttributes carries the axis along which source tensors are
// concatenated. Immutable, supplied by the caller.
type ConcatAttributes struct {
	Axis tensor.Axis
}

// lanePostfix maps a channel lane index to its vec4 component accessor.
var lanePostfix = [4]string{".x", ".y", ".z", ".w"}

// isAllChannelsX4 reports whether every channel count is a multiple of the
// vector width. When true the depth kernel can read, assign, and write whole
// vec4 groups without shuffling lanes across input boundaries.
func isAllChannelsX4(channels []int) bool {
	for _, channel := range channels {
		if channel%4 != 0 {
			return false
		}
	}
	return true
}

// concatZWriteBlock emits one destination write: expose gid to the
// post-processing slot, store the accumulated vector, and when advance is set,
// step linear_index to the next layer and bump the channel-group counter.
func concatZWriteBlock(c *strings.Builder, advance bool) {
	c.WriteString("    {\n")
	c.WriteString("        let gid = vec3<u32>(ugid.x, ugid.y, u32(Z));\n")
	c.WriteString("        $2\n")
	c.WriteString("        dst_tensor[linear_index] = value;\n")
	if advance {
		c.WriteString("        linear_index = linear_index + U.src_size.w;\n")
		c.WriteString("        Z = Z + 1;\n")
	}
	c.WriteString("    }\n")
}

// concatZSource builds the kernel body for concatenation along channel depth.
// Each thread covers one (X, Y) column of the destination and walks all of its
// vector groups, so the dispatch grid stays two-dimensional.
func concatZSource(channels []int) string {
	var c strings.Builder
	c.WriteString(`struct uniforms {
    src_size : vec4<i32>,
    dst_size : vec4<i32>,
};

$0
$1

@compute @workgroup_size(8, 4, 1)
fn main(@builtin(global_invocation_id) ugid : vec3<u32>) {
    let X = i32(ugid.x);
    let Y = i32(ugid.y);
    var Z = 0;
    if (X >= U.dst_size.x || Y >= U.dst_size.y) {
        return;
    }

    var value = vec4<f32>(0.0);
    let xy_offset = Y * U.src_size.x + X;
    var linear_index = xy_offset;
`)

	if isAllChannelsX4(channels) {
		// When all channels % 4 == 0, every vector group maps to exactly one
		// input read. A compact loop per input also keeps the generated
		// kernel short for deep tensors.
		for i, channel := range channels {
			depth := DivideRoundUp(channel, 4)
			fmt.Fprintf(&c, "    for (var i = 0; i < %d; i = i + 1) {\n", depth)
			c.WriteString("        let src_index = i * U.src_size.w + xy_offset;\n")
			fmt.Fprintf(&c, "        value = %s[src_index];\n", srcTensorName(i))
			c.WriteString("        let gid = vec3<u32>(ugid.x, ugid.y, u32(Z));\n")
			c.WriteString("        $2\n")
			c.WriteString("        dst_tensor[linear_index] = value;\n")
			c.WriteString("        linear_index = linear_index + U.src_size.w;\n")
			c.WriteString("        Z = Z + 1;\n")
			c.WriteString("    }\n")
		}
	} else {
		// Output vector groups straddle input boundaries, so each group is
		// assembled lane by lane from fresh per-group reads and flushed once
		// it holds 4 channels.
		outChannel := 0
		readIndex := 0
		for i, channel := range channels {
			depth := DivideRoundUp(channel, 4)
			for d := 0; d < depth; d++ {
				channelsInGroup := min(4, channel-d*4)
				tempName := fmt.Sprintf("t%d", readIndex)
				fmt.Fprintf(&c, "    let %s = %s[%d * U.src_size.w + xy_offset];\n",
					tempName, srcTensorName(i), d)
				for lane := 0; lane < channelsInGroup; lane++ {
					fmt.Fprintf(&c, "    value%s = %s%s;\n",
						lanePostfix[outChannel], tempName, lanePostfix[lane])
					outChannel++
					if outChannel == 4 {
						outChannel = 0
						concatZWriteBlock(&c, true)
					}
				}
				readIndex++
			}
		}
		// Trailing partial group: flushed once, without advancing the index.
		if outChannel != 0 {
			concatZWriteBlock(&c, false)
		}
	}
	c.WriteString("}\n")
	return c.String()
}

// concatXYHeader is the shared preamble of the width and height kernels: a 3D
// thread grid with z enumerating destination vector groups, bounds-checked on
// x and y only (the dispatch grid's z extent equals the vector-group depth).
const concatXYHeader = `$0
$1

@compute @workgroup_size(8, 4, 1)
fn main(@builtin(global_invocation_id) gid : vec3<u32>) {
    let x = i32(gid.x);
    let y = i32(gid.y);
    let z = i32(gid.z);
    if (x >= size.x || y >= size.y) {
        return;
    }

    var value = vec4<f32>(0.0);
`

// concatBranchChain emits the source-selection chain shared by the width and
// height kernels. cond yields the cumulative-extent branch condition, read
// yields the per-input load statement; the last input is the unconditional
// else.
func concatBranchChain(c *strings.Builder, n int, cond func(i int) string, read func(i int) string) {
	if n == 1 {
		fmt.Fprintf(c, "    %s\n", read(0))
		return
	}
	for i := 0; i < n; i++ {
		switch {
		case i == 0:
			fmt.Fprintf(c, "    if (%s) {\n", cond(i))
		case i == n-1:
			c.WriteString(" else {\n")
		default:
			fmt.Fprintf(c, " else if (%s) {\n", cond(i))
		}
		fmt.Fprintf(c, "        %s\n", read(i))
		c.WriteString("    }")
	}
	c.WriteString("\n")
}

// concatXSource builds the kernel body for concatenation along width. A
// running cumulative width selects the source; the read subtracts the offset
// accumulated before that input.
func concatXSource(inputShapes []tensor.BHWC) string {
	offsets := make([]int, len(inputShapes))
	outputWidth := 0
	for i, dims := range inputShapes {
		offsets[i] = outputWidth
		outputWidth += dims.W
	}

	var c strings.Builder
	c.WriteString(concatXYHeader)
	// Generated example:
	//     if (x < 10) { value = src_tensor0[(y + z * 3) * 4 + x - 3]; }
	concatBranchChain(&c, len(inputShapes),
		func(i int) string {
			return fmt.Sprintf("x < %d", offsets[i]+inputShapes[i].W)
		},
		func(i int) string {
			dims := inputShapes[i]
			return fmt.Sprintf("value = %s[(y + z * %d) * %d + x - %d];",
				srcTensorName(i), dims.H, dims.W, offsets[i])
		})
	fmt.Fprintf(&c, "\n    let linear_index = (y + z * %d) * %d + x;\n",
		inputShapes[0].H, outputWidth)
	c.WriteString(`    $2
    dst_tensor[linear_index] = value;
}
`)
	return c.String()
}

// concatYSource builds the kernel body for concatenation along height,
// symmetric to concatXSource with the height and width roles exchanged.
func concatYSource(inputShapes []tensor.BHWC) string {
	offsets := make([]int, len(inputShapes))
	outputHeight := 0
	for i, dims := range inputShapes {
		offsets[i] = outputHeight
		outputHeight += dims.H
	}

	var c strings.Builder
	c.WriteString(concatXYHeader)
	// Generated example:
	//     if (y < 10) { value = src_tensor0[(y - 3 + z * 5) * 4 + x]; }
	concatBranchChain(&c, len(inputShapes),
		func(i int) string {
			return fmt.Sprintf("y < %d", offsets[i]+inputShapes[i].H)
		},
		func(i int) string {
			dims := inputShapes[i]
			return fmt.Sprintf("value = %s[(y - %d + z * %d) * %d + x];",
				srcTensorName(i), offsets[i], dims.H, dims.W)
		})
	fmt.Fprintf(&c, "\n    let linear_index = (y + z * %d) * %d + x;\n",
		outputHeight, inputShapes[0].W)
	c.WriteString(`    $2
    dst_tensor[linear_index] = value;
}
`)
	return c.String()
}

// concatBindings registers one named source binding per input in declaration
// order and the single destination binding.
func concatBindings(desc *ComputeTaskDescriptor, def OperationDef) {
	for i := range def.SrcTensors {
		desc.AddSrcTensor(srcTensorName(i), def.SrcTensors[i])
	}
	desc.AddDstTensor(dstTensorName, def.DstTensors[0])
}

// concatXYUniforms builds the 4-int uniform block shared by the width and
// height kernels: destination width, height, vector-group depth, and a zero
// field padding the block to 16 bytes.
func concatXYUniforms(srcShapes, dstShapes []tensor.BHWC) []byte {
	return int32ByteBuffer([]int{
		dstShapes[0].W,
		dstShapes[0].H,
		DivideRoundUp(dstShapes[0].C, 4),
		0,
	})
}

// concatXYResize sizes the dispatch for the width and height kernels: the full
// vector-group depth is mapped onto the z dispatch dimension.
func concatXYResize(srcShapes, dstShapes []tensor.BHWC) (Uint3, Uint3) {
	groupSize := Uint3{X: 8, Y: 4, Z: 1}
	groups := Uint3{
		X: uint32(DivideRoundUp(dstShapes[0].W, int(groupSize.X))),
		Y: uint32(DivideRoundUp(dstShapes[0].H, int(groupSize.Y))),
		Z: uint32(DivideRoundUp(dstShapes[0].C, 4)),
	}
	return groupSize, groups
}

// ConcatZ builds the task descriptor for concatenation along channel depth.
func ConcatZ(def OperationDef, attr ConcatAttributes, inputShapes []tensor.BHWC) ComputeTaskDescriptor {
	channels := make([]int, 0, len(inputShapes))
	for _, shape := range inputShapes {
		channels = append(channels, shape.C)
	}

	desc := ComputeTaskDescriptor{ShaderSource: concatZSource(channels)}
	concatBindings(&desc, def)

	desc.UniformBuffers = []UniformBuffer{{
		Declaration: "var<uniform> U : uniforms",
		Data: func(srcShapes, dstShapes []tensor.BHWC) []byte {
			// The source depth field mirrors the shared layout of the width
			// and height kernels; the generated source bakes its own per-input
			// loop bounds and never reads it.
			return int32ByteBuffer([]int{
				srcShapes[0].W,
				srcShapes[0].H,
				DivideRoundUp(srcShapes[0].C, 4),
				srcShapes[0].W * srcShapes[0].H,
				dstShapes[0].W,
				dstShapes[0].H,
				DivideRoundUp(dstShapes[0].C, 4),
				dstShapes[0].W * dstShapes[0].H,
			})
		},
	}}

	desc.Resize = func(srcShapes, dstShapes []tensor.BHWC) (Uint3, Uint3) {
		// The kernel iterates all channel groups per thread, so the grid
		// depth is always 1.
		groupSize := Uint3{X: 8, Y: 4, Z: 1}
		groups := Uint3{
			X: uint32(DivideRoundUp(dstShapes[0].W, int(groupSize.X))),
			Y: uint32(DivideRoundUp(dstShapes[0].H, int(groupSize.Y))),
			Z: 1,
		}
		return groupSize, groups
	}
	return desc
}

// ConcatX builds the task descriptor for concatenation along width.
func ConcatX(def OperationDef, attr ConcatAttributes, inputShapes []tensor.BHWC) ComputeTaskDescriptor {
	desc := ComputeTaskDescriptor{ShaderSource: concatXSource(inputShapes)}
	concatBindings(&desc, def)
	desc.UniformBuffers = []UniformBuffer{{
		Declaration: "var<uniform> size : vec4<i32>",
		Data:        concatXYUniforms,
	}}
	desc.Resize = concatXYResize
	return desc
}

// ConcatY builds the task descriptor for concatenation along height.
func ConcatY(def OperationDef, attr ConcatAttributes, inputShapes []tensor.BHWC) ComputeTaskDescriptor {
	desc := ComputeTaskDescriptor{ShaderSource: concatYSource(inputShapes)}
	concatBindings(&desc, def)
	desc.UniformBuffers = []UniformBuffer{{
		Declaration: "var<uniform> size : vec4<i32>",
		Data:        concatXYUniforms,
	}}
	desc.Resize = concatXYResize
	return desc
}

// ConcatOutputShape returns the destination shape for concatenating
// inputShapes along axis. Dimensions off the axis follow the first input,
// matching the precondition that they agree across all operands.
func ConcatOutputShape(axis tensor.Axis, inputShapes []tensor.BHWC) tensor.BHWC {
	out := inputShapes[0]
	for _, s := range inputShapes[1:] {
		switch axis {
		case tensor.Channels:
			out.C += s.C
		case tensor.Width:
			out.W += s.W
		default:
			out.H += s.H
		}
	}
	return out
}

// Concat builds the task descriptor for the requested concatenation axis.
// The descriptor is constructed once per concatenation instance and is
// immutable thereafter.
func Concat(def OperationDef, attr ConcatAttributes, inputShapes []tensor.BHWC) ComputeTaskDescriptor {
	if len(inputShapes) == 0 {
		panic("kernels: concat: empty input shape list")
	}
	if len(def.SrcTensors) != len(inputShapes) {
		panic(fmt.Sprintf("kernels: concat: %d source bindings for %d input shapes",
			len(def.SrcTensors), len(inputShapes)))
	}
	if len(def.DstTensors) != 1 {
		panic(fmt.Sprintf("kernels: concat: expected 1 destination binding, got %d",
			len(def.DstTensors)))
	}

	switch attr.Axis {
	case tensor.Channels:
		return ConcatZ(def, attr, inputShapes)
	case tensor.Width:
		return ConcatX(def, attr, inputShapes)
	default:
		// Any remaining axis value concatenates along height; Axis has
		// exactly three values, so HEIGHT is the only one left.
		return ConcatY(def, attr, inputShapes)
	}
}

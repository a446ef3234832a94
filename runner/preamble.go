package runner

import (
	"fmt"
	"github.com/notargets/kernelcheck/buffer"
	"strings"
)

// DefaultTile is the @inner loop width; CUDA caps a block at 1024 threads
const DefaultTile = 256

// GeneratePreamble creates the type definitions and extent constants every
// kernel source is compiled against. Kernels index their single buffer as
// buf[IDX(r, c)] and must stay inside NROWS x NCOLS.
func GeneratePreamble(rows, cols int, dt buffer.DataType, tile int) string {
	var sb strings.Builder

	if tile <= 0 {
		tile = DefaultTile
	}

	sb.WriteString(fmt.Sprintf("typedef %s elem_t;\n", dt.CName()))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("#define NROWS %d\n", rows))
	sb.WriteString(fmt.Sprintf("#define NCOLS %d\n", cols))
	sb.WriteString(fmt.Sprintf("#define TILE %d\n", tile))
	sb.WriteString("#define IDX(r, c) ((r) * NCOLS + (c))\n")
	sb.WriteString("\n")

	return sb.String()
}

// LetStmtSource is test_let_stmt: bind t = 10, store t + t everywhere
const LetStmtSource = `
@kernel void test_let_stmt(elem_t *buf) {
    for (int r = 0; r < NROWS; ++r; @outer) {
        for (int ct = 0; ct < TILE; ++ct; @inner) {
            for (int c = ct; c < NCOLS; c += TILE) {
                const elem_t t = (elem_t) 10;
                buf[IDX(r, c)] = t + t;
            }
        }
    }
}
`

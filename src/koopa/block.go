package koopa

import (
	"fmt"
	"strings"
)

// IRBlock is a basic block: an ordered list of instructions belonging to one
// Func. The current core only ever builds one entry block per function, but
// the model itself admits more (spec §3) and Func.Blocks is a slice for that
// reason.
type IRBlock struct {
	Name     string
	InstList []InstID
}

// Append adds id to the end of b's instruction list. It is the one place
// instructions enter a block, so every emission goes through here.
func (b *IRBlock) Append(id InstID) {
	b.InstList = append(b.InstList, id)
}

// String renders the "%entry:" label followed by every instruction in b, in
// textual Koopa IR form. dfg resolves InstIDs to their InstData.
func (b *IRBlock) String(dfg *DataFlowGraph) string {
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("%%%s:\n", b.Name))
	for _, id := range b.InstList {
		sb.WriteString("  ")
		sb.WriteString(dfg.Inst(id).String())
		sb.WriteRune('\n')
	}
	return sb.String()
}

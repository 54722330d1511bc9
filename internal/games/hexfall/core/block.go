package core

import (
	"fmt"
	"strings"
)

// BlockType is the closed set of block variants.
type BlockType uint8

const (
	BlockCentral BlockType = iota
	BlockStone
	BlockRed
	BlockGreen
	BlockBlue
	BlockYellow
	BlockPurple
	BlockOrange
)

// ColorTypes lists every matchable block type in declaration order.
var ColorTypes = []BlockType{
	BlockRed, BlockGreen, BlockBlue, BlockYellow, BlockPurple, BlockOrange,
}

var blockNames = map[BlockType]string{
	BlockCentral: "central",
	BlockStone:   "stone",
	BlockRed:     "red",
	BlockGreen:   "green",
	BlockBlue:    "blue",
	BlockYellow:  "yellow",
	BlockPurple:  "purple",
	BlockOrange:  "orange",
}

// String returns the config token of the block type.
func (t BlockType) String() string {
	if name, ok := blockNames[t]; ok {
		return name
	}
	return fmt.Sprintf("BlockType(%d)", uint8(t))
}

// IsColor reports whether t is one of the matchable colors.
func (t BlockType) IsColor() bool {
	return t >= BlockRed && t <= BlockOrange
}

// ParseBlockType converts a config token to a BlockType.
func ParseBlockType(token string) (BlockType, error) {
	token = strings.ToLower(strings.TrimSpace(token))
	for t, name := range blockNames {
		if name == token {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBlockType, token)
}

// MatchesWith is the default match rule: both blocks are colors and the
// colors are equal. Central and Stone never match anything.
func MatchesWith(a, b BlockType) bool {
	return a.IsColor() && a == b
}

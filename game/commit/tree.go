package commit

import (
	"errors"
	"fmt"
	"math/big"

	bnmimc "github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
)

var (
	ErrTreeSize     = errors.New("tree size must be a power of two")
	ErrTooManyCells = errors.New("too many cells for tree size")
	ErrIndexRange   = errors.New("leaf index out of range")
	ErrLeafSalts    = errors.New("one salt per leaf required")
)

// feBytes encodes a BN254 field element as 32 big-endian bytes
func feBytes(x *big.Int) []byte {
	b := x.Bytes()
	if len(b) == 32 {
		return b
	}
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}

func bytesToFE(b []byte) *big.Int { return new(big.Int).SetBytes(b) }

// HashLeaf hashes one occupancy bit together with the salt of its leaf.
// Without the salt a leaf hash is one of two values and gives its bit away.
func HashLeaf(bit uint8, salt *big.Int) (*big.Int, error) {
	h := bnmimc.NewMiMC()
	if _, err := h.Write(feBytes(new(big.Int).SetUint64(uint64(bit)))); err != nil {
		return nil, fmt.Errorf("hash leaf: %w", err)
	}
	if _, err := h.Write(feBytes(salt)); err != nil {
		return nil, fmt.Errorf("hash leaf: %w", err)
	}
	return bytesToFE(h.Sum(nil)), nil
}

// LeafSalt derives the salt of leaf idx from the layout salt
func LeafSalt(salt *big.Int, idx int) (*big.Int, error) {
	s, err := HashNode(salt, big.NewInt(int64(idx)))
	if err != nil {
		return nil, fmt.Errorf("leaf salt %d: %w", idx, err)
	}
	return s, nil
}

// HashNode hashes two child nodes
func HashNode(left, right *big.Int) (*big.Int, error) {
	h := bnmimc.NewMiMC()
	if _, err := h.Write(feBytes(left)); err != nil {
		return nil, fmt.Errorf("hash node: %w", err)
	}
	if _, err := h.Write(feBytes(right)); err != nil {
		return nil, fmt.Errorf("hash node: %w", err)
	}
	return bytesToFE(h.Sum(nil)), nil
}

// Tree is a fixed-size binary Merkle tree stored level by level.
// Levels[0] holds the leaves and Levels[Depth] the root.
type Tree struct {
	Depth  int          `json:"depth"`
	Levels [][]*big.Int `json:"levels"`
}

// TreeSize returns the smallest power of two holding n leaves
func TreeSize(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}

// BuildFixedTree builds a tree of size leaves from the occupancy bits,
// salting leaf i with salts[i]. Leaves past the end of bits hold a 0 bit.
func BuildFixedTree(bits []uint8, salts []*big.Int, size int) (*Tree, error) {
	if size <= 0 || size&(size-1) != 0 {
		return nil, ErrTreeSize
	}
	if len(bits) > size {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyCells, len(bits), size)
	}
	if len(salts) != size {
		return nil, fmt.Errorf("%w: got %d for %d leaves", ErrLeafSalts, len(salts), size)
	}

	var err error
	leaves := make([]*big.Int, size)
	for i := range leaves {
		var bit uint8
		if i < len(bits) && bits[i] != 0 {
			bit = 1
		}
		if leaves[i], err = HashLeaf(bit, salts[i]); err != nil {
			return nil, err
		}
	}
	levels := [][]*big.Int{leaves}

	for n := size; n > 1; n /= 2 {
		prev := levels[len(levels)-1]
		up := make([]*big.Int, n/2)
		for i := range up {
			if up[i], err = HashNode(prev[2*i], prev[2*i+1]); err != nil {
				return nil, err
			}
		}
		levels = append(levels, up)
	}

	return &Tree{Depth: len(levels) - 1, Levels: levels}, nil
}

// Root returns a copy of the root hash
func (t *Tree) Root() *big.Int { return new(big.Int).Set(t.Levels[len(t.Levels)-1][0]) }

// Path returns the sibling hashes and direction bits from leaf idx up to the root.
// dir[i] is 0 when the current node is a left child and 1 when it is a right child.
func (t *Tree) Path(idx int) (path []*big.Int, dir []uint8, err error) {
	if idx < 0 || idx >= len(t.Levels[0]) {
		return nil, nil, fmt.Errorf("%w: %d", ErrIndexRange, idx)
	}
	path = make([]*big.Int, 0, t.Depth)
	dir = make([]uint8, 0, t.Depth)
	cur := idx
	for level := 0; level < t.Depth; level++ {
		sib := cur + 1
		var d uint8
		if cur%2 == 1 {
			sib = cur - 1
			d = 1
		}
		path = append(path, new(big.Int).Set(t.Levels[level][sib]))
		dir = append(dir, d)
		cur /= 2
	}
	return path, dir, nil
}

// RootFromPath recomputes the tree root from a leaf bit, its salt and its path
func RootFromPath(bit uint8, salt *big.Int, path []*big.Int, dir []uint8) (*big.Int, error) {
	if len(path) != len(dir) {
		return nil, fmt.Errorf("path has %d siblings but %d directions", len(path), len(dir))
	}
	cur, err := HashLeaf(bit, salt)
	if err != nil {
		return nil, err
	}
	for i, sib := range path {
		if dir[i] == 1 {
			cur, err = HashNode(sib, cur)
		} else {
			cur, err = HashNode(cur, sib)
		}
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

package commit

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

var ErrMalformedHex = errors.New("malformed hex value")

// Layout is the salted commitment of one fleet occupancy.
// Every leaf carries its own salt derived from the layout salt, so an
// opening of one cell says nothing about the cells next to it.
type Layout struct {
	tree      *Tree
	salt      *big.Int
	leafSalts []*big.Int
	root      *big.Int
}

// Commit builds the Merkle tree of occupancy (one 0/1 byte per cell)
// and binds its root to a fresh random salt.
func Commit(occupancy []uint8) (*Layout, error) {
	var e fr.Element
	if _, err := e.SetRandom(); err != nil {
		return nil, fmt.Errorf("commit salt: %w", err)
	}
	return CommitWithSalt(occupancy, e.BigInt(new(big.Int)))
}

// CommitWithSalt is Commit with a caller supplied salt
func CommitWithSalt(occupancy []uint8, salt *big.Int) (*Layout, error) {
	size := TreeSize(len(occupancy))
	salts := make([]*big.Int, size)
	for i := range salts {
		s, err := LeafSalt(salt, i)
		if err != nil {
			return nil, fmt.Errorf("commit layout: %w", err)
		}
		salts[i] = s
	}
	tree, err := BuildFixedTree(occupancy, salts, size)
	if err != nil {
		return nil, fmt.Errorf("commit layout: %w", err)
	}
	root, err := HashNode(salt, tree.Root())
	if err != nil {
		return nil, fmt.Errorf("commit layout: %w", err)
	}
	return &Layout{tree: tree, salt: new(big.Int).Set(salt), leafSalts: salts, root: root}, nil
}

// RootHex returns the salted root as 0x-prefixed hex
func (l *Layout) RootHex() string { return toHex(l.root) }

// SaltHex returns the salt as 0x-prefixed hex
func (l *Layout) SaltHex() string { return toHex(l.salt) }

// Tree returns the Merkle tree of the layout before the root salt is applied
func (l *Layout) Tree() *Tree { return l.tree }

// Opening proves the occupancy bit of one cell against a salted root.
// Salt is the salt of that leaf only.
type Opening struct {
	Index int      `json:"index"`
	Bit   uint8    `json:"bit"`
	Salt  string   `json:"salt"`
	Path  []string `json:"path"`
	Dir   []uint8  `json:"dir"`
}

// Open returns the opening of cell idx
func (l *Layout) Open(idx int, bit uint8) (*Opening, error) {
	path, dir, err := l.tree.Path(idx)
	if err != nil {
		return nil, err
	}
	hexPath := make([]string, len(path))
	for i, p := range path {
		hexPath[i] = toHex(p)
	}
	return &Opening{Index: idx, Bit: bit, Salt: toHex(l.leafSalts[idx]), Path: hexPath, Dir: dir}, nil
}

// VerifyOpening checks a cell opening against the salted root once the salt is known
func VerifyOpening(o *Opening, saltHex, rootHex string) (bool, error) {
	salt, err := parseHex(saltHex)
	if err != nil {
		return false, err
	}
	want, err := parseHex(rootHex)
	if err != nil {
		return false, err
	}
	leafSalt, err := parseHex(o.Salt)
	if err != nil {
		return false, err
	}
	path := make([]*big.Int, len(o.Path))
	for i, p := range o.Path {
		if path[i], err = parseHex(p); err != nil {
			return false, err
		}
	}
	expected, err := LeafSalt(salt, o.Index)
	if err != nil {
		return false, err
	}
	if expected.Cmp(leafSalt) != 0 {
		return false, nil
	}
	treeRoot, err := RootFromPath(o.Bit, leafSalt, path, o.Dir)
	if err != nil {
		return false, err
	}
	got, err := HashNode(salt, treeRoot)
	if err != nil {
		return false, err
	}
	return got.Cmp(want) == 0, nil
}

// Verify recomputes the salted root of occupancy and compares it with rootHex
func Verify(occupancy []uint8, saltHex, rootHex string) (bool, error) {
	salt, err := parseHex(saltHex)
	if err != nil {
		return false, err
	}
	want, err := parseHex(rootHex)
	if err != nil {
		return false, err
	}
	l, err := CommitWithSalt(occupancy, salt)
	if err != nil {
		return false, err
	}
	return l.root.Cmp(want) == 0, nil
}

func toHex(x *big.Int) string { return fmt.Sprintf("0x%x", x) }

func parseHex(s string) (*big.Int, error) {
	if !strings.HasPrefix(s, "0x") || len(s) < 3 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedHex, s)
	}
	v, ok := new(big.Int).SetString(s[2:], 16)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMalformedHex, s)
	}
	return v, nil
}

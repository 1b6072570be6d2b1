// Package commit hashes a fleet layout into a salted MiMC Merkle root.
//
// The root of the hidden layout is published when a match starts and the salt
// is revealed once it is over, so a client can check that the layout it played
// against was fixed in advance. Single cells can be opened with a Merkle path.
// Each leaf is salted with a value derived from the layout salt, and an opening
// reveals only the salt of its own leaf.
package commit

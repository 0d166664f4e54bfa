// Copyright (c) 2025 The PoetChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package consensus

// NullBlockID identifies the (non-existent) predecessor of the genesis block.
// Consensus state stored under this ID is the pre-genesis state.
const NullBlockID = "0000000000000000"

// SignupInfo holds the signup information the validator registry currently
// associates with a validator.
type SignupInfo struct {
	PoetPublicKey string
}

// ValidatorInfo identifies a validator and its current signup info,
// as resolved by the validator registry per claim event.
type ValidatorInfo struct {
	ID         string
	Name       string
	SignupInfo SignupInfo
}

// WaitCertificate carries the per-block statistical parameters produced by
// the wait-certificate subsystem. LocalMean must be finite and non-negative.
type WaitCertificate struct {
	LocalMean float64
}

// Block is the minimal view of a committed block needed to rebuild
// consensus state. Cert is nil for a non-PoET block.
type Block struct {
	ID         string
	PreviousID string
	SignerID   string
	Cert       *WaitCertificate
}

// BlockReader provides access to committed blocks.
type BlockReader interface {
	// Block returns the block with the given ID.
	// An error returned if not found. It can be checked via IsNotFound.
	Block(id string) (*Block, error)
	IsNotFound(error) bool
}

// Registry resolves a validator identity to its current signup info.
type Registry interface {
	ValidatorInfo(validatorID string) (ValidatorInfo, error)
}

// SettingsReader reads on-chain configuration settings by name.
type SettingsReader interface {
	GetSetting(name string) (value string, ok bool)
}

// Copyright (c) 2025 The PoetChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package consensus

import "strconv"

// SettingKeyBlockClaimLimit is the on-chain setting bounding how many blocks
// a validator may claim under a single PoET key.
const SettingKeyBlockClaimLimit = "poet.key_block_claim_limit"

const defaultKeyBlockClaimLimit = 25

// Settings wraps the retrieval of PoET settings from a settings reader.
// Values that are missing or invalid fall back to defaults.
type Settings struct {
	reader SettingsReader
}

// NewSettings creates a settings view over the given reader. A nil reader
// yields defaults for every setting.
func NewSettings(reader SettingsReader) *Settings {
	return &Settings{reader: reader}
}

// KeyBlockClaimLimit returns the per-key block claim limit, which is
// always > 0.
func (s *Settings) KeyBlockClaimLimit() uint64 {
	return s.uintSetting(SettingKeyBlockClaimLimit, defaultKeyBlockClaimLimit)
}

func (s *Settings) uintSetting(name string, def uint64) uint64 {
	if s.reader == nil {
		return def
	}
	raw, ok := s.reader.GetSetting(name)
	if !ok {
		return def
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		logger.Warn("invalid setting value, using default",
			"setting", name,
			"value", raw,
			"default", def)
		return def
	}
	return value
}

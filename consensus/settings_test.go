// Copyright (c) 2025 The PoetChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package consensus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type settingsMap map[string]string

func (m settingsMap) GetSetting(name string) (string, bool) {
	value, ok := m[name]
	return value, ok
}

func TestKeyBlockClaimLimit(t *testing.T) {
	tests := []struct {
		name   string
		reader SettingsReader
		want   uint64
	}{
		{"nil reader", nil, defaultKeyBlockClaimLimit},
		{"missing", settingsMap{}, defaultKeyBlockClaimLimit},
		{"valid", settingsMap{SettingKeyBlockClaimLimit: "100"}, 100},
		{"not a number", settingsMap{SettingKeyBlockClaimLimit: "bogus"}, defaultKeyBlockClaimLimit},
		{"zero", settingsMap{SettingKeyBlockClaimLimit: "0"}, defaultKeyBlockClaimLimit},
		{"negative", settingsMap{SettingKeyBlockClaimLimit: "-3"}, defaultKeyBlockClaimLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewSettings(tt.reader).KeyBlockClaimLimit())
		})
	}
}

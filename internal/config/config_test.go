package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("正常系: デフォルト値", func(t *testing.T) {
		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "ap-northeast-1", cfg.AWSRegion)
		assert.Equal(t, time.Duration(0), cfg.JobTTL)
		assert.Equal(t, 32, cfg.MaxQueue)
	})

	t.Run("正常系: 環境変数から読み込む", func(t *testing.T) {
		t.Setenv("PORT", "9000")
		t.Setenv("JOB_TTL", "30m")
		t.Setenv("MAX_QUEUE", "5")

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.Port)
		assert.Equal(t, 30*time.Minute, cfg.JobTTL)
		assert.Equal(t, 5, cfg.MaxQueue)
	})

	t.Run("異常系: 不正なJOB_TTL", func(t *testing.T) {
		t.Setenv("JOB_TTL", "soon")

		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("異常系: 不正なMAX_QUEUE", func(t *testing.T) {
		t.Setenv("MAX_QUEUE", "-3")

		_, err := LoadConfig()
		assert.Error(t, err)
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		port    string
		wantErr bool
	}{
		{name: "正常系: 数値ポート", port: "8080", wantErr: false},
		{name: "異常系: 数値でないポート", port: "http", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Port: tt.port}
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

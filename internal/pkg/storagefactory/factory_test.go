package storagefactory

import (
	"testing"

	"docchat/internal/config"
)

func TestNewStorage(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.StorageConfig
		want    string
		wantErr bool
	}{
		{
			name: "valid local storage config",
			cfg: &config.StorageConfig{
				Type: "local",
				Local: &config.LocalConfig{
					BasePath:      t.TempDir(),
					BaseURL:       "http://localhost:8080/storage",
					PresignExpiry: 3600,
				},
			},
			want: "local",
		},
		{
			name: "missing local config",
			cfg: &config.StorageConfig{
				Type:  "local",
				Local: nil,
			},
			wantErr: true,
		},
		{
			name: "missing oss config",
			cfg: &config.StorageConfig{
				Type: "oss",
				OSS:  nil,
			},
			wantErr: true,
		},
		{
			name: "unsupported storage type",
			cfg: &config.StorageConfig{
				Type: "invalid",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := NewStorage(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewStorage() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if st.GetStorageType() != tt.want {
				t.Errorf("GetStorageType() = %v, want %v", st.GetStorageType(), tt.want)
			}
		})
	}
}

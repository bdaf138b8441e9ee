package keybackend

// KeysConfig holds configuration for loading signing keys.
type KeysConfig struct {
	Inline []SigningKey `mapstructure:"inline"` // Inline keys from config
	File   string       `mapstructure:"file"`   // Path to JSON file containing keys
}

// NewSecretStore merges inline and file keys into one store. File keys take
// precedence over inline keys with the same id.
func NewSecretStore(cfg KeysConfig) (*MapSecretStore, error) {
	keys := make(map[string]string)

	for _, k := range cfg.Inline {
		if k.KeyID != "" && k.Secret != "" {
			keys[k.KeyID] = k.Secret
		}
	}

	if cfg.File != "" {
		fileKeys, err := LoadKeysFromFile(cfg.File)
		if err != nil {
			return nil, err
		}
		for k, v := range fileKeys {
			keys[k] = v
		}
	}

	return NewMapSecretStore(keys), nil
}

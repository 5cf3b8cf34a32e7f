package types

import "imagefetch/internal/config"

// ConvertSettings converts the app-level Settings to the engine-level RuntimeConfig.
func ConvertSettings(s *config.Settings) *RuntimeConfig {
	return &RuntimeConfig{
		Timeout:   s.Network.Timeout,
		UserAgent: s.Network.UserAgent,
		ChunkSize: s.Network.ChunkSize,
		HTTP3:     s.Network.Protocol == config.ProtocolHTTP3,
	}
}

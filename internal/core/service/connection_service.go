package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/towerops/toweradmin/internal/core/domain"
	"github.com/towerops/toweradmin/internal/core/ports"
)

// ConnectionService tests instance connectivity and proxies upstream
// credential listings through the stored tower config.
type ConnectionService struct {
	gateway ports.TowerGateway
	config  ports.ConfigRepository
	log     zerolog.Logger
}

func NewConnectionService(gateway ports.TowerGateway, config ports.ConfigRepository, log zerolog.Logger) *ConnectionService {
	return &ConnectionService{gateway: gateway, config: config, log: log}
}

func (s *ConnectionService) TestConnection(ctx context.Context, url, username, password string) error {
	if url == "" || username == "" || password == "" {
		return fmt.Errorf("url, username, and password are required")
	}
	return s.gateway.Ping(ctx, url, username, password)
}

func (s *ConnectionService) ProxyCredentials(ctx context.Context) ([]map[string]any, error) {
	cfg, err := s.config.Get(ctx)
	if err != nil {
		if err == domain.ErrConfigNotSet {
			return nil, err
		}
		return nil, fmt.Errorf("load tower config: %w", err)
	}

	creds, err := s.gateway.Credentials(ctx, cfg)
	if err != nil {
		s.log.Error().Err(err).Str("base_url", cfg.BaseURL).Msg("upstream credential listing failed")
		return nil, err
	}
	return creds, nil
}

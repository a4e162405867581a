// Package registry centralizes source client construction.
package registry

import (
	"go.uber.org/zap"

	"drama-catalog-service/internal/config"
	"drama-catalog-service/internal/domain"
	"drama-catalog-service/internal/infra/source"
	"drama-catalog-service/internal/infra/source/dramabox"
	"drama-catalog-service/internal/infra/source/netshort"
)

// NewSources creates all configured source clients. The slice order is the
// fixed combine order for multi-source aggregation: dramabox first, then
// netshort. Callers must not reorder it.
func NewSources(cfg config.SourceConfig, logger *zap.Logger) []domain.SourceClient {
	return []domain.SourceClient{
		dramabox.New(clientConfig(cfg.Dramabox), logger),
		netshort.New(clientConfig(cfg.Netshort), logger),
	}
}

func clientConfig(ep config.SourceEndpoint) source.ClientConfig {
	return source.ClientConfig{
		BaseURL: ep.BaseURL,
		Timeout: ep.Timeout,
		Retry: source.RetryConfig{
			MaxAttempts: ep.Retry.MaxAttempts,
			WaitTime:    ep.Retry.WaitTime,
			MaxWaitTime: ep.Retry.MaxWaitTime,
		},
		CB: source.CBConfig{
			MaxRequests:  ep.CB.MaxRequests,
			Interval:     ep.CB.Interval,
			Timeout:      ep.CB.Timeout,
			FailureRatio: ep.CB.FailureRatio,
		},
	}
}

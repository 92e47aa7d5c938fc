package erp

import (
	"context"

	"github.com/erp/proposals/internal/domain/integration"
	"github.com/erp/proposals/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewClientFromConfig builds the ERP client from process configuration.
// Without credentials the returned client fails every call with
// integration.ErrERPNotConfigured.
func NewClientFromConfig(cfg config.ERPConfig, logger *zap.Logger) (integration.ERPClient, error) {
	if !cfg.Configured() {
		if logger != nil {
			logger.Warn("erp integration not configured, sends will be rejected")
		}
		return disabledClient{}, nil
	}
	return NewClient(&Config{
		BaseURL:          cfg.BaseURL,
		Username:         cfg.Username,
		Password:         cfg.Password,
		AppID:            cfg.AppID,
		Company:          cfg.Company,
		Branch:           cfg.Branch,
		Series:           cfg.Series,
		Timeout:          cfg.Timeout,
		MaxResponseBytes: cfg.MaxResponseBytes,
	}, logger)
}

type disabledClient struct{}

func (disabledClient) CreateSalesDocument(context.Context, integration.DocumentRequest) (*integration.DocumentResult, error) {
	return nil, integration.ErrERPNotConfigured
}

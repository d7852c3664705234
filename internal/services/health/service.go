package health

import "riskassess-backend/internal/llm"

// Service encapsulates health-related checks.
type Service struct {
	clients []llm.Client
}

// NewService constructs a health service over the configured AI providers.
func NewService(clients ...llm.Client) *Service {
	return &Service{clients: clients}
}

// Status returns a simple liveness payload.
func (s *Service) Status() map[string]bool {
	return map[string]bool{"ok": true}
}

// ProvidersReport summarizes AI provider readiness for the diagnostics
// endpoint.
type ProvidersReport struct {
	TotalProviders   int                  `json:"totalProviders"`
	WorkingProviders int                  `json:"workingProviders"`
	Providers        []llm.ProviderStatus `json:"providers"`
	Recommendation   string               `json:"recommendation"`
}

// Providers reports per-provider configuration status without making any
// network calls.
func (s *Service) Providers() ProvidersReport {
	report := ProvidersReport{
		Providers: make([]llm.ProviderStatus, 0, len(s.clients)),
	}
	for _, client := range s.clients {
		if client == nil {
			continue
		}
		status := client.Status()
		report.TotalProviders++
		if status.Configured {
			report.WorkingProviders++
		}
		report.Providers = append(report.Providers, status)
	}
	if report.WorkingProviders == 0 {
		report.Recommendation = "no AI provider configured: set GOOGLE_AI_API_KEY"
	} else {
		report.Recommendation = "all configured providers operational"
	}
	return report
}

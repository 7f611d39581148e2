package convert

import "log/slog"

type PlannerOption func(p *Planner)

// WithPlannerLogger specifies the logger for the planner
func WithPlannerLogger(l *slog.Logger) PlannerOption {
	return func(p *Planner) {
		p.logger = l
	}
}

type ServiceOption func(s *Service)

// WithServiceLogger specifies the logger for the payment-method service
func WithServiceLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = l
	}
}

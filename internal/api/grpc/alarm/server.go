package alarm

import (
	"bytes"
	"context"
	"errors"
	"io"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	domain "github.com/oshokin/theme-alarm/internal/domain/alarm"
	"github.com/oshokin/theme-alarm/internal/logger"
	"github.com/oshokin/theme-alarm/internal/scheduler"
)

// Service abstracts the business operations the transport layer depends on.
type Service interface {
	Themes(ctx context.Context) *domain.Themes
	AddTheme(ctx context.Context, key, name string) error
	RemoveTheme(ctx context.Context, key string) error
	SetThemeEnabled(ctx context.Context, key string, enabled bool) error
	AddTime(ctx context.Context, key, value string) error
	RemoveTime(ctx context.Context, key, value string) error
	SetTimeEnabled(ctx context.Context, key, value string, enabled bool) error
	LeadTime(ctx context.Context) int
	SetLeadTime(ctx context.Context, minutes int) error
	Pending(ctx context.Context) []scheduler.Trigger
	Alerts(ctx context.Context) []domain.Alert
	Snooze(ctx context.Context, alertID string) error
	Stop(ctx context.Context, alertID string) error
	ExportCalendar(ctx context.Context, w io.Writer) error
	Subscribe(ctx context.Context) <-chan domain.Alert
}

// Server implements the AlarmService gRPC API.
type Server struct {
	// service provides the business logic for alarm operations.
	service Service
}

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// ListThemes returns every theme in collection order.
func (s *Server) ListThemes(ctx context.Context, _ *Empty) (*ListThemesResponse, error) {
	return &ListThemesResponse{Themes: toThemes(s.service.Themes(ctx))}, nil
}

// AddTheme creates an empty enabled theme.
func (s *Server) AddTheme(ctx context.Context, req *AddThemeRequest) (*Empty, error) {
	return empty(ctx, s.service.AddTheme(ctx, req.Key, req.Name))
}

// RemoveTheme deletes a theme.
func (s *Server) RemoveTheme(ctx context.Context, req *ThemeRequest) (*Empty, error) {
	return empty(ctx, s.service.RemoveTheme(ctx, req.Key))
}

// SetThemeEnabled switches a theme.
func (s *Server) SetThemeEnabled(ctx context.Context, req *SetThemeEnabledRequest) (*Empty, error) {
	return empty(ctx, s.service.SetThemeEnabled(ctx, req.Key, req.Enabled))
}

// AddTime inserts an entry.
func (s *Server) AddTime(ctx context.Context, req *TimeRequest) (*Empty, error) {
	return empty(ctx, s.service.AddTime(ctx, req.Key, req.Time))
}

// RemoveTime deletes an entry.
func (s *Server) RemoveTime(ctx context.Context, req *TimeRequest) (*Empty, error) {
	return empty(ctx, s.service.RemoveTime(ctx, req.Key, req.Time))
}

// SetTimeEnabled switches an entry.
func (s *Server) SetTimeEnabled(ctx context.Context, req *SetTimeEnabledRequest) (*Empty, error) {
	return empty(ctx, s.service.SetTimeEnabled(ctx, req.Key, req.Time, req.Enabled))
}

// GetLeadTime returns the current lead time.
func (s *Server) GetLeadTime(ctx context.Context, _ *Empty) (*LeadTime, error) {
	return &LeadTime{Minutes: s.service.LeadTime(ctx)}, nil
}

// SetLeadTime changes the lead time.
func (s *Server) SetLeadTime(ctx context.Context, req *LeadTime) (*Empty, error) {
	return empty(ctx, s.service.SetLeadTime(ctx, req.Minutes))
}

// ListPending returns the armed triggers.
func (s *Server) ListPending(ctx context.Context, _ *Empty) (*ListPendingResponse, error) {
	return &ListPendingResponse{Triggers: toTriggers(s.service.Pending(ctx))}, nil
}

// ListAlerts returns the open alerts.
func (s *Server) ListAlerts(ctx context.Context, _ *Empty) (*ListAlertsResponse, error) {
	var (
		lead   = s.service.LeadTime(ctx)
		alerts = s.service.Alerts(ctx)
		result = make([]Alert, 0, len(alerts))
	)

	for _, alert := range alerts {
		result = append(result, toAlert(alert, lead))
	}

	return &ListAlertsResponse{Alerts: result}, nil
}

// SnoozeAlert snoozes an open alert.
func (s *Server) SnoozeAlert(ctx context.Context, req *AlertRequest) (*Empty, error) {
	return empty(ctx, s.service.Snooze(ctx, req.ID))
}

// StopAlert stops an open alert, deleting its entry.
func (s *Server) StopAlert(ctx context.Context, req *AlertRequest) (*Empty, error) {
	return empty(ctx, s.service.Stop(ctx, req.ID))
}

// ExportCalendar renders the enabled entries as iCalendar.
func (s *Server) ExportCalendar(ctx context.Context, _ *Empty) (*ExportCalendarResponse, error) {
	var buf bytes.Buffer

	if err := s.service.ExportCalendar(ctx, &buf); err != nil {
		return nil, toStatus(ctx, err)
	}

	return &ExportCalendarResponse{Calendar: buf.String()}, nil
}

// WatchAlerts streams fired alerts until the client goes away or the service closes.
func (s *Server) WatchAlerts(_ *Empty, stream AlertStream) error {
	ctx := stream.Context()

	for alert := range s.service.Subscribe(ctx) {
		message := toAlert(alert, s.service.LeadTime(ctx))

		if err := stream.Send(&message); err != nil {
			return err
		}
	}

	if ctx.Err() != nil {
		return nil
	}

	return status.Error(codes.Unavailable, "alert subscription closed")
}

// empty maps a service error to a gRPC status or returns an empty response.
func empty(ctx context.Context, err error) (*Empty, error) {
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return new(Empty), nil
}

// toStatus converts a service error into a gRPC status error.
func toStatus(ctx context.Context, err error) error {
	var code codes.Code

	switch {
	case errors.Is(err, domain.ErrInvalidTime),
		errors.Is(err, domain.ErrInvalidTheme),
		errors.Is(err, domain.ErrInvalidLeadTime):
		code = codes.InvalidArgument
	case errors.Is(err, domain.ErrDuplicateTime),
		errors.Is(err, domain.ErrThemeExists):
		code = codes.AlreadyExists
	case errors.Is(err, domain.ErrThemeNotFound),
		errors.Is(err, domain.ErrTimeNotFound),
		errors.Is(err, domain.ErrAlertNotFound):
		code = codes.NotFound
	case errors.Is(err, domain.ErrLastTheme),
		errors.Is(err, scheduler.ErrSessionResolved),
		errors.Is(err, scheduler.ErrClosed):
		code = codes.FailedPrecondition
	default:
		logger.ErrorKV(ctx, "Alarm service call failed", "error", err)

		return status.Error(codes.Internal, "internal error")
	}

	return status.Error(code, err.Error())
}

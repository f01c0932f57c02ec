package alarm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	domain "github.com/oshokin/theme-alarm/internal/domain/alarm"
	"github.com/oshokin/theme-alarm/internal/scheduler"
)

var errTestBackend = errors.New("backend exploded")

// testActor is the caller identity sent by test clients.
const testActor = "tester@bufnet"


// fakeService implements the alarm Service interface for unit testing the transport.
type fakeService struct {
	mu sync.Mutex
	// themes is the in-memory collection.
	themes *domain.Themes
	// lead is the lead time.
	lead int
	// alerts are the open alerts.
	alerts []domain.Alert
	// exportErr is returned by ExportCalendar when set.
	exportErr error
	// feed delivers alerts to subscribers.
	feed chan domain.Alert
	// lastActor is the caller seen by the latest AddTheme.
	lastActor string
}

// newFakeService returns a service with one theme.
func newFakeService() *fakeService {
	themes := domain.NewThemes()
	themes.Set("canopus", &domain.Theme{
		Name:    "Canopus",
		Enabled: true,
		Times:   []domain.Entry{{Time: "08:30", Enabled: true}},
	})

	return &fakeService{
		themes: themes,
		lead:   domain.DefaultLeadTime,
		alerts: []domain.Alert{{ID: "a1", Time: "08:30", ThemeName: "Canopus", ThemeKey: "canopus"}},
		feed:   make(chan domain.Alert, 4),
	}
}

func (f *fakeService) Themes(context.Context) *domain.Themes {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.themes.Clone()
}

func (f *fakeService) AddTheme(ctx context.Context, key, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lastActor = ActorFromContext(ctx)

	return f.themes.Add(key, name)
}

func (f *fakeService) RemoveTheme(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.themes.Remove(key)
}

func (f *fakeService) SetThemeEnabled(_ context.Context, key string, enabled bool) error {
	return f.withTheme(key, func(theme *domain.Theme) error {
		theme.Enabled = enabled

		return nil
	})
}

func (f *fakeService) AddTime(_ context.Context, key, value string) error {
	return f.withTheme(key, func(theme *domain.Theme) error {
		return theme.AddTime(value)
	})
}

func (f *fakeService) RemoveTime(_ context.Context, key, value string) error {
	return f.withTheme(key, func(theme *domain.Theme) error {
		if !theme.RemoveTime(value) {
			return domain.ErrTimeNotFound
		}

		return nil
	})
}

func (f *fakeService) SetTimeEnabled(_ context.Context, key, value string, enabled bool) error {
	return f.withTheme(key, func(theme *domain.Theme) error {
		return theme.SetTimeEnabled(value, enabled)
	})
}

func (f *fakeService) LeadTime(context.Context) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.lead
}

func (f *fakeService) SetLeadTime(_ context.Context, minutes int) error {
	if err := domain.ValidateLeadTime(minutes); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.lead = minutes

	return nil
}

func (f *fakeService) Pending(context.Context) []scheduler.Trigger {
	return []scheduler.Trigger{{
		Payload: scheduler.Payload{Time: "08:30", ThemeName: "Canopus", ThemeKey: "canopus"},
		AlertAt: time.Date(2025, time.March, 11, 8, 24, 0, 0, time.UTC),
	}}
}

func (f *fakeService) Alerts(context.Context) []domain.Alert {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]domain.Alert(nil), f.alerts...)
}

func (f *fakeService) Snooze(_ context.Context, alertID string) error {
	return f.takeAlert(alertID)
}

func (f *fakeService) Stop(_ context.Context, alertID string) error {
	return f.takeAlert(alertID)
}

func (f *fakeService) ExportCalendar(_ context.Context, w io.Writer) error {
	if f.exportErr != nil {
		return f.exportErr
	}

	_, err := io.WriteString(w, "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n")

	return err
}

func (f *fakeService) Subscribe(ctx context.Context) <-chan domain.Alert {
	out := make(chan domain.Alert)

	go func() {
		defer close(out)

		for {
			select {
			case <-ctx.Done():
				return
			case alert, ok := <-f.feed:
				if !ok {
					return
				}

				select {
				case out <- alert:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

// withTheme runs change on the theme under key.
func (f *fakeService) withTheme(key string, change func(*domain.Theme) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	theme, ok := f.themes.Get(key)
	if !ok {
		return fmt.Errorf("%q: %w", key, domain.ErrThemeNotFound)
	}

	return change(theme)
}

// takeAlert removes an open alert.
func (f *fakeService) takeAlert(alertID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, alert := range f.alerts {
		if alert.ID == alertID {
			f.alerts = append(f.alerts[:i], f.alerts[i+1:]...)

			return nil
		}
	}

	return domain.ErrAlertNotFound
}

// startServer serves svc over an in-memory listener and returns a connected client.
func startServer(t *testing.T, svc Service) *Client {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	server := grpc.NewServer(grpc.ChainUnaryInterceptor(AuditInterceptor()))
	RegisterAlarmServiceServer(server, NewServer(svc))

	go func() {
		_ = server.Serve(lis)
	}()

	client, err := Dial(context.Background(), "passthrough:///bufnet",
		WithCallTimeout(2*time.Second),
		WithActor(testActor),
		WithDialOptions(grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		})),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = client.Close()

		server.Stop()
	})

	return client
}

// TestClient_ThemeRoundtrip exercises theme and time calls over the wire.
func TestClient_ThemeRoundtrip(t *testing.T) {
	t.Parallel()

	client := startServer(t, newFakeService())
	ctx := context.Background()

	require.NoError(t, client.AddTheme(ctx, "timbo", "팀보로봇"))
	require.NoError(t, client.AddTime(ctx, "timbo", "19:30"))
	require.NoError(t, client.AddTime(ctx, "timbo", "07:15"))
	require.NoError(t, client.SetTimeEnabled(ctx, "timbo", "19:30", false))
	require.NoError(t, client.SetThemeEnabled(ctx, "canopus", false))

	themes, err := client.ListThemes(ctx)
	require.NoError(t, err)
	require.Equal(t, []Theme{
		{Key: "canopus", Name: "Canopus", Enabled: false, Times: []TimeEntry{{Time: "08:30", Enabled: true}}},
		{Key: "timbo", Name: "팀보로봇", Enabled: true, Times: []TimeEntry{
			{Time: "07:15", Enabled: true},
			{Time: "19:30", Enabled: false},
		}},
	}, themes)

	require.NoError(t, client.RemoveTime(ctx, "timbo", "07:15"))
	require.NoError(t, client.RemoveTheme(ctx, "canopus"))

	themes, err = client.ListThemes(ctx)
	require.NoError(t, err)
	require.Len(t, themes, 1)
}

// TestClient_ErrorCodes checks the mapping of domain errors to status codes.
func TestClient_ErrorCodes(t *testing.T) {
	t.Parallel()

	svc := newFakeService()
	client := startServer(t, svc)
	ctx := context.Background()

	err := client.AddTime(ctx, "canopus", "8:30")
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	err = client.AddTime(ctx, "canopus", "08:30")
	require.Equal(t, codes.AlreadyExists, status.Code(err))
	require.Contains(t, status.Convert(err).Message(), "already exists")

	err = client.RemoveTime(ctx, "missing", "08:30")
	require.Equal(t, codes.NotFound, status.Code(err))

	err = client.RemoveTheme(ctx, "canopus")
	require.Equal(t, codes.FailedPrecondition, status.Code(err))

	err = client.SetLeadTime(ctx, 5000)
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	err = client.StopAlert(ctx, "nope")
	require.Equal(t, codes.NotFound, status.Code(err))

	svc.exportErr = errTestBackend

	_, err = client.ExportCalendar(ctx)
	require.Equal(t, codes.Internal, status.Code(err))
	require.NotContains(t, status.Convert(err).Message(), "exploded")
}

// TestClient_LeadTimePendingAndAlerts covers the remaining unary calls.
func TestClient_LeadTimePendingAndAlerts(t *testing.T) {
	t.Parallel()

	client := startServer(t, newFakeService())
	ctx := context.Background()

	require.NoError(t, client.SetLeadTime(ctx, 10))

	lead, err := client.GetLeadTime(ctx)
	require.NoError(t, err)
	require.Equal(t, 10, lead)

	pending, err := client.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "canopus", pending[0].ThemeKey)
	require.True(t, pending[0].AlertAt.Equal(time.Date(2025, time.March, 11, 8, 24, 0, 0, time.UTC)))

	alerts, err := client.ListAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	require.Equal(t, "Canopus alarm (08:30) in 10 minutes", alerts[0].Message)

	require.NoError(t, client.SnoozeAlert(ctx, "a1"))

	alerts, err = client.ListAlerts(ctx)
	require.NoError(t, err)
	require.Empty(t, alerts)

	calendar, err := client.ExportCalendar(ctx)
	require.NoError(t, err)
	require.Contains(t, calendar, "BEGIN:VCALENDAR")
}

// TestClient_WatchAlerts streams alerts until the service ends the feed.
func TestClient_WatchAlerts(t *testing.T) {
	t.Parallel()

	svc := newFakeService()
	client := startServer(t, svc)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	watcher, err := client.WatchAlerts(ctx)
	require.NoError(t, err)

	svc.feed <- domain.Alert{ID: "a2", Time: "21:00", ThemeName: "Procion", ThemeKey: "procion", Snoozes: 2}

	alert, err := watcher.Recv()
	require.NoError(t, err)
	require.Equal(t, "a2", alert.ID)
	require.Equal(t, 2, alert.Snoozes)
	require.Equal(t, "Procion alarm (21:00) in 6 minutes", alert.Message)

	close(svc.feed)

	_, err = watcher.Recv()
	require.Equal(t, codes.Unavailable, status.Code(err))
}

// TestClient_SendsActor checks the caller identity reaches the service.
func TestClient_SendsActor(t *testing.T) {
	t.Parallel()

	svc := newFakeService()
	client := startServer(t, svc)

	require.NoError(t, client.AddTheme(context.Background(), "vega", "Vega"))

	svc.mu.Lock()
	defer svc.mu.Unlock()

	require.Equal(t, testActor, svc.lastActor)
}

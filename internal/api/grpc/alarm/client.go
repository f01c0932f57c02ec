package alarm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// defaultCallTimeout bounds unary calls unless WithCallTimeout says otherwise.
const defaultCallTimeout = 5 * time.Second

// errAddressRequired is returned when a required address value is missing.
var errAddressRequired = errors.New("address must be provided")

// Client wraps a gRPC connection to the AlarmService with typed helpers.
type Client struct {
	// conn is the underlying gRPC connection to the alarm server.
	conn *grpc.ClientConn
	// callTimeout is the default timeout for individual unary calls.
	callTimeout time.Duration
	// dialOptions are appended to the defaults when connecting.
	dialOptions []grpc.DialOption
	// actor is sent with every call for the server audit log.
	actor string
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for unary calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithDialOptions adds gRPC dial options, mostly a custom dialer in tests.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(c *Client) {
		c.dialOptions = append(c.dialOptions, opts...)
	}
}

// WithActor sends actor ("user@host") with every call.
func WithActor(actor string) Option {
	return func(c *Client) {
		c.actor = actor
	}
}

// Dial creates a client for the alarm server at address.
// Note: this uses insecure transport credentials; deploy on a trusted network
// or terminate TLS in a proxy until native TLS is added.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	client := &Client{
		callTimeout: defaultCallTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	dialOptions := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)),
	}, client.dialOptions...)

	conn, err := grpc.NewClient(address, dialOptions...)
	if err != nil {
		return nil, fmt.Errorf("dial alarm server: %w", err)
	}

	client.conn = conn

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// ListThemes returns every theme in collection order.
func (c *Client) ListThemes(ctx context.Context) ([]Theme, error) {
	var resp ListThemesResponse
	if err := c.invoke(ctx, methodListThemes, new(Empty), &resp); err != nil {
		return nil, fmt.Errorf("list themes: %w", err)
	}

	return resp.Themes, nil
}

// AddTheme creates an empty enabled theme.
func (c *Client) AddTheme(ctx context.Context, key, name string) error {
	if err := c.invoke(ctx, methodAddTheme, &AddThemeRequest{Key: key, Name: name}, new(Empty)); err != nil {
		return fmt.Errorf("add theme: %w", err)
	}

	return nil
}

// RemoveTheme deletes a theme.
func (c *Client) RemoveTheme(ctx context.Context, key string) error {
	if err := c.invoke(ctx, methodRemoveTheme, &ThemeRequest{Key: key}, new(Empty)); err != nil {
		return fmt.Errorf("remove theme: %w", err)
	}

	return nil
}

// SetThemeEnabled switches a theme.
func (c *Client) SetThemeEnabled(ctx context.Context, key string, enabled bool) error {
	req := &SetThemeEnabledRequest{Key: key, Enabled: enabled}
	if err := c.invoke(ctx, methodSetThemeEnabled, req, new(Empty)); err != nil {
		return fmt.Errorf("set theme enabled: %w", err)
	}

	return nil
}

// AddTime inserts an entry into a theme.
func (c *Client) AddTime(ctx context.Context, key, value string) error {
	if err := c.invoke(ctx, methodAddTime, &TimeRequest{Key: key, Time: value}, new(Empty)); err != nil {
		return fmt.Errorf("add time: %w", err)
	}

	return nil
}

// RemoveTime deletes an entry from a theme.
func (c *Client) RemoveTime(ctx context.Context, key, value string) error {
	if err := c.invoke(ctx, methodRemoveTime, &TimeRequest{Key: key, Time: value}, new(Empty)); err != nil {
		return fmt.Errorf("remove time: %w", err)
	}

	return nil
}

// SetTimeEnabled switches an entry.
func (c *Client) SetTimeEnabled(ctx context.Context, key, value string, enabled bool) error {
	req := &SetTimeEnabledRequest{Key: key, Time: value, Enabled: enabled}
	if err := c.invoke(ctx, methodSetTimeEnabled, req, new(Empty)); err != nil {
		return fmt.Errorf("set time enabled: %w", err)
	}

	return nil
}

// GetLeadTime returns the lead time in minutes.
func (c *Client) GetLeadTime(ctx context.Context) (int, error) {
	var resp LeadTime
	if err := c.invoke(ctx, methodGetLeadTime, new(Empty), &resp); err != nil {
		return 0, fmt.Errorf("get lead time: %w", err)
	}

	return resp.Minutes, nil
}

// SetLeadTime changes the lead time.
func (c *Client) SetLeadTime(ctx context.Context, minutes int) error {
	if err := c.invoke(ctx, methodSetLeadTime, &LeadTime{Minutes: minutes}, new(Empty)); err != nil {
		return fmt.Errorf("set lead time: %w", err)
	}

	return nil
}

// ListPending returns the armed triggers.
func (c *Client) ListPending(ctx context.Context) ([]Trigger, error) {
	var resp ListPendingResponse
	if err := c.invoke(ctx, methodListPending, new(Empty), &resp); err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}

	return resp.Triggers, nil
}

// ListAlerts returns the open alerts.
func (c *Client) ListAlerts(ctx context.Context) ([]Alert, error) {
	var resp ListAlertsResponse
	if err := c.invoke(ctx, methodListAlerts, new(Empty), &resp); err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}

	return resp.Alerts, nil
}

// SnoozeAlert snoozes an open alert.
func (c *Client) SnoozeAlert(ctx context.Context, alertID string) error {
	if err := c.invoke(ctx, methodSnoozeAlert, &AlertRequest{ID: alertID}, new(Empty)); err != nil {
		return fmt.Errorf("snooze alert: %w", err)
	}

	return nil
}

// StopAlert stops an open alert.
func (c *Client) StopAlert(ctx context.Context, alertID string) error {
	if err := c.invoke(ctx, methodStopAlert, &AlertRequest{ID: alertID}, new(Empty)); err != nil {
		return fmt.Errorf("stop alert: %w", err)
	}

	return nil
}

// ExportCalendar returns the iCalendar feed of the enabled entries.
func (c *Client) ExportCalendar(ctx context.Context) (string, error) {
	var resp ExportCalendarResponse
	if err := c.invoke(ctx, methodExportCalendar, new(Empty), &resp); err != nil {
		return "", fmt.Errorf("export calendar: %w", err)
	}

	return resp.Calendar, nil
}

// WatchAlerts opens the alert stream. It is not bound by the call timeout and
// ends when ctx is done.
func (c *Client) WatchAlerts(ctx context.Context) (*AlertWatcher, error) {
	stream, err := c.conn.NewStream(withActor(ctx, c.actor), &serviceDesc.Streams[0], fullMethod(methodWatchAlerts))
	if err != nil {
		return nil, fmt.Errorf("watch alerts: %w", err)
	}

	if err = stream.SendMsg(new(Empty)); err != nil {
		return nil, fmt.Errorf("watch alerts: %w", err)
	}

	if err = stream.CloseSend(); err != nil {
		return nil, fmt.Errorf("watch alerts: %w", err)
	}

	return &AlertWatcher{stream: stream}, nil
}

// AlertWatcher receives alerts from an open stream.
type AlertWatcher struct {
	stream grpc.ClientStream
}

// Recv blocks until the next alert arrives. It returns io.EOF when the server ends the stream.
func (w *AlertWatcher) Recv() (*Alert, error) {
	alert := new(Alert)
	if err := w.stream.RecvMsg(alert); err != nil {
		return nil, err
	}

	return alert, nil
}

// invoke performs a unary call bounded by the call timeout.
func (c *Client) invoke(ctx context.Context, method string, in, out any) error {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	return c.conn.Invoke(callCtx, fullMethod(method), in, out)
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = withActor(ctx, c.actor)

	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}

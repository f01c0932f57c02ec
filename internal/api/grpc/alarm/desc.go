package alarm

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "themealarm.v1.AlarmService"

// Method names of the service.
const (
	methodListThemes      = "ListThemes"
	methodAddTheme        = "AddTheme"
	methodRemoveTheme     = "RemoveTheme"
	methodSetThemeEnabled = "SetThemeEnabled"
	methodAddTime         = "AddTime"
	methodRemoveTime      = "RemoveTime"
	methodSetTimeEnabled  = "SetTimeEnabled"
	methodGetLeadTime     = "GetLeadTime"
	methodSetLeadTime     = "SetLeadTime"
	methodListPending     = "ListPending"
	methodListAlerts      = "ListAlerts"
	methodSnoozeAlert     = "SnoozeAlert"
	methodStopAlert       = "StopAlert"
	methodExportCalendar  = "ExportCalendar"
	methodWatchAlerts     = "WatchAlerts"
)

// AlarmServiceServer is the server API of the service.
type AlarmServiceServer interface {
	ListThemes(ctx context.Context, req *Empty) (*ListThemesResponse, error)
	AddTheme(ctx context.Context, req *AddThemeRequest) (*Empty, error)
	RemoveTheme(ctx context.Context, req *ThemeRequest) (*Empty, error)
	SetThemeEnabled(ctx context.Context, req *SetThemeEnabledRequest) (*Empty, error)
	AddTime(ctx context.Context, req *TimeRequest) (*Empty, error)
	RemoveTime(ctx context.Context, req *TimeRequest) (*Empty, error)
	SetTimeEnabled(ctx context.Context, req *SetTimeEnabledRequest) (*Empty, error)
	GetLeadTime(ctx context.Context, req *Empty) (*LeadTime, error)
	SetLeadTime(ctx context.Context, req *LeadTime) (*Empty, error)
	ListPending(ctx context.Context, req *Empty) (*ListPendingResponse, error)
	ListAlerts(ctx context.Context, req *Empty) (*ListAlertsResponse, error)
	SnoozeAlert(ctx context.Context, req *AlertRequest) (*Empty, error)
	StopAlert(ctx context.Context, req *AlertRequest) (*Empty, error)
	ExportCalendar(ctx context.Context, req *Empty) (*ExportCalendarResponse, error)
	WatchAlerts(req *Empty, stream AlertStream) error
}

// AlertStream is the server side of WatchAlerts.
type AlertStream interface {
	Send(alert *Alert) error
	Context() context.Context
}

// alertStream adapts a raw server stream.
type alertStream struct {
	grpc.ServerStream
}

// Send writes one alert to the stream.
func (s *alertStream) Send(alert *Alert) error {
	return s.SendMsg(alert)
}

// serviceDesc describes the service for registration and client streams.
//
//nolint:gochecknoglobals // Descriptors are package-level by convention.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AlarmServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: methodListThemes, Handler: unary(methodListThemes, AlarmServiceServer.ListThemes)},
		{MethodName: methodAddTheme, Handler: unary(methodAddTheme, AlarmServiceServer.AddTheme)},
		{MethodName: methodRemoveTheme, Handler: unary(methodRemoveTheme, AlarmServiceServer.RemoveTheme)},
		{MethodName: methodSetThemeEnabled, Handler: unary(methodSetThemeEnabled, AlarmServiceServer.SetThemeEnabled)},
		{MethodName: methodAddTime, Handler: unary(methodAddTime, AlarmServiceServer.AddTime)},
		{MethodName: methodRemoveTime, Handler: unary(methodRemoveTime, AlarmServiceServer.RemoveTime)},
		{MethodName: methodSetTimeEnabled, Handler: unary(methodSetTimeEnabled, AlarmServiceServer.SetTimeEnabled)},
		{MethodName: methodGetLeadTime, Handler: unary(methodGetLeadTime, AlarmServiceServer.GetLeadTime)},
		{MethodName: methodSetLeadTime, Handler: unary(methodSetLeadTime, AlarmServiceServer.SetLeadTime)},
		{MethodName: methodListPending, Handler: unary(methodListPending, AlarmServiceServer.ListPending)},
		{MethodName: methodListAlerts, Handler: unary(methodListAlerts, AlarmServiceServer.ListAlerts)},
		{MethodName: methodSnoozeAlert, Handler: unary(methodSnoozeAlert, AlarmServiceServer.SnoozeAlert)},
		{MethodName: methodStopAlert, Handler: unary(methodStopAlert, AlarmServiceServer.StopAlert)},
		{MethodName: methodExportCalendar, Handler: unary(methodExportCalendar, AlarmServiceServer.ExportCalendar)},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    methodWatchAlerts,
			Handler:       watchAlertsHandler,
			ServerStreams: true,
		},
	},
	Metadata: "themealarm/v1/alarm.proto",
}

// RegisterAlarmServiceServer registers srv on the gRPC server.
func RegisterAlarmServiceServer(registrar grpc.ServiceRegistrar, srv AlarmServiceServer) {
	registrar.RegisterService(&serviceDesc, srv)
}

// fullMethod returns the "/service/method" path of a method.
func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// unary builds the handler of a unary method from its interface method expression.
func unary[Req, Resp any](
	method string,
	call func(AlarmServiceServer, context.Context, *Req) (*Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}

		server, _ := srv.(AlarmServiceServer)

		if interceptor == nil {
			return call(server, ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod(method),
		}

		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			typed, _ := req.(*Req)

			return call(server, ctx, typed)
		})
	}
}

// watchAlertsHandler decodes the WatchAlerts request and runs the stream.
func watchAlertsHandler(srv any, stream grpc.ServerStream) error {
	in := new(Empty)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}

	server, _ := srv.(AlarmServiceServer)

	return server.WatchAlerts(in, &alertStream{ServerStream: stream})
}

package admin

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strings"

	"blog/internal/cache"
	"blog/internal/nlog"
	"blog/internal/service"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Site is the part of the HTTP front end the control plane can switch.
type Site interface {
	SetPause(paused bool)
}

type AdminServer struct {
	pageCache    *cache.PageCache
	site         Site
	groupService service.GroupService
	logger       nlog.Logger
}

func NewAdminServer(pageCache *cache.PageCache, site Site, groupService service.GroupService, logger nlog.Logger) *AdminServer {
	return &AdminServer{
		pageCache:    pageCache,
		site:         site,
		groupService: groupService,
		logger:       logger,
	}
}

func (a *AdminServer) Logf(format string, v ...any) {
	a.logger.Logf(format, v...)
}

func (a *AdminServer) ClearPageCache(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	dropped := a.pageCache.Len()
	a.pageCache.Clear()
	a.Logf("Page cache cleared {%d entries}", dropped)
	return &emptypb.Empty{}, nil
}

func (a *AdminServer) SetMaintenance(ctx context.Context, in *wrapperspb.BoolValue) (*emptypb.Empty, error) {
	a.site.SetPause(in.GetValue())
	a.Logf("Maintenance mode set to {%t}", in.GetValue())
	return &emptypb.Empty{}, nil
}

func (a *AdminServer) CreateGroup(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	fields := in.GetFields()
	form := service.GroupForm{
		Title:       fields["title"].GetStringValue(),
		Slug:        fields["slug"].GetStringValue(),
		Description: fields["description"].GetStringValue(),
	}

	group, err := a.groupService.Create(ctx, form)
	if err != nil {
		switch service.GetErrorCode(err) {
		case service.ErrInvalidInput:
			return nil, status.Error(codes.InvalidArgument, describeFields(service.FieldErrors(err)))
		case service.ErrDuplicate:
			return nil, status.Error(codes.AlreadyExists, err.Error())
		default:
			a.Logf("Could not create group: %v", err)
			return nil, status.Error(codes.Internal, "could not create group")
		}
	}

	return structpb.NewStruct(map[string]any{
		"id":   float64(group.ID),
		"slug": group.Slug,
	})
}

func describeFields(fields map[string]string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, fields[name]))
	}
	return strings.Join(parts, "; ")
}

// LoggingInterceptor logs every admin call with its outcome.
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		logger.Info("admin call",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()))
		return resp, err
	}
}

// Serve runs the admin service on lis until ctx is done.
func Serve(ctx context.Context, lis net.Listener, srv AdminServiceServer, logger *zap.Logger) error {
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(LoggingInterceptor(logger)))
	RegisterAdminServiceServer(grpcServer, srv)

	go func() {
		<-ctx.Done()
		grpcServer.GracefulStop()
	}()

	if err := grpcServer.Serve(lis); err != nil {
		return fmt.Errorf("admin server: %w", err)
	}
	return nil
}

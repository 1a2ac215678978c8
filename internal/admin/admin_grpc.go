package admin

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The admin API only uses protobuf well known types, so its descriptor is kept by hand.

const ServiceName = "blog.admin.AdminService"

const (
	clearPageCacheMethod = "/" + ServiceName + "/ClearPageCache"
	setMaintenanceMethod = "/" + ServiceName + "/SetMaintenance"
	createGroupMethod    = "/" + ServiceName + "/CreateGroup"
)

// AdminServiceServer is the control plane of a running site.
type AdminServiceServer interface {
	ClearPageCache(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	SetMaintenance(context.Context, *wrapperspb.BoolValue) (*emptypb.Empty, error)
	// CreateGroup takes {title, slug, description} and answers {id, slug}.
	CreateGroup(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func RegisterAdminServiceServer(s grpc.ServiceRegistrar, srv AdminServiceServer) {
	s.RegisterService(&AdminService_ServiceDesc, srv)
}

var AdminService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AdminServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ClearPageCache", Handler: clearPageCacheHandler},
		{MethodName: "SetMaintenance", Handler: setMaintenanceHandler},
		{MethodName: "CreateGroup", Handler: createGroupHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "blog/admin.proto",
}

func clearPageCacheHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdminServiceServer).ClearPageCache(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: clearPageCacheMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AdminServiceServer).ClearPageCache(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func setMaintenanceHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.BoolValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdminServiceServer).SetMaintenance(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: setMaintenanceMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AdminServiceServer).SetMaintenance(ctx, req.(*wrapperspb.BoolValue))
	}
	return interceptor(ctx, in, info, handler)
}

func createGroupHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdminServiceServer).CreateGroup(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: createGroupMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AdminServiceServer).CreateGroup(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Client calls the admin service over an established connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) ClearPageCache(ctx context.Context) error {
	return c.cc.Invoke(ctx, clearPageCacheMethod, &emptypb.Empty{}, new(emptypb.Empty))
}

func (c *Client) SetMaintenance(ctx context.Context, on bool) error {
	return c.cc.Invoke(ctx, setMaintenanceMethod, wrapperspb.Bool(on), new(emptypb.Empty))
}

func (c *Client) CreateGroup(ctx context.Context, title, slug, description string) (uint, string, error) {
	in, err := structpb.NewStruct(map[string]any{
		"title":       title,
		"slug":        slug,
		"description": description,
	})
	if err != nil {
		return 0, "", err
	}

	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, createGroupMethod, in, out); err != nil {
		return 0, "", err
	}
	fields := out.GetFields()
	return uint(fields["id"].GetNumberValue()), fields["slug"].GetStringValue(), nil
}

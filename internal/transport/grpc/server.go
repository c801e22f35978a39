package grpcx

import (
	"context"
	"errors"

	"github.com/cwrk-planet/chat-service/internal/domain"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ServiceName = "chat.v1.RoomDirectory"

	listRoomsMethod = "/" + ServiceName + "/ListRooms"
	getRoomMethod   = "/" + ServiceName + "/GetRoom"
)

type RoomReader interface {
	ListRooms() []string
	GetRoom(name string) (domain.Room, error)
}

// DirectoryServer is the read-only room directory. Requests and replies are
// protobuf well-known types.
type DirectoryServer interface {
	ListRooms(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	GetRoom(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

type Server struct {
	rooms RoomReader
}

func NewServer(rooms RoomReader) *Server {
	return &Server{rooms: rooms}
}

func Register(gs grpc.ServiceRegistrar, s DirectoryServer) {
	gs.RegisterService(&ServiceDesc, s)
}

func (s *Server) ListRooms(_ context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	names := s.rooms.ListRooms()
	vals := make([]any, 0, len(names))
	for _, n := range names {
		vals = append(vals, n)
	}
	out, err := structpb.NewList(vals)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode rooms: %v", err)
	}
	return out, nil
}

func (s *Server) GetRoom(_ context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error) {
	name := in.GetValue()
	if name == "" {
		return nil, status.Error(codes.InvalidArgument, "room name is required")
	}

	room, err := s.rooms.GetRoom(name)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			return nil, status.Error(codes.NotFound, "room not found")
		}
		return nil, status.Error(codes.Internal, err.Error())
	}

	users := make([]any, 0, len(room.Members))
	for _, m := range room.Members {
		users = append(users, m)
	}
	msgs := make([]any, 0, len(room.History))
	for _, m := range room.History {
		msgs = append(msgs, map[string]any{
			"username":  m.Author,
			"message":   m.Text,
			"timestamp": m.SentAt,
		})
	}

	out, err := structpb.NewStruct(map[string]any{
		"name":     room.Name,
		"users":    users,
		"messages": msgs,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode room: %v", err)
	}
	return out, nil
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DirectoryServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListRooms", Handler: listRoomsHandler},
		{MethodName: "GetRoom", Handler: getRoomHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "chat/v1/directory.proto",
}

func listRoomsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DirectoryServer).ListRooms(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: listRoomsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DirectoryServer).ListRooms(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func getRoomHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DirectoryServer).GetRoom(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getRoomMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DirectoryServer).GetRoom(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

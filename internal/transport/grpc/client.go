package grpcx

import (
	"context"
	"fmt"

	"github.com/cwrk-planet/chat-service/internal/domain"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client reads the room directory of a running chat service.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) ListRooms(ctx context.Context, opts ...grpc.CallOption) ([]string, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, listRoomsMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(out.GetValues()))
	for _, v := range out.GetValues() {
		names = append(names, v.GetStringValue())
	}
	return names, nil
}

func (c *Client) GetRoom(ctx context.Context, name string, opts ...grpc.CallOption) (domain.Room, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, getRoomMethod, wrapperspb.String(name), out, opts...); err != nil {
		return domain.Room{}, err
	}

	f := out.GetFields()
	room := domain.Room{
		Name:    f["name"].GetStringValue(),
		Members: []string{},
		History: []domain.Message{},
	}
	for _, u := range f["users"].GetListValue().GetValues() {
		room.Members = append(room.Members, u.GetStringValue())
	}
	for _, m := range f["messages"].GetListValue().GetValues() {
		mf := m.GetStructValue().GetFields()
		if mf == nil {
			return domain.Room{}, fmt.Errorf("grpcx: malformed message entry in room %q", name)
		}
		room.History = append(room.History, domain.Message{
			Author: mf["username"].GetStringValue(),
			Text:   mf["message"].GetStringValue(),
			SentAt: mf["timestamp"].GetStringValue(),
		})
	}
	return room, nil
}

package rpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls enchant.v1.Engine, encoding requests and decoding responses
// through the same JSON shapes the server uses.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes method with req and decodes the reply into out.
func (c *Client) Call(ctx context.Context, method string, req, out any, opts ...grpc.CallOption) error {
	in := &structpb.Struct{}
	if req != nil {
		var err error
		if in, err = toStruct(req); err != nil {
			return fmt.Errorf("encode %s request: %w", method, err)
		}
	}
	reply := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, reply, opts...); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return fromStruct(reply, out)
}

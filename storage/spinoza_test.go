package storage

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/encoding/protowire"
)

type spinozaCall struct {
	method string
	data   []byte
	bucket string
	path   string
}

func decodeRequest(t *testing.T, b []byte) spinozaCall {
	var call spinozaCall
	for len(b) > 0 {
		num, _, n := protowire.ConsumeTag(b)
		require.Positive(t, n)
		b = b[n:]

		v, n := protowire.ConsumeBytes(b)
		require.Positive(t, n)
		b = b[n:]

		switch num {
		case 1:
			call.data = v
		case 2:
			call.bucket = string(v)
		case 3:
			call.path = string(v)
		}
	}
	return call
}

func encodeReply(message string, failed bool) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, message)
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeBool(failed))
	// unknown field
	b = protowire.AppendTag(b, 9, protowire.VarintType)
	b = protowire.AppendVarint(b, 42)
	return b
}

func startSpinoza(t *testing.T, calls chan<- spinozaCall, fail bool) *Spinoza {
	listener := bufconn.Listen(1 << 20)

	server := grpc.NewServer(
		grpc.ForceServerCodec(rawCodec{}),
		grpc.UnknownServiceHandler(func(_ any, stream grpc.ServerStream) error {
			method, _ := grpc.MethodFromServerStream(stream)

			var request []byte
			if err := stream.RecvMsg(&request); err != nil {
				return err
			}

			call := decodeRequest(t, request)
			call.method = method
			calls <- call

			reply := encodeReply("https://cdn.gravitalia.com/"+call.bucket+"/"+call.path, fail)
			return stream.SendMsg(&reply)
		}),
	)
	go server.Serve(listener)
	t.Cleanup(server.Stop)

	client, err := NewSpinoza("bufnet", grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return listener.DialContext(ctx)
	}))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client
}

func TestSpinozaUpload(t *testing.T) {
	calls := make(chan spinozaCall, 2)
	client := startSpinoza(t, calls, false)

	url, err := client.Upload(context.Background(), Posts, "u1/1.png", png, "image/png")
	require.NoError(t, err)
	require.Equal(t, "https://cdn.gravitalia.com/posts/u1/1.png", url)

	call := <-calls
	require.Equal(t, uploadMethod, call.method)
	require.Equal(t, png, call.data)
	require.Equal(t, Posts, call.bucket)
	require.Equal(t, "u1/1.png", call.path)

	require.NoError(t, client.Remove(context.Background(), Posts, "u1/1.png"))
	call = <-calls
	require.Equal(t, deleteMethod, call.method)
	require.Empty(t, call.data)
}

func TestSpinozaFailure(t *testing.T) {
	calls := make(chan spinozaCall, 1)
	client := startSpinoza(t, calls, true)

	_, err := client.Upload(context.Background(), Avatars, "u1/1.png", png, "image/png")
	require.Error(t, err)
	<-calls

	_, err = client.Upload(context.Background(), "other", "u1/1.png", png, "image/png")
	require.ErrorIs(t, err, ErrInvalidBucket)
}

func TestDecodeReply(t *testing.T) {
	message, failed, err := decodeReply(encodeReply("ok", false))
	require.NoError(t, err)
	require.Equal(t, "ok", message)
	require.False(t, failed)

	_, _, err = decodeReply([]byte{0x0a, 0x05, 'a'})
	require.Error(t, err)
}

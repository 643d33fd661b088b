package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	uploadMethod = "/spinoza.Spinoza/Upload"
	deleteMethod = "/spinoza.Spinoza/Delete"
	timeout      = 20 * time.Second
)

// rawCodec sends already encoded protobuf messages
type rawCodec struct{}

func (rawCodec) Marshal(v any) ([]byte, error) {
	b, ok := v.(*[]byte)
	if !ok {
		return nil, fmt.Errorf("raw codec: cannot marshal %T", v)
	}
	return *b, nil
}

func (rawCodec) Unmarshal(data []byte, v any) error {
	b, ok := v.(*[]byte)
	if !ok {
		return fmt.Errorf("raw codec: cannot unmarshal into %T", v)
	}
	*b = append((*b)[:0], data...)
	return nil
}

func (rawCodec) Name() string {
	return "proto"
}

// Spinoza uploads images to the Spinoza image service over gRPC
type Spinoza struct {
	conn *grpc.ClientConn
}

// NewSpinoza set up a connection to the server
func NewSpinoza(address string, opts ...grpc.DialOption) (*Spinoza, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(rawCodec{})),
	}, opts...)

	conn, err := grpc.Dial(address, opts...)
	if err != nil {
		return nil, err
	}

	return &Spinoza{conn: conn}, nil
}

func (s *Spinoza) Close() error {
	return s.conn.Close()
}

// encodeRequest builds {1: data, 2: bucket, 3: path}
func encodeRequest(data []byte, bucket, objectPath string) []byte {
	var b []byte
	if len(data) > 0 {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, data)
	}
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendString(b, bucket)
	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendString(b, objectPath)
	return b
}

// decodeReply reads {1: message, 2: error}. Unknown fields are skipped
func decodeReply(b []byte) (string, bool, error) {
	var (
		message string
		failed  bool
	)

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return "", false, protowire.ParseError(n)
		}
		b = b[n:]

		switch {
		case num == 1 && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return "", false, protowire.ParseError(n)
			}
			message = v
			b = b[n:]
		case num == 2 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return "", false, protowire.ParseError(n)
			}
			failed = protowire.DecodeBool(v)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return "", false, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}

	return message, failed, nil
}

func (s *Spinoza) call(ctx context.Context, method string, request []byte) (string, error) {
	// If no response in 20 seconds, cancel it
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reply []byte
	if err := s.conn.Invoke(ctx, method, &request, &reply); err != nil {
		return "", err
	}

	message, failed, err := decodeReply(reply)
	if err != nil {
		return "", err
	} else if failed {
		return "", errors.New("spinoza: " + message)
	}

	return message, nil
}

// Upload allows to transfer image as bytes into Spinoza
// server and returns the public URL it answers
func (s *Spinoza) Upload(ctx context.Context, bucket, objectPath string, data []byte, _ string) (string, error) {
	if err := CheckBucket(bucket); err != nil {
		return "", err
	}
	cleaned, err := cleanPath(objectPath)
	if err != nil {
		return "", err
	}

	return s.call(ctx, uploadMethod, encodeRequest(data, bucket, cleaned))
}

// Remove allows to delete an image
func (s *Spinoza) Remove(ctx context.Context, bucket, objectPath string) error {
	if err := CheckBucket(bucket); err != nil {
		return err
	}
	cleaned, err := cleanPath(objectPath)
	if err != nil {
		return err
	}

	_, err = s.call(ctx, deleteMethod, encodeRequest(nil, bucket, cleaned))
	return err
}
